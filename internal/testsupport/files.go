package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// FakeMP3 is the payload of every clip written by FakeSynth and WriteClip.
var FakeMP3 = []byte("ID3fake-mp3")

// WriteClip writes a placeholder MP3 at path, creating parent directories.
func WriteClip(t testing.TB, path string) {
	t.Helper()
	writeFile(t, path, FakeMP3)
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()
	writeFile(t, path, []byte(content))
}

func writeFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
