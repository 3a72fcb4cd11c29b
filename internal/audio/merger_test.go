package audio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/revathi-prasad/ai-builders-podcast/internal/audio"
	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/testsupport"
)

type recordedCommand struct {
	name string
	args []string
}

func recordingRunner(calls *[]recordedCommand, fail error) func(context.Context, string, ...string) error {
	return func(_ context.Context, name string, args ...string) error {
		*calls = append(*calls, recordedCommand{name: name, args: args})
		if fail != nil {
			return fail
		}
		return os.WriteFile(args[len(args)-1], []byte("merged"), 0o644)
	}
}

func writeClips(t *testing.T, cfg *config.Config, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, n := range names {
		p := filepath.Join(cfg.Paths.AudioDir, n)
		testsupport.WriteClip(t, p)
		paths = append(paths, p)
	}
	return paths
}

func inputs(args []string) []string {
	var out []string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-i" {
			out = append(out, args[i+1])
		}
	}
	return out
}

func filterGraph(args []string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-filter_complex" {
			return args[i+1]
		}
	}
	return ""
}

func TestMergeNothingIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	var calls []recordedCommand
	m := audio.NewMerger(cfg, nil)
	m.WithCommandRunner(recordingRunner(&calls, nil))

	for _, files := range [][]string{nil, {audio.MusicMarker, audio.MusicMarker}} {
		out, err := m.Merge(context.Background(), files, filepath.Join(cfg.Paths.OutputDir, "ep.mp3"), "english")
		if err != nil || out != "" {
			t.Fatalf("expected no-op, got %q %v", out, err)
		}
	}
	if len(calls) != 0 {
		t.Fatalf("ffmpeg should not run, got %d calls", len(calls))
	}
}

func TestMergeWithoutMusicJoinsClipsPlainly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	clips := writeClips(t, cfg, "a.mp3", "b.mp3")
	var calls []recordedCommand
	m := audio.NewMerger(cfg, nil)
	m.WithCommandRunner(recordingRunner(&calls, nil))

	output := filepath.Join(cfg.Paths.OutputDir, "ep01_demo_english.mp3")
	files := append([]string{audio.MusicMarker}, append(clips, audio.MusicMarker)...)
	got, err := m.Merge(context.Background(), files, output, "english")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got != output {
		t.Fatalf("unexpected output %q", got)
	}
	if data, _ := os.ReadFile(output); string(data) != "merged" {
		t.Fatalf("output not moved into place: %q", data)
	}
	if len(calls) != 1 || calls[0].name != "ffmpeg" {
		t.Fatalf("unexpected calls %+v", calls)
	}
	in := inputs(calls[0].args)
	if len(in) != 2 || in[0] != clips[0] || in[1] != clips[1] {
		t.Fatalf("unexpected inputs %v", in)
	}
	graph := filterGraph(calls[0].args)
	if strings.Contains(graph, "areverse") || !strings.Contains(graph, "concat=n=2") {
		t.Fatalf("unexpected filter graph %q", graph)
	}
	if !strings.Contains(graph, "[1:a]") || !strings.Contains(graph, "adelay=delays=800:all=1") {
		t.Fatalf("second clip should be preceded by the pause: %q", graph)
	}
	if !strings.Contains(graph, "loudnorm") {
		t.Fatalf("normalisation enabled but missing: %q", graph)
	}
}

func TestMergeAddsMusicWithDefaultFallback(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteClip(t, cfg.Audio.IntroMusic["default"])
	testsupport.WriteClip(t, cfg.Audio.OutroMusic["tamil"])
	clips := writeClips(t, cfg, "a.mp3")
	var calls []recordedCommand
	m := audio.NewMerger(cfg, nil)
	m.WithCommandRunner(recordingRunner(&calls, nil))

	if _, err := m.Merge(context.Background(), clips, filepath.Join(cfg.Paths.OutputDir, "ep.mp3"), "tamil"); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	in := inputs(calls[0].args)
	want := []string{cfg.Audio.IntroMusic["default"], clips[0], cfg.Audio.OutroMusic["tamil"]}
	if len(in) != len(want) {
		t.Fatalf("unexpected inputs %v", in)
	}
	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("input %d = %q, want %q", i, in[i], want[i])
		}
	}
	graph := filterGraph(calls[0].args)
	if !strings.Contains(graph, "areverse,afade=t=in:st=0:d=2.000,areverse") || !strings.Contains(graph, "concat=n=3") {
		t.Fatalf("unexpected filter graph %q", graph)
	}
}

func TestMergeSingleClipWithoutProcessingIsCopied(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Audio.Normalize = false
	clips := writeClips(t, cfg, "only.mp3")
	var calls []recordedCommand
	m := audio.NewMerger(cfg, nil)
	m.WithCommandRunner(recordingRunner(&calls, nil))

	output := filepath.Join(cfg.Paths.OutputDir, "ep.mp3")
	if _, err := m.Merge(context.Background(), clips, output, "english"); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(calls) != 0 {
		t.Fatal("single clip should be copied without ffmpeg")
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestMergeFailureLeavesNoTempFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	clips := writeClips(t, cfg, "a.mp3", "b.mp3")
	var calls []recordedCommand
	m := audio.NewMerger(cfg, nil)
	m.WithCommandRunner(recordingRunner(&calls, errors.New("exit status 1: bad input")))

	output := filepath.Join(cfg.Paths.OutputDir, "ep.mp3")
	if _, err := m.Merge(context.Background(), clips, output, "english"); err == nil {
		t.Fatal("expected ffmpeg failure")
	}
	entries, _ := os.ReadDir(cfg.Paths.OutputDir)
	if len(entries) != 0 {
		t.Fatalf("expected empty output dir, found %d entries", len(entries))
	}
}

func TestMergeMissingClipIsError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	m := audio.NewMerger(cfg, nil)
	if _, err := m.Merge(context.Background(), []string{"/nonexistent/clip.mp3"}, "/tmp/out.mp3", "english"); err == nil {
		t.Fatal("expected error for missing clip")
	}
}
