package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.OutputDir = filepath.Join(base, "episodes")
	cfgVal.Paths.TranscriptsDir = filepath.Join(base, "outputs")
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio-files")
	cfgVal.Paths.AssetsDir = filepath.Join(base, "assets")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Cache.Path = filepath.Join(base, "data", "podcast_cache.db")
	cfgVal.LLM.APIKey = "test"
	cfgVal.TTS.APIKey = "test"
	cfgVal.Audio.PrerecordedIntroDir = filepath.Join(base, "assets", "intros")
	cfgVal.Audio.PrerecordedOutroDir = filepath.Join(base, "assets", "outros")
	for lang, file := range cfgVal.Audio.IntroMusic {
		cfgVal.Audio.IntroMusic[lang] = filepath.Join(base, "assets", file)
	}
	for lang, file := range cfgVal.Audio.OutroMusic {
		cfgVal.Audio.OutroMusic[lang] = filepath.Join(base, "assets", file)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithoutKeys clears the LLM and TTS credentials.
func WithoutKeys() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = ""
		b.cfg.TTS.APIKey = ""
	}
}

// WithPrerecordedIntros enables prerecorded intro and outro files.
func WithPrerecordedIntros() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Audio.UsePrerecordedIntros = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
