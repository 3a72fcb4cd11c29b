package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
)

func clearKeys(t *testing.T) {
	t.Helper()
	for _, name := range []string{"ANTHROPIC_API_KEY", "CLAUDE_API_KEY", "OPENAI_API_KEY", "OPENROUTER_API_KEY", "ELEVENLABS_API_KEY", "AIBUILDERS_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())
	clearKeys(t)

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected no config file, got %s", path)
	}
	if want := filepath.Join(tempHome, ".config", "aibuilders", "config.toml"); path != want {
		t.Fatalf("unexpected resolved path: %s", path)
	}
	if cfg.LLM.Provider != config.ProviderAnthropic {
		t.Fatalf("unexpected provider %q", cfg.LLM.Provider)
	}
	if got := cfg.ModelFor(config.TierPremium); got != "claude-3-7-sonnet-20250219" {
		t.Fatalf("unexpected premium model %q", got)
	}
	if got := cfg.VoiceModelFor(config.TierEconomy); got != "eleven_turbo_v2" {
		t.Fatalf("unexpected economy voice model %q", got)
	}
	if cfg.Cache.Path != filepath.Join(tempHome, ".local", "share", "aibuilders", "podcast_cache.db") {
		t.Fatalf("unexpected cache path %q", cfg.Cache.Path)
	}
	if cfg.Cache.LLMTTLHours != 24 || cfg.Budget.MaxDailyCost != 15 || cfg.Budget.MaxEpisodeCost != 12 {
		t.Fatalf("unexpected defaults: %+v %+v", cfg.Cache, cfg.Budget)
	}
	if cfg.Audio.PauseMillis != 800 || !cfg.Audio.Normalize {
		t.Fatalf("unexpected audio defaults: %+v", cfg.Audio)
	}
}

func TestLoadReadsFileAndEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearKeys(t)
	t.Setenv("ELEVENLABS_API_KEY", "xi-env")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "aibuilders.toml")
	content := `
[paths]
assets_dir = "` + filepath.Join(dir, "assets") + `"

[llm]
provider = "OpenAI"

[llm.models]
premium = "gpt-4o"

[audio.intro_music]
hindi = "hindi_intro.mp3"

[logging]
format = "JSON"
level = "warning"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %s to be loaded, got %s exists=%v", path, resolved, exists)
	}
	if cfg.LLM.Provider != config.ProviderOpenAI || cfg.LLM.APIKey != "sk-env" {
		t.Fatalf("unexpected llm section: %+v", cfg.LLM)
	}
	if cfg.TTS.APIKey != "xi-env" {
		t.Fatalf("expected tts key from env, got %q", cfg.TTS.APIKey)
	}
	if cfg.ModelFor(config.TierPremium) != "gpt-4o" || cfg.ModelFor(config.TierEconomy) != "claude-3-7-sonnet-20250219" {
		t.Fatalf("unexpected models: %v", cfg.LLM.Models)
	}
	if cfg.ModelFor("unknown") != cfg.ModelFor(config.TierStandard) {
		t.Fatal("expected unknown tier to fall back to standard")
	}
	intro, outro := cfg.MusicFor("hindi")
	if intro != filepath.Join(dir, "assets", "hindi_intro.mp3") {
		t.Fatalf("unexpected intro music %q", intro)
	}
	if outro != filepath.Join(dir, "assets", "outro_music_hindi.mp3") {
		t.Fatalf("unexpected outro music %q", outro)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearKeys(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[llm]\nprovider = \"mystery\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "llm.provider") {
		t.Fatalf("expected provider validation error, got %v", err)
	}
}

func TestRequireKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	if err := cfg.RequireLLMKey(); err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Fatalf("expected llm key error, got %v", err)
	}
	if err := cfg.RequireTTSKey(); err == nil || !strings.Contains(err.Error(), "ELEVENLABS_API_KEY") {
		t.Fatalf("expected tts key error, got %v", err)
	}
	cfg.LLM.APIKey = "k"
	cfg.TTS.APIKey = "k"
	if cfg.RequireLLMKey() != nil || cfg.RequireTTSKey() != nil {
		t.Fatal("expected keys to satisfy requirements")
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearKeys(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.OutputDir = filepath.Join(base, "episodes")
	cfg.Paths.TranscriptsDir = filepath.Join(base, "outputs")
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Cache.Path = filepath.Join(base, "cache", "podcast.db")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.OutputDir, cfg.Paths.TranscriptsDir, cfg.Paths.AudioDir, cfg.Paths.LogDir, filepath.Join(base, "cache")} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", dir, err)
		}
	}
}
