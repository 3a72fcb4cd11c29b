package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Cost tiers accepted by the llm and tts model tables.
const (
	TierEconomy  = "economy"
	TierStandard = "standard"
	TierPremium  = "premium"
)

// Tiers lists the cost tiers in ascending price order.
var Tiers = []string{TierEconomy, TierStandard, TierPremium}

// Paths contains directory configuration.
type Paths struct {
	DataDir        string `toml:"data_dir"`
	OutputDir      string `toml:"output_dir"`
	TranscriptsDir string `toml:"transcripts_dir"`
	AudioDir       string `toml:"audio_dir"`
	AssetsDir      string `toml:"assets_dir"`
	LogDir         string `toml:"log_dir"`
}

// LLM contains connection settings for the dialogue and transformation model.
type LLM struct {
	Provider         string            `toml:"provider"`
	APIKey           string            `toml:"api_key"`
	BaseURL          string            `toml:"base_url"`
	Models           map[string]string `toml:"models"`
	Referer          string            `toml:"referer"`
	Title            string            `toml:"title"`
	TimeoutSeconds   int               `toml:"timeout_seconds"`
	RetryMaxAttempts int               `toml:"retry_max_attempts"`
}

// TTS contains ElevenLabs synthesis settings.
type TTS struct {
	APIKey          string            `toml:"api_key"`
	BaseURL         string            `toml:"base_url"`
	Models          map[string]string `toml:"models"`
	Stability       float64           `toml:"stability"`
	SimilarityBoost float64           `toml:"similarity_boost"`
	Style           float64           `toml:"style"`
	UseSpeakerBoost bool              `toml:"use_speaker_boost"`
	TimeoutSeconds  int               `toml:"timeout_seconds"`
}

// Cache contains the SQLite cache location and freshness windows.
type Cache struct {
	Path             string `toml:"path"`
	LLMTTLHours      int    `toml:"llm_ttl_hours"`
	ResearchTTLHours int    `toml:"research_ttl_hours"`
}

// Budget holds advisory spend ceilings in USD. They are logged, never enforced.
type Budget struct {
	MaxDailyCost   float64 `toml:"max_daily_cost"`
	MaxEpisodeCost float64 `toml:"max_episode_cost"`
}

// Audio contains rendering settings for the merged episode.
type Audio struct {
	FFmpegBinary         string            `toml:"ffmpeg_binary"`
	PauseMillis          int               `toml:"pause_ms"`
	FadeMillis           int               `toml:"fade_ms"`
	Normalize            bool              `toml:"normalize"`
	UsePrerecordedIntros bool              `toml:"use_prerecorded_intros"`
	PrerecordedIntroDir  string            `toml:"prerecorded_intro_dir"`
	PrerecordedOutroDir  string            `toml:"prerecorded_outro_dir"`
	IntroMusic           map[string]string `toml:"intro_music"`
	OutroMusic           map[string]string `toml:"outro_music"`
}

// Research contains the feeds scanned for topic background.
type Research struct {
	Feeds          []string `toml:"feeds"`
	MaxItems       int      `toml:"max_items"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Metrics contains run metrics output settings.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the podcast pipeline.
//
// Configuration sections by subsystem:
//   - Paths: data, transcript, audio, asset, and log directories
//   - LLM: model provider, credentials, and per-tier model ids
//   - TTS: ElevenLabs credentials, per-tier models, and voice settings
//   - Cache: SQLite cache file and TTLs
//   - Budget: advisory spend ceilings
//   - Audio: ffmpeg merge settings and music beds
//   - Research: RSS/Atom feeds for topic background
//   - Metrics: Prometheus textfile output
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	LLM      LLM      `toml:"llm"`
	TTS      TTS      `toml:"tts"`
	Cache    Cache    `toml:"cache"`
	Budget   Budget   `toml:"budget"`
	Audio    Audio    `toml:"audio"`
	Research Research `toml:"research"`
	Metrics  Metrics  `toml:"metrics"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories every episode run writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DataDir,
		c.Paths.OutputDir,
		c.Paths.TranscriptsDir,
		c.Paths.AudioDir,
		c.Paths.LogDir,
		filepath.Dir(c.Cache.Path),
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ModelFor returns the LLM model id for a cost tier, falling back to standard.
func (c *Config) ModelFor(tier string) string {
	return pickTier(c.LLM.Models, tier)
}

// VoiceModelFor returns the TTS model id for a cost tier, falling back to standard.
func (c *Config) VoiceModelFor(tier string) string {
	return pickTier(c.TTS.Models, tier)
}

// MusicFor returns the configured intro and outro music for a language,
// using the "default" entry when the language has none.
func (c *Config) MusicFor(language string) (intro, outro string) {
	intro = c.Audio.IntroMusic[language]
	if intro == "" {
		intro = c.Audio.IntroMusic["default"]
	}
	outro = c.Audio.OutroMusic[language]
	if outro == "" {
		outro = c.Audio.OutroMusic["default"]
	}
	return intro, outro
}

// RequireLLMKey reports a configuration error when no LLM credential is available.
func (c *Config) RequireLLMKey() error {
	if strings.TrimSpace(c.LLM.APIKey) != "" {
		return nil
	}
	return fmt.Errorf("llm.api_key is required. Set %s env var or edit %s (create with 'aibuilders config init')",
		llmKeyEnvHint(c.LLM.Provider), displayConfigPath())
}

// RequireTTSKey reports a configuration error when no ElevenLabs credential is available.
func (c *Config) RequireTTSKey() error {
	if strings.TrimSpace(c.TTS.APIKey) != "" {
		return nil
	}
	return fmt.Errorf("tts.api_key is required. Set ELEVENLABS_API_KEY env var or edit %s (create with 'aibuilders config init')",
		displayConfigPath())
}

func pickTier(models map[string]string, tier string) string {
	if model := strings.TrimSpace(models[tier]); model != "" {
		return model
	}
	return strings.TrimSpace(models[TierStandard])
}

func displayConfigPath() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return defaultConfigPath
	}
	return path
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
