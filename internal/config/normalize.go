package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeTTS()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizeAudio(); err != nil {
		return err
	}
	c.normalizeResearch()
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name  string
		value *string
		def   string
	}{
		{"paths.data_dir", &c.Paths.DataDir, defaultDataDir},
		{"paths.output_dir", &c.Paths.OutputDir, defaultOutputDir},
		{"paths.transcripts_dir", &c.Paths.TranscriptsDir, defaultTranscripts},
		{"paths.audio_dir", &c.Paths.AudioDir, defaultAudioDir},
		{"paths.assets_dir", &c.Paths.AssetsDir, defaultAssetsDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.def
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultLLMProvider
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		for _, name := range llmKeyEnv(c.LLM.Provider) {
			if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
				c.LLM.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" && c.LLM.Provider == ProviderOpenRouter {
		c.LLM.BaseURL = defaultOpenRouterURL
	}
	if c.LLM.Models == nil {
		c.LLM.Models = map[string]string{}
	}
	for _, tier := range Tiers {
		if strings.TrimSpace(c.LLM.Models[tier]) == "" {
			c.LLM.Models[tier] = defaultLLMModel
		}
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
	if c.LLM.RetryMaxAttempts <= 0 {
		c.LLM.RetryMaxAttempts = defaultLLMRetryAttempts
	}
}

func (c *Config) normalizeTTS() {
	c.TTS.APIKey = strings.TrimSpace(c.TTS.APIKey)
	if c.TTS.APIKey == "" {
		if value, ok := os.LookupEnv("ELEVENLABS_API_KEY"); ok {
			c.TTS.APIKey = strings.TrimSpace(value)
		}
	}
	c.TTS.BaseURL = strings.TrimRight(strings.TrimSpace(c.TTS.BaseURL), "/")
	if c.TTS.BaseURL == "" {
		c.TTS.BaseURL = defaultTTSBaseURL
	}
	if c.TTS.Models == nil {
		c.TTS.Models = map[string]string{}
	}
	defaults := Default().TTS.Models
	for _, tier := range Tiers {
		if strings.TrimSpace(c.TTS.Models[tier]) == "" {
			c.TTS.Models[tier] = defaults[tier]
		}
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeout
	}
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = filepath.Join(c.Paths.DataDir, defaultCacheFile)
	}
	var err error
	if c.Cache.Path, err = expandPath(strings.TrimSpace(c.Cache.Path)); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if c.Cache.LLMTTLHours == 0 {
		c.Cache.LLMTTLHours = defaultLLMTTLHours
	}
	if c.Cache.ResearchTTLHours == 0 {
		c.Cache.ResearchTTLHours = defaultResearchTTLHours
	}
	return nil
}

func (c *Config) normalizeAudio() error {
	c.Audio.FFmpegBinary = strings.TrimSpace(c.Audio.FFmpegBinary)
	if c.Audio.FFmpegBinary == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Audio.PauseMillis == 0 {
		c.Audio.PauseMillis = defaultPauseMillis
	}
	if c.Audio.FadeMillis == 0 {
		c.Audio.FadeMillis = defaultFadeMillis
	}
	if strings.TrimSpace(c.Audio.PrerecordedIntroDir) == "" {
		c.Audio.PrerecordedIntroDir = filepath.Join(c.Paths.AssetsDir, "intros")
	}
	if strings.TrimSpace(c.Audio.PrerecordedOutroDir) == "" {
		c.Audio.PrerecordedOutroDir = filepath.Join(c.Paths.AssetsDir, "outros")
	}
	var err error
	if c.Audio.PrerecordedIntroDir, err = expandPath(c.Audio.PrerecordedIntroDir); err != nil {
		return fmt.Errorf("audio.prerecorded_intro_dir: %w", err)
	}
	if c.Audio.PrerecordedOutroDir, err = expandPath(c.Audio.PrerecordedOutroDir); err != nil {
		return fmt.Errorf("audio.prerecorded_outro_dir: %w", err)
	}
	if c.Audio.IntroMusic, err = c.resolveAssets("audio.intro_music", c.Audio.IntroMusic); err != nil {
		return err
	}
	if c.Audio.OutroMusic, err = c.resolveAssets("audio.outro_music", c.Audio.OutroMusic); err != nil {
		return err
	}
	return nil
}

// resolveAssets anchors relative music file names in the assets directory.
func (c *Config) resolveAssets(name string, files map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(files))
	for lang, file := range files {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		if !filepath.IsAbs(file) && !strings.HasPrefix(file, "~") {
			file = filepath.Join(c.Paths.AssetsDir, file)
		}
		expanded, err := expandPath(file)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, lang, err)
		}
		out[strings.ToLower(strings.TrimSpace(lang))] = expanded
	}
	return out, nil
}

func (c *Config) normalizeResearch() {
	feeds := make([]string, 0, len(c.Research.Feeds))
	for _, feed := range c.Research.Feeds {
		if trimmed := strings.TrimSpace(feed); trimmed != "" {
			feeds = append(feeds, trimmed)
		}
	}
	c.Research.Feeds = feeds
	if c.Research.MaxItems <= 0 {
		c.Research.MaxItems = defaultResearchMaxItems
	}
	if c.Research.TimeoutSeconds <= 0 {
		c.Research.TimeoutSeconds = defaultResearchTimeout
	}
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("AIBUILDERS_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
		c.Logging.Format = "json"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch level {
	case "":
		level = defaultLogLevel
	case "warning":
		level = "warn"
	}
	c.Logging.Level = level
}

func llmKeyEnv(provider string) []string {
	switch provider {
	case ProviderOpenAI:
		return []string{"OPENAI_API_KEY"}
	case ProviderOpenRouter:
		return []string{"OPENROUTER_API_KEY"}
	default:
		return []string{"ANTHROPIC_API_KEY", "CLAUDE_API_KEY"}
	}
}

func llmKeyEnvHint(provider string) string {
	return strings.Join(llmKeyEnv(provider), " or ")
}
