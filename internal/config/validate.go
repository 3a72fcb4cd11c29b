package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Credentials are not checked
// here because transcript-only runs need none; callers use RequireLLMKey and
// RequireTTSKey once they know which services a run touches.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateBudget(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter:
	default:
		return fmt.Errorf("llm.provider must be one of anthropic, openai, openrouter (got %q)", c.LLM.Provider)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if err := ensureUnit("tts.stability", c.TTS.Stability); err != nil {
		return err
	}
	if err := ensureUnit("tts.similarity_boost", c.TTS.SimilarityBoost); err != nil {
		return err
	}
	return ensureUnit("tts.style", c.TTS.Style)
}

func (c *Config) validateCache() error {
	if c.Cache.LLMTTLHours < 0 {
		return errors.New("cache.llm_ttl_hours must be positive")
	}
	if c.Cache.ResearchTTLHours < 0 {
		return errors.New("cache.research_ttl_hours must be positive")
	}
	return nil
}

func (c *Config) validateBudget() error {
	if c.Budget.MaxDailyCost < 0 {
		return errors.New("budget.max_daily_cost must not be negative")
	}
	if c.Budget.MaxEpisodeCost < 0 {
		return errors.New("budget.max_episode_cost must not be negative")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.PauseMillis < 0 {
		return errors.New("audio.pause_ms must not be negative")
	}
	if c.Audio.FadeMillis < 0 {
		return errors.New("audio.fade_ms must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

func ensureUnit(name string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%s must be between 0 and 1", name)
	}
	return nil
}
