package llm

import (
	"fmt"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
)

// New builds the backend named by cfg.LLM.Provider:
//
//	anthropic  -> any-llm-go Anthropic provider
//	openai     -> openai-go SDK
//	openrouter -> OpenRouter HTTP client with retry
//
// The default model is the standard tier; callers pass per-tier models in Request.
func New(cfg *config.Config, opts ...Option) (Provider, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "llm", "new", "configuration required", nil)
	}
	if err := cfg.RequireLLMKey(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "llm", "new", "", err)
	}
	clientCfg := Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.ModelFor(config.TierStandard),
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}
	switch cfg.LLM.Provider {
	case config.ProviderAnthropic:
		p, err := NewAnyLLM(config.ProviderAnthropic, clientCfg)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "llm", "new", "", err)
		}
		return p, nil
	case config.ProviderOpenAI:
		p, err := NewOpenAI(clientCfg, nil)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "llm", "new", "", err)
		}
		return p, nil
	case config.ProviderOpenRouter:
		all := append([]Option{WithAttempts(cfg.LLM.RetryMaxAttempts)}, opts...)
		return NewOpenRouter(clientCfg, all...), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "llm", "new",
			fmt.Sprintf("unsupported provider %q", cfg.LLM.Provider), nil)
	}
}
