package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"
)

// AnyLLM is a Provider backed by any-llm-go.
type AnyLLM struct {
	backend anyllmlib.Provider
	model   string
}

// NewAnyLLM builds a backend for the named any-llm provider ("anthropic" or "openai").
func NewAnyLLM(providerName string, cfg Config) (*AnyLLM, error) {
	var opts []anyllmlib.Option
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		opts = append(opts, anyllmlib.WithAPIKey(key))
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, anyllmlib.WithBaseURL(base))
	}

	var (
		backend anyllmlib.Provider
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(providerName)) {
	case "anthropic":
		backend, err = anthropic.New(opts...)
	case "openai":
		backend, err = anyllmoai.New(opts...)
	default:
		return nil, fmt.Errorf("anyllm: unsupported provider %q; supported: anthropic, openai", providerName)
	}
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", providerName, err)
	}
	return &AnyLLM{backend: backend, model: strings.TrimSpace(cfg.Model)}, nil
}

// Complete implements Provider.
func (p *AnyLLM) Complete(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	var messages []anyllmlib.Message
	if req.System != "" {
		messages = append(messages, anyllmlib.Message{Role: anyllmlib.RoleSystem, Content: req.System})
	}
	messages = append(messages, anyllmlib.Message{Role: "user", Content: req.Prompt})

	temperature := req.Temperature
	params := anyllmlib.CompletionParams{
		Model:       model,
		Messages:    messages,
		Temperature: &temperature,
	}
	if req.MaxTokens > 0 {
		maxTokens := req.MaxTokens
		params.MaxTokens = &maxTokens
	}

	resp, err := p.backend.Completion(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("anyllm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, errors.New("anyllm: empty choices in response")
	}
	out := Response{Content: strings.TrimSpace(resp.Choices[0].Message.ContentString())}
	if out.Content == "" {
		return Response{}, errors.New("anyllm: empty content")
	}
	if resp.Usage != nil {
		out.PromptTokens = resp.Usage.PromptTokens
		out.CompletionTokens = resp.Usage.CompletionTokens
	}
	return out, nil
}
