package llm

import (
	"context"
	"strings"
	"time"
)

const defaultHTTPTimeout = 300 * time.Second

// Config holds what every backend needs: credentials, endpoint and the
// default model. Referer and Title are OpenRouter attribution headers.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return defaultHTTPTimeout
}

// Request is one chat completion: an optional system prompt and one user prompt.
type Request struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response is the text reply with token usage when the backend reports it.
type Response struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// Tokens returns prompt plus completion tokens, estimating from text length
// when the backend reported no usage.
func (r Response) Tokens(req Request) int {
	if total := r.PromptTokens + r.CompletionTokens; total > 0 {
		return total
	}
	return (len(req.System) + len(req.Prompt) + len(r.Content)) / 4
}

// Provider completes chat requests.
type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (Response, error)

// Complete calls f.
func (f ProviderFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// StripCodeFence removes a surrounding markdown code fence from a reply.
func StripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.Contains(body[:nl], " ") {
		body = body[nl+1:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
