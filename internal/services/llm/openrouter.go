package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/revathi-prasad/ai-builders-podcast/internal/services/retry"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouter posts OpenAI-style chat payloads to an OpenRouter-compatible
// endpoint. BaseURL is the full completions URL.
type OpenRouter struct {
	cfg    Config
	http   *http.Client
	policy retry.Policy
	now    func() time.Time
}

// Option customizes an OpenRouter client.
type Option func(*OpenRouter)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OpenRouter) {
		if client != nil {
			c.http = client
		}
	}
}

// WithRetry replaces the retry policy (five attempts, 1s doubling to 10s).
func WithRetry(policy retry.Policy) Option {
	return func(c *OpenRouter) { c.policy = policy }
}

// WithAttempts keeps the backoff but changes the attempt count. Values
// below one are ignored.
func WithAttempts(n int) Option {
	return func(c *OpenRouter) {
		if n > 0 {
			c.policy.Attempts = n
		}
	}
}

// NewOpenRouter builds the HTTP backend.
func NewOpenRouter(cfg Config, opts ...Option) *OpenRouter {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterURL
	}
	c := &OpenRouter{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.timeout()},
		policy: retry.Policy{Attempts: 5, BaseDelay: time.Second, MaxDelay: 10 * time.Second},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is a non-2xx reply from the chat endpoint.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openrouter: http %d: %s", e.StatusCode, e.Body)
}

// errEmptyReply is a 200 with no usable text. Providers occasionally do this
// under load, so it is retried.
type errEmptyReply struct {
	finish  string
	refusal string
}

func (e errEmptyReply) Error() string {
	if e.refusal != "" {
		return fmt.Sprintf("openrouter: model refused: %s", e.refusal)
	}
	return fmt.Sprintf("openrouter: empty reply (finish_reason=%q)", e.finish)
}

type orMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type orRequest struct {
	Model       string      `json:"model"`
	Messages    []orMessage `json:"messages"`
	Temperature float64     `json:"temperature"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

type orReply struct {
	Content string `json:"content"`
	Refusal string `json:"refusal"`
}

type orResponse struct {
	Choices []struct {
		Message orReply `json:"message"`
		// Some upstreams answer with the streaming shape even when
		// stream=false.
		Delta        orReply `json:"delta"`
		Text         string  `json:"text"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete implements Provider. A request model overrides the default.
func (c *OpenRouter) Complete(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return Response{}, errors.New("openrouter: prompt required")
	}
	if c.cfg.APIKey == "" {
		return Response{}, errors.New("openrouter: api key required")
	}
	payload := orRequest{
		Model:       firstNonEmpty(req.Model, c.cfg.Model),
		Temperature: req.Temperature,
		MaxTokens:   max(req.MaxTokens, 0),
	}
	if system := strings.TrimSpace(req.System); system != "" {
		payload.Messages = append(payload.Messages, orMessage{Role: "system", Content: system})
	}
	payload.Messages = append(payload.Messages, orMessage{Role: "user", Content: strings.TrimSpace(req.Prompt)})
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("openrouter: encode body: %w", err)
	}

	var resp Response
	err = c.policy.Do(ctx, c.classify, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.post(ctx, body)
		return callErr
	})
	return resp, err
}

func (c *OpenRouter) classify(err error) retry.Decision {
	var status *StatusError
	switch {
	case errors.As(err, &status):
		return retry.Decision{Retry: retry.RetryableStatus(status.StatusCode), Wait: status.RetryAfter}
	case errors.As(err, new(errEmptyReply)):
		return retry.Decision{Retry: true}
	default:
		return retry.Decision{Retry: retry.IsNetTimeout(err)}
	}
}

func (c *OpenRouter) post(ctx context.Context, body []byte) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("openrouter: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("openrouter: http (timeout %s): %w", c.http.Timeout, err)
	}
	defer httpResp.Body.Close()
	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("openrouter: read body: %w", err)
	}
	if httpResp.StatusCode >= http.StatusMultipleChoices {
		return Response{}, &StatusError{
			StatusCode: httpResp.StatusCode,
			Body:       snippet(string(raw)),
			RetryAfter: retry.ParseRetryAfter(httpResp.Header.Get("Retry-After"), c.now()),
		}
	}

	var decoded orResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Response{}, fmt.Errorf("openrouter: decode reply %s: %w", snippet(string(raw)), err)
	}
	if decoded.Error != nil {
		return Response{}, fmt.Errorf("openrouter: api error: %s", strings.TrimSpace(decoded.Error.Message))
	}

	empty := errEmptyReply{}
	for _, choice := range decoded.Choices {
		if text := firstNonEmpty(choice.Message.Content, choice.Delta.Content, choice.Text); text != "" {
			return Response{
				Content:          text,
				PromptTokens:     decoded.Usage.PromptTokens,
				CompletionTokens: decoded.Usage.CompletionTokens,
			}, nil
		}
		empty.finish = firstNonEmpty(empty.finish, choice.FinishReason)
		empty.refusal = firstNonEmpty(empty.refusal, choice.Message.Refusal, choice.Delta.Refusal)
	}
	return Response{}, empty
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// snippet collapses whitespace and keeps the first 160 runes of a body.
func snippet(body string) string {
	clean := strings.Join(strings.Fields(body), " ")
	if clean == "" {
		return "<empty>"
	}
	if runes := []rune(clean); len(runes) > 160 {
		return string(runes[:160]) + "..."
	}
	return clean
}
