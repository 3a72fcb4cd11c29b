// Package elevenlabs implements tts.Synthesizer against the ElevenLabs REST API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/retry"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/tts"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultTimeout = 120 * time.Second
	maxErrorBody   = 4096
)

// Client calls the text-to-speech endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetry replaces the retry policy. Rate limits and server errors are
// retried three times by default.
func WithRetry(policy retry.Policy) Option {
	return func(c *Client) { c.policy = policy }
}

// New constructs a client for apiKey. An empty baseURL uses the public API.
func New(apiKey, baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		policy:     retry.Policy{Attempts: 3, BaseDelay: 2 * time.Second, MaxDelay: 20 * time.Second},
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds a client from the [tts] section.
func NewFromConfig(cfg *config.Config, opts ...Option) *Client {
	return New(cfg.TTS.APIKey, cfg.TTS.BaseURL, time.Duration(cfg.TTS.TimeoutSeconds)*time.Second, opts...)
}

type synthesisRequest struct {
	Text          string       `json:"text"`
	ModelID       string       `json:"model_id"`
	VoiceSettings tts.Settings `json:"voice_settings"`
}

// Synthesize implements tts.Synthesizer.
func (c *Client) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.New("elevenlabs: api key required")
	}
	voice := strings.TrimSpace(req.VoiceID)
	if voice == "" {
		return nil, errors.New("elevenlabs: voice id required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("elevenlabs: text required")
	}
	endpoint, err := url.JoinPath(c.baseURL, "text-to-speech", voice)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: build url: %w", err)
	}
	body, err := json.Marshal(synthesisRequest{Text: req.Text, ModelID: req.ModelID, VoiceSettings: req.Settings})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: encode body: %w", err)
	}
	var audio []byte
	err = c.policy.Do(ctx, classify, func(ctx context.Context) error {
		var callErr error
		audio, callErr = c.post(ctx, endpoint, body)
		return callErr
	})
	return audio, err
}

func classify(err error) retry.Decision {
	var status *tts.StatusError
	if errors.As(err, &status) {
		return retry.Decision{Retry: retry.RetryableStatus(status.StatusCode)}
	}
	return retry.Decision{Retry: retry.IsNetTimeout(err)}
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: new request: %w", err)
	}
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &tts.StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read body: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("elevenlabs: empty audio response")
	}
	return audio, nil
}
