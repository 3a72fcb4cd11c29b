package llm

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/revathi-prasad/ai-builders-podcast/internal/cache"
	"github.com/revathi-prasad/ai-builders-podcast/internal/cost"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/metrics"
)

// Cached consults the reply cache before delegating to a backend and stores
// successful replies. Identical concurrent requests share one backend call.
// Spend is metered for uncached calls only.
type Cached struct {
	next    Provider
	store   *cache.Store
	metrics *metrics.Recorder
	logger  *slog.Logger
	group   singleflight.Group

	mu     sync.Mutex
	spent  float64
	tokens int
}

// NewCached wraps next. A nil store disables caching but keeps metering.
func NewCached(next Provider, store *cache.Store, recorder *metrics.Recorder, logger *slog.Logger) *Cached {
	return &Cached{
		next:    next,
		store:   store,
		metrics: recorder,
		logger:  logging.NewComponentLogger(logger, "llm"),
	}
}

// CacheKey is the prompt text the cache is keyed on for req.
func CacheKey(req Request) string {
	if req.System == "" {
		return req.Prompt
	}
	return req.System + "\n\n" + req.Prompt
}

// Complete implements Provider.
func (c *Cached) Complete(ctx context.Context, req Request) (Response, error) {
	key := CacheKey(req)
	if entry, ok := c.store.LLM(ctx, key, req.Model); ok {
		c.metrics.LLMCall(metrics.OutcomeCached, 0, 0)
		logging.WithContext(ctx, c.logger).Debug("llm cache hit",
			logging.String("model", req.Model),
			logging.Int("tokens", entry.TokenCount),
		)
		return Response{Content: entry.Response}, nil
	}

	v, err, shared := c.group.Do(cache.LLMKey(key, req.Model), func() (any, error) {
		resp, err := c.next.Complete(ctx, req)
		if err != nil {
			c.metrics.LLMCall(metrics.OutcomeError, 0, 0)
			return Response{}, err
		}
		tokens := resp.Tokens(req)
		c.metrics.LLMCall(metrics.OutcomeSuccess, resp.PromptTokens, resp.CompletionTokens)
		c.meter(tokens, req.Model)
		c.store.PutLLM(ctx, key, req.Model, resp.Content, tokens)
		return resp, nil
	})
	if err != nil {
		return Response{}, err
	}
	if shared {
		logging.WithContext(ctx, c.logger).Debug("llm request collapsed", logging.String("model", req.Model))
	}
	return v.(Response), nil
}

func (c *Cached) meter(tokens int, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens += tokens
	c.spent += cost.LLM(tokens, model)
}

// Spent returns the estimated USD cost and tokens of uncached calls so far.
func (c *Cached) Spent() (float64, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spent, c.tokens
}
