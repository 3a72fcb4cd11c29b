package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/revathi-prasad/ai-builders-podcast/internal/cost"
)

// LLMEntry is a cached model reply.
type LLMEntry struct {
	Key          string
	Response     string
	Model        string
	Timestamp    time.Time
	TokenCount   int
	CostEstimate float64
}

// LLM returns the cached reply for prompt and model when it is younger than
// the configured TTL. Expired rows are misses but stay on disk until pruned.
func (s *Store) LLM(ctx context.Context, prompt, model string) (LLMEntry, bool) {
	if s == nil {
		return LLMEntry{}, false
	}
	key := LLMKey(prompt, model)
	var (
		entry LLMEntry
		ts    string
	)
	err := s.queryRow(ctx, func(row *sql.Row) error {
		return row.Scan(&entry.Response, &entry.Model, &ts, &entry.TokenCount, &entry.CostEstimate)
	}, `SELECT response, model, timestamp, token_count, cost_estimate FROM llm_cache WHERE cache_key = ?`, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.lookupFailed(TableLLM, err)
		}
		s.observe(TableLLM, false)
		return LLMEntry{}, false
	}
	created, err := parseTime(ts)
	if err != nil {
		s.lookupFailed(TableLLM, err)
		s.observe(TableLLM, false)
		return LLMEntry{}, false
	}
	if s.now().Sub(created) >= s.llmTTL {
		s.observe(TableLLM, false)
		return LLMEntry{}, false
	}
	entry.Key = key
	entry.Timestamp = created
	s.observe(TableLLM, true)
	return entry, true
}

// PutLLM stores a successful reply. The cost is estimated from tokens.
func (s *Store) PutLLM(ctx context.Context, prompt, model, response string, tokens int) {
	if s == nil {
		return
	}
	_, err := s.exec(ctx, `INSERT OR REPLACE INTO llm_cache
		(cache_key, response, model, timestamp, token_count, cost_estimate)
		VALUES (?, ?, ?, ?, ?, ?)`,
		LLMKey(prompt, model), response, model, s.timestamp(), tokens, cost.LLM(tokens, model))
	if err != nil {
		s.writeFailed(TableLLM, err)
	}
}
