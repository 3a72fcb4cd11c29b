package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Research returns the cached research payload for topic while it is unexpired.
func (s *Store) Research(ctx context.Context, topic string) (string, bool) {
	if s == nil {
		return "", false
	}
	var data, expiry string
	err := s.queryRow(ctx, func(row *sql.Row) error {
		return row.Scan(&data, &expiry)
	}, `SELECT data, expiry FROM research_cache WHERE topic_key = ?`, ResearchKey(topic))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.lookupFailed(TableResearch, err)
		}
		s.observe(TableResearch, false)
		return "", false
	}
	expires, err := parseTime(expiry)
	if err != nil || !s.now().Before(expires) {
		s.observe(TableResearch, false)
		return "", false
	}
	s.observe(TableResearch, true)
	return data, true
}

// PutResearch stores data for topic. A non-positive ttl uses the configured research TTL.
func (s *Store) PutResearch(ctx context.Context, topic, data string, ttl time.Duration) {
	if s == nil {
		return
	}
	if ttl <= 0 {
		ttl = s.researchTTL
	}
	now := s.now()
	_, err := s.exec(ctx, `INSERT OR REPLACE INTO research_cache (topic_key, data, timestamp, expiry)
		VALUES (?, ?, ?, ?)`,
		ResearchKey(topic), data, formatTime(now), formatTime(now.Add(ttl)))
	if err != nil {
		s.writeFailed(TableResearch, err)
	}
}
