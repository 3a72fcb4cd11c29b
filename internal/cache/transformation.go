package cache

import (
	"context"
	"database/sql"
	"errors"
)

// Transformation returns the transformed content cached for a serialized
// dialogue and language pair. Entries never expire.
func (s *Store) Transformation(ctx context.Context, source, target, content string) (string, bool) {
	if s == nil {
		return "", false
	}
	var transformed string
	err := s.queryRow(ctx, func(row *sql.Row) error {
		return row.Scan(&transformed)
	}, `SELECT transformed_content FROM transformation_cache WHERE cache_key = ?`,
		TransformationKey(source, target, content))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.lookupFailed(TableTransformation, err)
		}
		s.observe(TableTransformation, false)
		return "", false
	}
	s.observe(TableTransformation, true)
	return transformed, true
}

// PutTransformation stores transformed under the fingerprint of the original content.
func (s *Store) PutTransformation(ctx context.Context, source, target, content, transformed string) {
	if s == nil {
		return
	}
	_, err := s.exec(ctx, `INSERT OR REPLACE INTO transformation_cache
		(cache_key, original_language, target_language, original_content, transformed_content, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		TransformationKey(source, target, content), source, target, content, transformed, s.timestamp())
	if err != nil {
		s.writeFailed(TableTransformation, err)
	}
}
