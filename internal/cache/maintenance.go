package cache

import (
	"context"
	"database/sql"
	"fmt"
)

// TableStats is the row count of one table.
type TableStats struct {
	Table string
	Rows  int
}

// Stats returns row counts for every table in Tables order.
func (s *Store) Stats(ctx context.Context) ([]TableStats, error) {
	stats := make([]TableStats, 0, len(Tables))
	for _, table := range Tables {
		var count int
		// Table names come from the fixed Tables list.
		err := s.queryRow(ctx, func(row *sql.Row) error {
			return row.Scan(&count)
		}, fmt.Sprintf("SELECT COUNT(1) FROM %s", table))
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats = append(stats, TableStats{Table: table, Rows: count})
	}
	return stats, nil
}

// PruneResult reports how many rows Prune removed.
type PruneResult struct {
	LLM      int64
	Research int64
}

// Prune deletes LLM rows older than the TTL and expired research rows. Audio,
// transformation, ledger and transcript rows are never pruned.
func (s *Store) Prune(ctx context.Context) (PruneResult, error) {
	now := s.now()
	var result PruneResult

	res, err := s.exec(ctx, `DELETE FROM llm_cache WHERE timestamp <= ?`, formatTime(now.Add(-s.llmTTL)))
	if err != nil {
		return result, fmt.Errorf("prune llm cache: %w", err)
	}
	result.LLM, _ = res.RowsAffected()

	res, err = s.exec(ctx, `DELETE FROM research_cache WHERE expiry <= ?`, formatTime(now))
	if err != nil {
		return result, fmt.Errorf("prune research cache: %w", err)
	}
	result.Research, _ = res.RowsAffected()
	return result, nil
}
