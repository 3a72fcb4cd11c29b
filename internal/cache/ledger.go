package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CostRecord is one append-only cost ledger row.
type CostRecord struct {
	SessionID string
	Timestamp time.Time
	LLMCost   float64
	TTSCost   float64
	TotalCost float64
	Topic     string
	Language  string
}

// RecordCost appends a ledger row. A zero timestamp uses the store clock and a
// zero total is derived from the provider costs.
func (s *Store) RecordCost(ctx context.Context, record CostRecord) error {
	if s == nil {
		return nil
	}
	ts := s.timestamp()
	if !record.Timestamp.IsZero() {
		ts = formatTime(record.Timestamp)
	}
	total := record.TotalCost
	if total == 0 {
		total = record.LLMCost + record.TTSCost
	}
	_, err := s.exec(ctx, `INSERT INTO cost_ledger
		(session_id, timestamp, llm_cost, tts_cost, total_cost, topic, language)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.SessionID, ts, record.LLMCost, record.TTSCost, total, record.Topic, record.Language)
	if err != nil {
		s.writeFailed(TableCostLedger, err)
		return fmt.Errorf("record cost: %w", err)
	}
	return nil
}

// DailyCost sums the ledger rows whose timestamp falls on day, in day's location.
func (s *Store) DailyCost(ctx context.Context, day time.Time) float64 {
	if s == nil {
		return 0
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var total sql.NullFloat64
	err := s.queryRow(ctx, func(row *sql.Row) error {
		return row.Scan(&total)
	}, `SELECT SUM(total_cost) FROM cost_ledger WHERE timestamp >= ? AND timestamp < ?`,
		formatTime(start), formatTime(end))
	if err != nil {
		s.lookupFailed(TableCostLedger, err)
		return 0
	}
	return total.Float64
}

// TodayCost sums the ledger rows for the current day of the store clock.
func (s *Store) TodayCost(ctx context.Context) float64 {
	if s == nil {
		return 0
	}
	return s.DailyCost(ctx, s.now())
}

// CostRecords returns the ledger rows of day, oldest first.
func (s *Store) CostRecords(ctx context.Context, day time.Time) ([]CostRecord, error) {
	if s == nil {
		return nil, nil
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT session_id, timestamp, llm_cost, tts_cost, total_cost,
		COALESCE(topic, ''), COALESCE(language, '')
		FROM cost_ledger WHERE timestamp >= ? AND timestamp < ? ORDER BY timestamp, id`,
		formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("query cost ledger: %w", err)
	}
	defer rows.Close()

	var records []CostRecord
	for rows.Next() {
		var (
			record CostRecord
			ts     string
		)
		if err := rows.Scan(&record.SessionID, &ts, &record.LLMCost, &record.TTSCost, &record.TotalCost, &record.Topic, &record.Language); err != nil {
			return nil, fmt.Errorf("scan cost ledger: %w", err)
		}
		record.Timestamp, _ = parseTime(ts)
		records = append(records, record)
	}
	return records, rows.Err()
}
