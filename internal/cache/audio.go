package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/revathi-prasad/ai-builders-podcast/internal/fileutil"
)

// AudioEntry references a synthesized clip on disk.
type AudioEntry struct {
	Key          string
	FilePath     string
	VoiceID      string
	CharCount    int
	Timestamp    time.Time
	CostEstimate float64
}

// Audio returns the cached clip for text and voice. The row and the file it
// points at must both exist.
func (s *Store) Audio(ctx context.Context, text, voiceID string) (AudioEntry, bool) {
	if s == nil {
		return AudioEntry{}, false
	}
	key := AudioKey(text, voiceID)
	var (
		entry AudioEntry
		ts    string
	)
	err := s.queryRow(ctx, func(row *sql.Row) error {
		return row.Scan(&entry.FilePath, &entry.VoiceID, &entry.CharCount, &ts, &entry.CostEstimate)
	}, `SELECT file_path, voice_id, char_count, timestamp, cost_estimate FROM audio_cache WHERE cache_key = ?`, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.lookupFailed(TableAudio, err)
		}
		s.observe(TableAudio, false)
		return AudioEntry{}, false
	}
	if !fileutil.IsFile(entry.FilePath) {
		s.observe(TableAudio, false)
		return AudioEntry{}, false
	}
	entry.Key = key
	entry.Timestamp, _ = parseTime(ts)
	s.observe(TableAudio, true)
	return entry, true
}

// PutAudio records a clip written to path.
func (s *Store) PutAudio(ctx context.Context, text, voiceID, path string, chars int, costEstimate float64) {
	if s == nil {
		return
	}
	_, err := s.exec(ctx, `INSERT OR REPLACE INTO audio_cache
		(cache_key, file_path, voice_id, char_count, timestamp, cost_estimate)
		VALUES (?, ?, ?, ?, ?, ?)`,
		AudioKey(text, voiceID), path, voiceID, chars, s.timestamp(), costEstimate)
	if err != nil {
		s.writeFailed(TableAudio, err)
	}
}
