package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
)

// Transcript is the latest dialogue text produced for an episode id.
type Transcript struct {
	EpisodeID   string
	Language    string
	EpisodeType string
	Topic       string
	Text        string
	Timestamp   time.Time
}

// SaveTranscript stores t, replacing any earlier transcript with the same episode id.
func (s *Store) SaveTranscript(ctx context.Context, t Transcript) error {
	if s == nil {
		return nil
	}
	if t.EpisodeID == "" {
		return services.Wrap(services.ErrValidation, "cache", "save transcript", "episode id is required", nil)
	}
	ts := s.timestamp()
	if !t.Timestamp.IsZero() {
		ts = formatTime(t.Timestamp)
	}
	_, err := s.exec(ctx, `INSERT OR REPLACE INTO episode_transcripts
		(episode_id, language, episode_type, topic, transcript, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.EpisodeID, t.Language, t.EpisodeType, t.Topic, t.Text, ts)
	if err != nil {
		s.writeFailed(TableTranscripts, err)
		return fmt.Errorf("save transcript %s: %w", t.EpisodeID, err)
	}
	return nil
}

// Transcript loads the transcript stored for episodeID. A missing row is
// reported as services.ErrNotFound.
func (s *Store) Transcript(ctx context.Context, episodeID string) (Transcript, error) {
	if s == nil {
		return Transcript{}, services.Wrap(services.ErrNotFound, "cache", "load transcript", "cache is not open", nil)
	}
	var (
		t  Transcript
		ts string
	)
	err := s.queryRow(ctx, func(row *sql.Row) error {
		return row.Scan(&t.EpisodeID, &t.Language, &t.EpisodeType, &t.Topic, &t.Text, &ts)
	}, `SELECT episode_id, language, episode_type, COALESCE(topic, ''), transcript, timestamp
		FROM episode_transcripts WHERE episode_id = ?`, episodeID)
	if errors.Is(err, sql.ErrNoRows) {
		return Transcript{}, services.Wrap(services.ErrNotFound, "cache", "load transcript",
			fmt.Sprintf("no transcript for %s", episodeID), nil)
	}
	if err != nil {
		return Transcript{}, fmt.Errorf("load transcript %s: %w", episodeID, err)
	}
	t.Timestamp, _ = parseTime(ts)
	return t, nil
}
