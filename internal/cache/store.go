package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/metrics"
)

// Table names, also used as metric labels.
const (
	TableLLM            = "llm_cache"
	TableAudio          = "audio_cache"
	TableCostLedger     = "cost_ledger"
	TableTranscripts    = "episode_transcripts"
	TableResearch       = "research_cache"
	TableTransformation = "transformation_cache"
)

// Tables lists every cache table in display order.
var Tables = []string{TableLLM, TableAudio, TableCostLedger, TableTranscripts, TableResearch, TableTransformation}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store is the SQLite-backed cache shared by every pipeline component.
type Store struct {
	db          *sql.DB
	path        string
	logger      *slog.Logger
	metrics     *metrics.Recorder
	now         func() time.Time
	llmTTL      time.Duration
	researchTTL time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed storage errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, "cache")
		}
	}
}

// WithClock overrides the time source used for timestamps and TTL checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics records hit and miss counts.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// Open initializes or connects to the cache database configured in cfg.
func Open(cfg *config.Config, opts ...Option) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("cache: config is required")
	}
	dbPath := strings.TrimSpace(cfg.Cache.Path)
	if dbPath == "" {
		dbPath = filepath.Join(cfg.Paths.DataDir, "podcast_cache.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:          db,
		path:        dbPath,
		logger:      logging.NewNop(),
		now:         time.Now,
		llmTTL:      time.Duration(cfg.Cache.LLMTTLHours) * time.Hour,
		researchTTL: time.Duration(cfg.Cache.ResearchTTLHours) * time.Hour,
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.llmTTL <= 0 {
		store.llmTTL = 24 * time.Hour
	}
	if store.researchTTL <= 0 {
		store.researchTTL = 7 * 24 * time.Hour
	}

	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) queryRow(ctx context.Context, scan func(*sql.Row) error, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		return scan(s.db.QueryRowContext(ctx, query, args...))
	})
}

// lookupFailed logs a read error that is being treated as a miss.
func (s *Store) lookupFailed(table string, err error) {
	logging.WarnWithContext(s.logger, "cache lookup failed; treating as miss", "cache_lookup_failed",
		logging.String("table", table),
		logging.Error(err),
		logging.String(logging.FieldImpact, "result will be regenerated"),
		logging.String(logging.FieldErrorHint, "check cache file permissions or delete "+s.path),
	)
}

// writeFailed logs a write error that is being swallowed.
func (s *Store) writeFailed(table string, err error) {
	logging.WarnWithContext(s.logger, "cache write failed", "cache_write_failed",
		logging.String("table", table),
		logging.Error(err),
		logging.String(logging.FieldImpact, "result will not be reused by later runs"),
		logging.String(logging.FieldErrorHint, "check disk space and cache file permissions"),
	)
}

func (s *Store) observe(table string, hit bool) {
	s.metrics.CacheLookup(table, hit)
	if hit {
		s.logger.Debug("cache decision", logging.Args(append(logging.DecisionAttrs("cache", "hit", "fresh entry"), logging.String("table", table))...)...)
	}
}

func (s *Store) timestamp() string {
	return formatTime(s.now())
}

// timeLayout keeps nanoseconds at a fixed width so stored timestamps still
// order lexically in SQL range queries.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(value))
}
