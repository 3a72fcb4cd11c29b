package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/revathi-prasad/ai-builders-podcast/internal/audio"
	"github.com/revathi-prasad/ai-builders-podcast/internal/cache"
	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/cost"
	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/metrics"
	"github.com/revathi-prasad/ai-builders-podcast/internal/personality"
	"github.com/revathi-prasad/ai-builders-podcast/internal/research"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/llm"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/tts"
	"github.com/revathi-prasad/ai-builders-podcast/internal/transform"
)

// Researcher gathers topic background for generated episodes.
type Researcher interface {
	Research(ctx context.Context, topic string) research.Result
}

// Episode is the outcome of one run.
type Episode struct {
	ID              string
	SessionID       string
	Language        string
	Type            personality.EpisodeType
	Topic           string
	EpisodeNumber   int
	PodcastTitle    string
	Dialogue        []dialogue.Segment
	Transcript      string
	TranscriptFile  string
	AudioFile       string
	Research        *research.Result
	ResearchFile    string
	SourceEpisodeID string
	Transformations []Transformation
	Validation      Validation
	DurationSeconds float64
	Cost            cost.Breakdown
	Tokens          int
	DailyCost       float64
	BudgetWarnings  []string
}

// Transformation is one secondary-language version of the primary dialogue.
type Transformation struct {
	transform.Result
	EpisodeID      string
	TranscriptFile string
}

// Orchestrator runs episodes. It is safe to reuse across runs; each run gets
// its own spend meter and session id.
type Orchestrator struct {
	cfg        *config.Config
	provider   llm.Provider
	synth      tts.Synthesizer
	store      *cache.Store
	packs      *language.Registry
	logger     *slog.Logger
	metrics    *metrics.Recorder
	merger     *audio.Merger
	researcher Researcher
	newID      func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics replaces the run metrics recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.metrics = r
		}
	}
}

// WithMerger replaces the ffmpeg merger.
func WithMerger(m *audio.Merger) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.merger = m
		}
	}
}

// WithResearcher replaces the feed research engine.
func WithResearcher(r Researcher) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.researcher = r
		}
	}
}

// New builds an Orchestrator. provider and synth may be nil for runs that do
// not need them; CreateEpisode reports a configuration error otherwise.
func New(cfg *config.Config, provider llm.Provider, synth tts.Synthesizer, store *cache.Store, packs *language.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		provider: provider,
		synth:    synth,
		store:    store,
		packs:    packs,
		logger:   logging.NewNop(),
		metrics:  metrics.New(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.merger == nil {
		o.merger = audio.NewMerger(cfg, o.logger)
	}
	if o.researcher == nil {
		o.researcher = research.New(cfg, store, research.WithLogger(o.logger))
	}
	return o
}

// Metrics returns the recorder shared by every run.
func (o *Orchestrator) Metrics() *metrics.Recorder {
	return o.metrics
}

// run is the per-episode state.
type run struct {
	ec        EpisodeContext
	pack      *language.Pack
	sessionID string
	logger    *slog.Logger
	llm       *llm.Cached
	dialogue  *personality.Engine
	transform *transform.Engine

	mu      sync.Mutex
	ttsCost float64
}

func (r *run) addTTS(amount float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ttsCost += amount
}

func (r *run) spentTTS() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttsCost
}

// CreateEpisode runs one episode request. Configuration problems and
// unimplemented episode types are returned before any spend; provider
// failures degrade inside the components and never fail the run.
func (o *Orchestrator) CreateEpisode(ctx context.Context, ec EpisodeContext) (Episode, error) {
	if err := ec.Validate(o.packs); err != nil {
		return Episode{}, err
	}
	pack, _ := o.packs.Get(ec.PrimaryLanguage)
	ec.Type, _ = personality.ParseEpisodeType(string(ec.Type))

	if ec.TranscriptPath == "" && (ec.Type == personality.Interview || ec.Type == personality.QuickTip) {
		return Episode{}, services.Wrap(services.ErrNotImplemented, "orchestrator", "create episode",
			fmt.Sprintf("episode type %s is not implemented yet", ec.Type), nil)
	}
	if ec.NeedsModel(o.packs) && o.provider == nil {
		return Episode{}, services.Wrap(services.ErrConfiguration, "orchestrator", "create episode",
			"an LLM provider is required for this run", nil)
	}
	if !ec.TranscriptOnly && o.synth == nil {
		return Episode{}, services.Wrap(services.ErrConfiguration, "orchestrator", "create episode",
			"a TTS provider is required unless the run is transcript-only", nil)
	}

	r := o.newRun(ec, pack)
	ctx = services.WithSessionID(ctx, r.sessionID)
	ctx = services.WithLanguage(ctx, pack.Code)
	ctx = services.WithEpisodeID(ctx, episodeID(ec.EpisodeNumber, pack.Code))
	r.logger.Info("episode run started",
		logging.String(logging.FieldEventType, "episode_start"),
		logging.String("episode_type", string(ec.Type)),
		logging.Int("episode_number", ec.EpisodeNumber),
		logging.String("tier", ec.Tier),
		logging.Bool("transcript_only", ec.TranscriptOnly),
		logging.Any("secondary_languages", secondaryLanguages(ec, pack.Code, o.packs)),
	)

	var (
		ep  Episode
		err error
	)
	switch {
	case ec.TranscriptPath != "":
		ep, err = o.fromTranscript(ctx, r)
	case ec.Type == personality.Summary:
		ep, err = o.summary(ctx, r)
	default:
		ep, err = o.fresh(ctx, r)
	}
	if err != nil {
		return Episode{}, err
	}
	o.settle(ctx, r, &ep)
	return ep, nil
}

func (o *Orchestrator) newRun(ec EpisodeContext, pack *language.Pack) *run {
	sessionID := o.newID()
	logger := o.logger.With(
		logging.String("session_id", sessionID),
		logging.String(logging.FieldLanguage, pack.Code),
		logging.String("topic", ec.Topic),
	)
	r := &run{ec: ec, pack: pack, sessionID: sessionID, logger: logging.NewComponentLogger(logger, "orchestrator")}
	if o.provider != nil {
		r.llm = llm.NewCached(o.provider, o.store, o.metrics, logger)
		r.dialogue = personality.NewEngine(o.cfg, r.llm, o.packs, logger)
		r.transform = transform.NewEngine(o.cfg, r.llm, o.store, o.packs,
			transform.WithLogger(logger),
			transform.WithMetrics(o.metrics),
		)
	}
	return r
}

// settle records the run's spend, checks the advisory budget and flushes metrics.
func (o *Orchestrator) settle(ctx context.Context, r *run, ep *Episode) {
	var (
		llmCost float64
		tokens  int
	)
	if r.llm != nil {
		llmCost, tokens = r.llm.Spent()
	}
	ep.Cost = cost.Breakdown{LLM: llmCost, TTS: r.spentTTS()}
	ep.Tokens = tokens
	ep.SessionID = r.sessionID

	if err := o.store.RecordCost(ctx, cache.CostRecord{
		SessionID: r.sessionID,
		LLMCost:   ep.Cost.LLM,
		TTSCost:   ep.Cost.TTS,
		TotalCost: ep.Cost.Total(),
		Topic:     r.ec.Topic,
		Language:  r.pack.Code,
	}); err != nil {
		logging.WarnWithContext(r.logger, "cost ledger write failed", "cost_ledger_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "daily spend totals will miss this run"),
		)
	}
	ep.DailyCost = o.store.TodayCost(ctx)

	budget := cost.Budget{MaxDaily: o.cfg.Budget.MaxDailyCost, MaxEpisode: o.cfg.Budget.MaxEpisodeCost}
	ep.BudgetWarnings = budget.Check(ep.DailyCost, ep.Cost.Total())
	for _, w := range ep.BudgetWarnings {
		logging.WarnWithContext(r.logger, w, "budget_exceeded",
			logging.String(logging.FieldImpact, "advisory only; the run was not stopped"),
			logging.String(logging.FieldErrorHint, "raise [budget] limits or use a cheaper tier"),
		)
	}

	o.metrics.ObserveEpisode(r.pack.Code, string(r.ec.Type), ep.Cost.LLM, ep.Cost.TTS)
	if path := o.cfg.Metrics.Textfile; path != "" {
		if err := o.metrics.WriteTextfile(path); err != nil {
			logging.WarnWithContext(r.logger, "metrics textfile write failed", "metrics_write_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "run metrics are not exported"),
			)
		}
	}

	r.logger.Info("episode run complete",
		logging.String(logging.FieldEventType, "episode_complete"),
		logging.String("episode_id", ep.ID),
		logging.USD("llm_cost_usd", ep.Cost.LLM),
		logging.USD("tts_cost_usd", ep.Cost.TTS),
		logging.USD("daily_cost_usd", ep.DailyCost),
		logging.Int("transformations", len(ep.Transformations)),
		logging.Bool("valid", ep.Validation.Valid),
	)
}
