package audio

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/revathi-prasad/ai-builders-podcast/internal/cache"
	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/cost"
	"github.com/revathi-prasad/ai-builders-podcast/internal/fileutil"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/metrics"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/tts"
)

// Sequence slots reserved for the standard sections.
const (
	IntroSequence = -1000
	OutroSequence = 10000
)

// Voice ids of queue entries that are not synthesized.
const (
	VoicePrerecorded = "prerecorded"
	VoiceMusic       = "music"
)

// MusicMarker is the path returned for a music slot. The Merger replaces it
// with the language's music bed.
const MusicMarker = "music"

// Item is one queued clip.
type Item struct {
	Text     string
	Voice    string
	Sequence int
	// Path is set for prerecorded and music items.
	Path string
}

func (i Item) passthrough() bool {
	return i.Voice == VoicePrerecorded || i.Voice == VoiceMusic
}

// Pipeline batches TTS work for one episode. It is safe for concurrent Queue
// calls; ProcessBatch drains the queue.
type Pipeline struct {
	cfg     *config.Config
	synth   tts.Synthesizer
	store   *cache.Store
	metrics *metrics.Recorder
	logger  *slog.Logger
	model   string
	now     func() time.Time
	newID   func() string

	mu        sync.Mutex
	queue     []Item
	lastCost  float64
	lastChars int
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logging.NewComponentLogger(logger, "audio")
	}
}

// WithMetrics records TTS outcomes on m.
func WithMetrics(m *metrics.Recorder) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithModel overrides the TTS model id, normally picked from the standard tier.
func WithModel(model string) PipelineOption {
	return func(p *Pipeline) {
		if model != "" {
			p.model = model
		}
	}
}

// WithClock overrides the time source used in clip file names.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline builds a pipeline writing clips into cfg.Paths.AudioDir.
func NewPipeline(cfg *config.Config, synth tts.Synthesizer, store *cache.Store, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		synth:  synth,
		store:  store,
		logger: logging.NewComponentLogger(nil, "audio"),
		model:  cfg.VoiceModelFor(config.TierStandard),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Queue adds a spoken turn.
func (p *Pipeline) Queue(text, voiceID string, sequence int) {
	p.push(Item{Text: text, Voice: voiceID, Sequence: sequence})
}

// QueuePrerecorded adds an existing audio file.
func (p *Pipeline) QueuePrerecorded(path string, sequence int) {
	p.push(Item{Text: "[PRE_RECORDED]", Voice: VoicePrerecorded, Sequence: sequence, Path: path})
}

// QueueStandardIntro queues the prerecorded intro for language when enabled
// and present, otherwise a music slot. It reports whether a prerecorded file
// was used.
func (p *Pipeline) QueueStandardIntro(language string) bool {
	return p.queueStandard(p.cfg.Audio.PrerecordedIntroDir, "intro", "[INTRO MUSIC]", language, IntroSequence)
}

// QueueStandardOutro is QueueStandardIntro for the closing slot.
func (p *Pipeline) QueueStandardOutro(language string) bool {
	return p.queueStandard(p.cfg.Audio.PrerecordedOutroDir, "outro", "[OUTRO MUSIC]", language, OutroSequence)
}

func (p *Pipeline) queueStandard(dir, kind, marker, language string, sequence int) bool {
	if p.cfg.Audio.UsePrerecordedIntros && dir != "" {
		path := filepath.Join(dir, kind+"_"+language+".mp3")
		if fileutil.IsFile(path) {
			p.QueuePrerecorded(path, sequence)
			return true
		}
		p.logger.Debug("prerecorded section not found, using music slot",
			logging.String("path", path),
			logging.String(logging.FieldLanguage, language),
		)
	}
	p.push(Item{Text: marker, Voice: VoiceMusic, Sequence: sequence, Path: MusicMarker})
	return false
}

func (p *Pipeline) push(item Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, item)
}

// Pending returns the number of queued items.
func (p *Pipeline) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// LastBatchCost returns the TTS spend and characters synthesized by the most
// recent ProcessBatch. Cache hits cost nothing.
func (p *Pipeline) LastBatchCost() (float64, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCost, p.lastChars
}

type rendered struct {
	path     string
	sequence int
}

// ProcessBatch renders every queued item and returns clip paths ordered by
// sequence. The queue is empty afterwards. Items that fail to synthesize are
// logged and omitted.
func (p *Pipeline) ProcessBatch(ctx context.Context) []string {
	p.mu.Lock()
	items := p.queue
	p.queue = nil
	p.mu.Unlock()

	// Group by voice so consecutive requests reuse the same voice.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Voice != items[j].Voice {
			return items[i].Voice < items[j].Voice
		}
		return items[i].Sequence < items[j].Sequence
	})

	var (
		out       []rendered
		spent     float64
		charCount int
		dropped   int
	)
	for _, item := range items {
		if item.passthrough() {
			out = append(out, rendered{path: item.Path, sequence: item.Sequence})
			continue
		}
		if entry, ok := p.store.Audio(ctx, item.Text, item.Voice); ok {
			p.metrics.TTSCall(metrics.OutcomeCached, 0)
			out = append(out, rendered{path: entry.FilePath, sequence: item.Sequence})
			continue
		}
		clipCtx := services.WithRequestID(ctx, "clip-"+strconv.Itoa(item.Sequence))
		path, chars, err := p.synthesize(clipCtx, item)
		if err != nil {
			dropped++
			p.metrics.TTSCall(metrics.OutcomeError, 0)
			logging.WarnWithContext(logging.WithContext(clipCtx, p.logger), "audio clip dropped", "tts_failed",
				logging.Int("sequence", item.Sequence),
				logging.String("voice", item.Voice),
				logging.Error(err),
				logging.String(logging.FieldImpact, "episode audio will skip this turn"),
				logging.String(logging.FieldErrorHint, "check the ElevenLabs key, quota and voice id"),
			)
			continue
		}
		itemCost := cost.TTS(chars)
		spent += itemCost
		charCount += chars
		p.metrics.TTSCall(metrics.OutcomeSuccess, chars)
		p.store.PutAudio(ctx, item.Text, item.Voice, path, chars, itemCost)
		out = append(out, rendered{path: path, sequence: item.Sequence})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].sequence < out[j].sequence })
	paths := make([]string, 0, len(out))
	for _, r := range out {
		paths = append(paths, r.path)
	}

	p.mu.Lock()
	p.lastCost = spent
	p.lastChars = charCount
	p.mu.Unlock()

	p.logger.Info("audio batch processed",
		logging.String(logging.FieldEventType, "audio_batch_complete"),
		logging.Int("clips", len(paths)),
		logging.Int("dropped", dropped),
		logging.Int("characters", charCount),
		logging.USD("cost_usd", spent),
	)
	return paths
}

func (p *Pipeline) synthesize(ctx context.Context, item Item) (string, int, error) {
	if p.synth == nil {
		return "", 0, fmt.Errorf("no synthesizer configured")
	}
	audio, err := p.synth.Synthesize(ctx, tts.Request{
		VoiceID: item.Voice,
		Text:    AddEmphasis(item.Text),
		ModelID: p.model,
		Settings: tts.Settings{
			Stability:       p.cfg.TTS.Stability,
			SimilarityBoost: p.cfg.TTS.SimilarityBoost,
			Style:           p.cfg.TTS.Style,
			UseSpeakerBoost: p.cfg.TTS.UseSpeakerBoost,
		},
	})
	if err != nil {
		return "", 0, err
	}
	path := filepath.Join(p.cfg.Paths.AudioDir, p.clipName(item.Voice))
	if err := fileutil.WriteFileAtomic(path, audio, 0o644); err != nil {
		return "", 0, fmt.Errorf("write clip: %w", err)
	}
	return path, utf8.RuneCountInString(item.Text), nil
}

func (p *Pipeline) clipName(voice string) string {
	prefix := voice
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return strconv.FormatInt(p.now().Unix(), 10) + "_" + prefix + "_" + p.newID() + ".mp3"
}
