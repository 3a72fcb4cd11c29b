package transform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/revathi-prasad/ai-builders-podcast/internal/cache"
	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/metrics"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/llm"
)

const (
	maxTokens         = 16000
	temperature       = 0.7
	strictTemperature = 0.5
)

// Request describes one transformation.
type Request struct {
	Segments                 []dialogue.Segment
	Source                   string
	Target                   string
	Topic                    string
	Tier                     string
	Reference                string
	PreserveStandardSections bool
}

// Result is a finished transformation. Transformed never aliases Original.
type Result struct {
	Source      string
	Target      string
	Original    []dialogue.Segment
	Transformed []dialogue.Segment
	Adaptations []string
	Terminology map[string]string
	Score       float64
	Retried     bool
	Cached      bool
}

// Engine transforms dialogue between language packs.
type Engine struct {
	cfg      *config.Config
	provider llm.Provider
	store    *cache.Store
	packs    *language.Registry
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logging.NewComponentLogger(logger, "transform") }
}

// WithMetrics records retries and scores on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = r }
}

// NewEngine constructs an Engine. store may be nil to disable caching.
func NewEngine(cfg *config.Config, provider llm.Provider, store *cache.Store, packs *language.Registry, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		provider: provider,
		store:    store,
		packs:    packs,
		logger:   logging.NewComponentLogger(nil, "transform"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// pass is the outcome of sending one dialogue through the model.
type pass struct {
	text     string
	segments []dialogue.Segment
	score    float64
	retried  bool
}

// Transform rewrites req.Segments from req.Source into req.Target. The only
// error is an unknown language; every other failure returns the original
// dialogue with an "Error during transformation" adaptation note.
func (e *Engine) Transform(ctx context.Context, req Request) (Result, error) {
	source, err := e.packs.Get(req.Source)
	if err != nil {
		return Result{}, err
	}
	target, err := e.packs.Get(req.Target)
	if err != nil {
		return Result{}, err
	}

	original := dialogue.Clone(req.Segments)
	result := Result{
		Source:      source.Code,
		Target:      target.Code,
		Original:    original,
		Adaptations: []string{},
		Terminology: map[string]string{},
	}
	fingerprint := dialogue.Fingerprint(original)

	if cached, ok := e.store.Transformation(ctx, source.Code, target.Code, fingerprint); ok {
		segments, err := dialogue.Decode(cached)
		if err == nil {
			e.logger.Info("transformation cache hit",
				logging.Args(append(logging.DecisionAttrs("transform_cache", "hit", "fingerprint matched"),
					logging.String(logging.FieldEventType, "transform_cache_hit"),
					logging.String(logging.FieldLanguage, target.Code),
					logging.Int("segments", len(segments)),
				)...)...,
			)
			result.Transformed = segments
			result.Cached = true
			return result, nil
		}
		logging.WarnWithContext(e.logger, "cached transformation unreadable", "transform_cache_corrupt",
			logging.Error(err),
			logging.String(logging.FieldImpact, "the transformation is regenerated"),
		)
	}

	var p pass
	if req.PreserveStandardSections {
		p, err = e.preserve(ctx, source, target, original, req)
	} else {
		p, err = e.transform(ctx, source, target, original, req)
	}
	if err != nil {
		logging.ErrorWithContext(e.logger, "transformation failed", "transform_failed",
			logging.String("source", source.Code),
			logging.String(logging.FieldLanguage, target.Code),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the original dialogue is passed through untranslated"),
			logging.String(logging.FieldErrorHint, "check the LLM provider key and quota"),
		)
		result.Transformed = dialogue.Clone(original)
		result.Adaptations = []string{fmt.Sprintf("Error during transformation: %v", err)}
		return result, nil
	}

	result.Transformed = p.segments
	result.Adaptations = adaptations(p.text, target)
	result.Terminology = terminology(target)
	result.Score = p.score
	result.Retried = p.retried
	e.metrics.ObserveScore(target.Code, p.score)

	if encoded, err := dialogue.Encode(p.segments); err == nil {
		e.store.PutTransformation(ctx, source.Code, target.Code, fingerprint, encoded)
	}
	e.logger.Info("dialogue transformed",
		logging.String(logging.FieldEventType, "transform_complete"),
		logging.String("source", source.Code),
		logging.String(logging.FieldLanguage, target.Code),
		logging.Int("segments", len(p.segments)),
		logging.Float64("score", p.score),
		logging.Bool("retried", p.retried),
		logging.Bool("preserve_sections", req.PreserveStandardSections),
	)
	return result, nil
}

// preserve transforms only the content between the standard sections and
// surrounds it with the target language's canonical intro and outro.
func (e *Engine) preserve(ctx context.Context, source, target *language.Pack, original []dialogue.Segment, req Request) (pass, error) {
	start, end := contentBounds(original)
	content := dialogue.Clone(original[start:end])
	e.logger.Debug("standard sections located",
		logging.Int("content_start", start),
		logging.Int("content_end", end),
		logging.Int("segments", len(original)),
	)

	p := pass{score: 1}
	if len(content) > 0 {
		var err error
		p, err = e.transform(ctx, source, target, content, req)
		if err != nil {
			return pass{}, err
		}
	}

	p.segments = Frame(p.segments, target)
	return p, nil
}

// transform sends segments through the model once, and once more with the
// strict prompt when the first pass scores below RetryThreshold.
func (e *Engine) transform(ctx context.Context, source, target *language.Pack, segments []dialogue.Segment, req Request) (pass, error) {
	model := e.cfg.ModelFor(req.Tier)
	formatted := dialogue.Format(segments)
	en := newEnhancer(source, target)

	resp, err := e.provider.Complete(ctx, llm.Request{
		Model:       model,
		Prompt:      enhancedPrompt(source, target, formatted, req.Topic, req.Reference),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return pass{}, err
	}
	p := e.parse(resp.Content, segments, target, en)
	if p.score >= RetryThreshold {
		return p, nil
	}

	e.metrics.TransformRetry()
	logging.WarnWithContext(e.logger, "low quality transformation, retrying once", "transform_retry",
		append(logging.DecisionAttrs("transform_quality", "retry", "score below threshold"),
			logging.String(logging.FieldLanguage, target.Code),
			logging.Float64("score", p.score),
			logging.Float64("threshold", RetryThreshold),
			logging.String(logging.FieldImpact, "one extra model call with the strict prompt"),
		)...,
	)
	resp, err = e.provider.Complete(ctx, llm.Request{
		Model:       model,
		Prompt:      strictPrompt(target, formatted),
		MaxTokens:   maxTokens,
		Temperature: strictTemperature,
	})
	if err != nil {
		logging.WarnWithContext(e.logger, "strict retry failed", "transform_retry_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "the first pass is kept"),
		)
		return p, nil
	}
	retried := e.parse(resp.Content, segments, target, en)
	retried.retried = true
	return retried, nil
}

func (e *Engine) parse(reply string, original []dialogue.Segment, target *language.Pack, en *enhancer) pass {
	text := en.apply(llm.StripCodeFence(reply))
	segments := parseReply(text, original, target, en)
	q := Measure(segments, target)
	e.logger.Debug("transformation quality",
		logging.String(logging.FieldLanguage, target.Code),
		logging.Float64("english_ratio", q.EnglishRatio()),
		logging.Int("explained_terms", q.Explained),
		logging.Int("technical_terms", q.Technical),
		logging.Float64("score", q.Score()),
	)
	return pass{text: text, segments: segments, score: q.Score()}
}

// parseReply parses the enhanced reply against the target hosts and the
// remapped original speakers. When no spoken line parses, paragraphs are
// zipped positionally onto the original segments; originals beyond the
// last paragraph are kept with their names rebranded.
func parseReply(text string, original []dialogue.Segment, target *language.Pack, en *enhancer) []dialogue.Segment {
	speakers := target.HostLabels()
	for _, seg := range original {
		if !seg.IsMusic() {
			speakers = append(speakers, target.MapHost(seg.Speaker))
		}
	}

	segments := dialogue.ParseScript(text, speakers)
	if dialogue.Spoken(segments) == 0 {
		segments = zipParagraphs(text, original, speakers, en)
	}
	for i := range segments {
		if !segments[i].IsMusic() {
			segments[i].Speaker = target.MapHost(segments[i].Speaker)
		}
	}
	return dialogue.Renumber(segments)
}

func zipParagraphs(text string, original []dialogue.Segment, speakers []string, en *enhancer) []dialogue.Segment {
	paragraphs := dialogue.Paragraphs(text)
	out := make([]dialogue.Segment, 0, len(original))
	for i, seg := range original {
		if i >= len(paragraphs) {
			out = append(out, dialogue.Segment{Speaker: seg.Speaker, Text: en.rebrand(seg.Text)})
			continue
		}
		out = append(out, dialogue.Segment{Speaker: seg.Speaker, Text: stripSpeaker(paragraphs[i], speakers)})
	}
	return out
}

func stripSpeaker(para string, speakers []string) string {
	for _, s := range append(speakers, dialogue.Music) {
		prefix := strings.ToUpper(s) + ":"
		if len(para) >= len(prefix) && strings.EqualFold(para[:len(prefix)], prefix) {
			return strings.TrimSpace(para[len(prefix):])
		}
	}
	return para
}
