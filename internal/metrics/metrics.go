// Package metrics records run counters for cache, provider and transformation
// activity and writes them as a Prometheus textfile.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aibuilders"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeCached  = "cached"
)

// Recorder holds the metrics of one process. A nil *Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry

	CacheLookups      *prometheus.CounterVec
	LLMCalls          *prometheus.CounterVec
	LLMTokens         *prometheus.CounterVec
	TTSCalls          *prometheus.CounterVec
	TTSCharacters     prometheus.Counter
	TransformRetries  prometheus.Counter
	TransformScore    *prometheus.GaugeVec
	EpisodeCost       *prometheus.GaugeVec
	EpisodesGenerated *prometheus.CounterVec
	AudioItemsDropped prometheus.Counter
}

// New creates a recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by table and result",
		}, []string{"table", "result"}),
		LLMCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "LLM completions by outcome",
		}, []string{"outcome"}),
		LLMTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "LLM tokens by direction",
		}, []string{"direction"}),
		TTSCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tts_calls_total",
			Help:      "Speech synthesis requests by outcome",
		}, []string{"outcome"}),
		TTSCharacters: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tts_characters_total",
			Help:      "Characters sent to the speech provider",
		}),
		TransformRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_retries_total",
			Help:      "Strict retries triggered by a low naturalness score",
		}),
		TransformScore: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transform_score",
			Help:      "Last naturalness score per target language",
		}, []string{"language"}),
		EpisodeCost: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "episode_cost_usd",
			Help:      "Estimated cost of the last episode per language and provider",
		}, []string{"language", "provider"}),
		EpisodesGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "episodes_generated_total",
			Help:      "Episodes produced by language and type",
		}, []string{"language", "episode_type"}),
		AudioItemsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_items_dropped_total",
			Help:      "Utterances dropped after a synthesis failure",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// CacheLookup counts one lookup against table.
func (r *Recorder) CacheLookup(table string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookups.WithLabelValues(table, result).Inc()
}

// LLMCall counts one completion and its token usage.
func (r *Recorder) LLMCall(outcome string, promptTokens, completionTokens int) {
	if r == nil {
		return
	}
	r.LLMCalls.WithLabelValues(outcome).Inc()
	if promptTokens > 0 {
		r.LLMTokens.WithLabelValues("prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		r.LLMTokens.WithLabelValues("completion").Add(float64(completionTokens))
	}
}

// TTSCall counts one synthesis request.
func (r *Recorder) TTSCall(outcome string, chars int) {
	if r == nil {
		return
	}
	r.TTSCalls.WithLabelValues(outcome).Inc()
	if outcome == OutcomeError {
		r.AudioItemsDropped.Inc()
		return
	}
	if outcome == OutcomeSuccess && chars > 0 {
		r.TTSCharacters.Add(float64(chars))
	}
}

// TransformRetry counts one strict retry.
func (r *Recorder) TransformRetry() {
	if r == nil {
		return
	}
	r.TransformRetries.Inc()
}

// ObserveScore stores the latest naturalness score for language.
func (r *Recorder) ObserveScore(language string, score float64) {
	if r == nil {
		return
	}
	r.TransformScore.WithLabelValues(language).Set(score)
}

// ObserveEpisode records a finished episode and its estimated spend.
func (r *Recorder) ObserveEpisode(language, episodeType string, llmCost, ttsCost float64) {
	if r == nil {
		return
	}
	r.EpisodesGenerated.WithLabelValues(language, episodeType).Inc()
	r.EpisodeCost.WithLabelValues(language, "llm").Set(llmCost)
	r.EpisodeCost.WithLabelValues(language, "tts").Set(ttsCost)
}

// WriteTextfile writes every metric in the Prometheus text format to path.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
