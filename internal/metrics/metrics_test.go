package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/revathi-prasad/ai-builders-podcast/internal/metrics"
)

func TestRecorderCounts(t *testing.T) {
	r := metrics.New()
	r.CacheLookup("llm_cache", true)
	r.CacheLookup("llm_cache", false)
	r.CacheLookup("llm_cache", false)
	r.LLMCall(metrics.OutcomeSuccess, 120, 80)
	r.TTSCall(metrics.OutcomeSuccess, 42)
	r.TTSCall(metrics.OutcomeError, 10)
	r.TransformRetry()
	r.ObserveScore("hindi", 0.75)

	if got := testutil.ToFloat64(r.CacheLookups.WithLabelValues("llm_cache", "miss")); got != 2 {
		t.Fatalf("expected 2 misses, got %v", got)
	}
	if got := testutil.ToFloat64(r.LLMTokens.WithLabelValues("completion")); got != 80 {
		t.Fatalf("expected 80 completion tokens, got %v", got)
	}
	if got := testutil.ToFloat64(r.TTSCharacters); got != 42 {
		t.Fatalf("expected 42 characters, got %v", got)
	}
	if got := testutil.ToFloat64(r.AudioItemsDropped); got != 1 {
		t.Fatalf("expected one dropped item, got %v", got)
	}
	if got := testutil.ToFloat64(r.TransformScore.WithLabelValues("hindi")); got != 0.75 {
		t.Fatalf("expected score 0.75, got %v", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *metrics.Recorder
	r.CacheLookup("audio_cache", true)
	r.LLMCall(metrics.OutcomeError, 0, 0)
	r.ObserveEpisode("tamil", "build", 1, 2)
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")); err != nil {
		t.Fatalf("nil recorder write: %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := metrics.New()
	r.ObserveEpisode("english", "introduction", 0.5, 1.5)
	path := filepath.Join(t.TempDir(), "nested", "aibuilders.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	text := string(content)
	for _, want := range []string{
		`aibuilders_episodes_generated_total{episode_type="introduction",language="english"} 1`,
		`aibuilders_episode_cost_usd{language="english",provider="tts"} 1.5`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in textfile:\n%s", want, text)
		}
	}
}
