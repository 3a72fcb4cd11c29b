package personality_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
	"github.com/revathi-prasad/ai-builders-podcast/internal/personality"
	"github.com/revathi-prasad/ai-builders-podcast/internal/research"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
	"github.com/revathi-prasad/ai-builders-podcast/internal/testsupport"
)

const episodeReply = `Here is the conversation:

Alex: So let's talk about what building really means.
It starts with a real problem.
MAYA: Exactly, and then we iterate with listeners.
alex: Which is why every episode ships code.`

func newEngine(t *testing.T, fake *testsupport.FakeLLM) *personality.Engine {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return personality.NewEngine(cfg, fake, language.MustDefault(), nil)
}

func TestGenerateEpisodeParsesReply(t *testing.T) {
	fake := testsupport.NewFakeLLM(episodeReply)
	engine := newEngine(t, fake)

	segments, err := engine.GenerateEpisode(context.Background(), personality.EpisodeRequest{
		Host1: "alex", Host2: "maya", Language: "english", Type: personality.Build,
		Topic: "Invoice agents", EpisodeNumber: 3, Tier: "standard",
	})
	if err != nil {
		t.Fatalf("GenerateEpisode: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segments), segments)
	}
	if segments[0].Speaker != "ALEX" || segments[0].Text != "So let's talk about what building really means. It starts with a real problem." {
		t.Fatalf("unexpected first segment %+v", segments[0])
	}
	for i, seg := range segments {
		if seg.Timestamp != i {
			t.Fatalf("segment %d has timestamp %d", i, seg.Timestamp)
		}
	}

	reqs := fake.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one LLM call, got %d", len(reqs))
	}
	req := reqs[0]
	if req.MaxTokens != 4000 || req.Temperature != 0.7 || req.Model != "claude-3-7-sonnet-20250219" {
		t.Fatalf("unexpected request settings %+v", req)
	}
	for _, want := range []string{
		"- Podcast Title: Future Proof with AI",
		`- Episode Topic: "Invoice agents"`,
		"### Alex\nYou are Alex",
		"1. Today's building challenge: Invoice agents:",
		"12. Key takeaways:",
		"Each segment should be 80-150 words long",
		"This is NOT the first episode of the series.",
		"Generate exactly 15 segments of dialogue",
	} {
		if !strings.Contains(req.Prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestGenerateEpisodeUsesTamilLengthsAndResearch(t *testing.T) {
	fake := testsupport.NewFakeLLM("KARTHIK: வணக்கம்\nMEERA: நன்றி")
	engine := newEngine(t, fake)

	segments, err := engine.GenerateEpisode(context.Background(), personality.EpisodeRequest{
		Host1: "karthik", Host2: "meera", Language: "ta", Type: personality.Conversation,
		Topic: "RAG", Tier: "economy",
		Research:  &research.Result{Topic: "RAG", Summary: "Two items.", KeyPoints: []string{"Chunking matters"}},
		Reference: "Notes from the RAG workshop.",
	})
	if err != nil {
		t.Fatalf("GenerateEpisode: %v", err)
	}
	if len(segments) != 2 || segments[1].Speaker != "MEERA" {
		t.Fatalf("unexpected segments %+v", segments)
	}
	prompt := fake.Requests()[0].Prompt
	for _, want := range []string{
		"Each segment should be 120-180 words long",
		"Generate exactly 20 segments",
		"## Research Data",
		"- Chunking matters",
		"## Reference Material",
		"Notes from the RAG workshop.",
		"This is the introduction/first episode",
		"## Regional Examples to Include:",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestGenerateEpisodeFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fake *testsupport.FakeLLM
	}{
		{"provider error", &testsupport.FakeLLM{Errors: []error{errors.New("boom")}}},
		{"unparseable reply", testsupport.NewFakeLLM("I cannot write that dialogue.")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newEngine(t, tt.fake)
			segments, err := engine.GenerateEpisode(context.Background(), personality.EpisodeRequest{
				Host1: "arjun", Host2: "priya", Language: "hindi", Topic: "AI agents",
			})
			if err != nil {
				t.Fatalf("fallback should not error: %v", err)
			}
			if len(segments) != 2 {
				t.Fatalf("expected two fallback lines, got %+v", segments)
			}
			if segments[0].Speaker != "ARJUN" || segments[0].Text != "Welcome to our discussion about AI agents." {
				t.Fatalf("unexpected fallback %+v", segments[0])
			}
			if segments[1].Speaker != "PRIYA" || segments[1].Timestamp != 1 {
				t.Fatalf("unexpected fallback %+v", segments[1])
			}
		})
	}
}

func TestGenerateEpisodeConfigurationErrors(t *testing.T) {
	fake := testsupport.NewFakeLLM(episodeReply)
	engine := newEngine(t, fake)

	tests := []personality.EpisodeRequest{
		{Host1: "alex", Host2: "maya", Language: "klingon"},
		{Host1: "arjun", Host2: "maya", Language: "english"},
		{Host1: "alex", Host2: "alex", Language: "english"},
	}
	for _, req := range tests {
		if _, err := engine.GenerateEpisode(context.Background(), req); !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("%+v: expected configuration error, got %v", req, err)
		}
	}
	if fake.Calls() != 0 {
		t.Fatalf("configuration errors must not reach the model, got %d calls", fake.Calls())
	}
}

func TestGenerateEpisodeDefaultsHostsFromPack(t *testing.T) {
	fake := testsupport.NewFakeLLM("ALEX: hi\nMAYA: hello")
	engine := newEngine(t, fake)
	segments, err := engine.GenerateEpisode(context.Background(), personality.EpisodeRequest{Language: "english", Topic: "x"})
	if err != nil || len(segments) != 2 {
		t.Fatalf("unexpected result %+v %v", segments, err)
	}
}

func TestCulturalResponse(t *testing.T) {
	fake := testsupport.NewFakeLLM("  A short reply.  ")
	engine := newEngine(t, fake)
	got, err := engine.CulturalResponse(context.Background(), "maya", "english", "agents", "ALEX: hi", "standard")
	if err != nil || got != "A short reply." {
		t.Fatalf("unexpected reply %q %v", got, err)
	}
	req := fake.Requests()[0]
	if req.MaxTokens != 250 || !strings.Contains(req.Prompt, "Current Topic: agents") || !strings.HasPrefix(req.Prompt, "You are Maya") {
		t.Fatalf("unexpected request %+v", req)
	}

	failing := newEngine(t, &testsupport.FakeLLM{Errors: []error{errors.New("down")}})
	got, err = failing.CulturalResponse(context.Background(), "maya", "english", "agents", "", "standard")
	if err != nil || got != "That's a fascinating perspective on agents." {
		t.Fatalf("unexpected fallback %q %v", got, err)
	}
}

func TestParseEpisodeType(t *testing.T) {
	if got, err := personality.ParseEpisodeType(" Quick-Tip "); err != nil || got != personality.QuickTip {
		t.Fatalf("unexpected %q %v", got, err)
	}
	if _, err := personality.ParseEpisodeType("trailer"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLengthFor(t *testing.T) {
	if l := personality.LengthFor("english", personality.Interview); l.Segments != 10 {
		t.Fatalf("unplanned types use the default length, got %+v", l)
	}
	if l := personality.LengthFor("tamil", personality.Build); l.MinWords != 100 || l.MaxWords != 170 {
		t.Fatalf("unexpected tamil build length %+v", l)
	}
}

func TestPlanFor(t *testing.T) {
	first := personality.PlanFor(personality.Introduction, "x", 0)
	later := personality.PlanFor(personality.Introduction, "x", 2)
	if len(first) != 10 || len(later) != 10 || first[0].Topic == later[0].Topic {
		t.Fatal("introduction plan should depend on the episode number")
	}
	if plan := personality.PlanFor(personality.Summary, "x", 0); plan[0].Topic != first[0].Topic {
		t.Fatal("types without a plan fall back to the introduction plan")
	}
}
