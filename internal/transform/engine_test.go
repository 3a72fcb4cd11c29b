package transform_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
	"github.com/revathi-prasad/ai-builders-podcast/internal/metrics"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
	"github.com/revathi-prasad/ai-builders-podcast/internal/testsupport"
	"github.com/revathi-prasad/ai-builders-podcast/internal/transform"
)

const hindiReply = `ARJUN: नमस्ते दोस्तों, आज हम एजेंट्स की बात करेंगे।
PRIYA: धन्यवाद अर्जुन, चलिए शुरू करते हैं।`

const englishHeavyReply = `ARJUN: we will build the system with python today
PRIYA: yes it is great`

func englishDialogue() []dialogue.Segment {
	return []dialogue.Segment{
		{Speaker: "ALEX", Text: "Welcome to AI Builders. Today we talk about agents.", Timestamp: 0},
		{Speaker: "MAYA", Text: "Thanks Alex, let's start.", Timestamp: 1},
	}
}

func newEngine(t *testing.T, fake *testsupport.FakeLLM, opts ...transform.Option) *transform.Engine {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCache(t, cfg)
	return transform.NewEngine(cfg, fake, store, language.MustDefault(), opts...)
}

func request(segments []dialogue.Segment) transform.Request {
	return transform.Request{
		Segments: segments,
		Source:   "english",
		Target:   "hindi",
		Topic:    "AI agents",
		Tier:     "standard",
	}
}

func TestTransformCacheMissThenHit(t *testing.T) {
	fake := testsupport.NewFakeLLM(hindiReply)
	engine := newEngine(t, fake)
	ctx := context.Background()

	first, err := engine.Transform(ctx, request(englishDialogue()))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if fake.Calls() != 1 {
		t.Fatalf("expected one model call, got %d", fake.Calls())
	}
	if first.Cached || first.Retried {
		t.Fatalf("unexpected flags on first run: %+v", first)
	}
	if len(first.Transformed) != 2 || first.Transformed[0].Speaker != "ARJUN" || first.Transformed[1].Speaker != "PRIYA" {
		t.Fatalf("unexpected transformed dialogue %+v", first.Transformed)
	}
	if first.Score != 1 {
		t.Fatalf("expected a clean score, got %v", first.Score)
	}
	if first.Terminology["database"] == "" {
		t.Fatalf("expected terminology mappings, got %v", first.Terminology)
	}

	second, err := engine.Transform(ctx, request(englishDialogue()))
	if err != nil {
		t.Fatalf("Transform (cached): %v", err)
	}
	if fake.Calls() != 1 {
		t.Fatalf("cache hit should not call the model, got %d calls", fake.Calls())
	}
	if !second.Cached {
		t.Fatal("expected second run to be served from cache")
	}
	if dialogue.Format(second.Transformed) != dialogue.Format(first.Transformed) {
		t.Fatalf("cached content differs:\n%s\n---\n%s", dialogue.Format(second.Transformed), dialogue.Format(first.Transformed))
	}
}

func TestTransformPromptSettings(t *testing.T) {
	fake := testsupport.NewFakeLLM(hindiReply)
	engine := newEngine(t, fake)
	req := request(englishDialogue())
	req.Reference = "Agents plan, act and observe."

	if _, err := engine.Transform(context.Background(), req); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	sent := fake.Requests()[0]
	if sent.MaxTokens != 16000 || sent.Temperature != 0.7 || sent.Model != "claude-3-7-sonnet-20250219" {
		t.Fatalf("unexpected request settings %+v", sent)
	}
	for _, want := range []string{
		"90% HINDI RULE",
		"Topic: AI agents",
		"ALEX: Welcome to AI Builders.",
		"ALWAYS replace 'ALEX' with 'ARJUN'",
		"ALWAYS replace 'AI Builders' with 'नई तकनीक, नए अवसर'",
		"'machine learning' -> Right: 'मशीन लर्निंग - यानी कंप्यूटर को सिखाना'",
		"डब्बावाले",
		"Agents plan, act and observe.",
		"over chai",
	} {
		if !strings.Contains(sent.Prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestTransformPassesThroughOnProviderFailure(t *testing.T) {
	fake := &testsupport.FakeLLM{Errors: []error{errors.New("rate limited"), errors.New("rate limited")}}
	engine := newEngine(t, fake)
	original := englishDialogue()

	result, err := engine.Transform(context.Background(), request(original))
	if err != nil {
		t.Fatalf("provider failure must not surface: %v", err)
	}
	if dialogue.Format(result.Transformed) != dialogue.Format(original) {
		t.Fatalf("expected passthrough, got %+v", result.Transformed)
	}
	if len(result.Adaptations) != 1 || !strings.HasPrefix(result.Adaptations[0], "Error during transformation: ") {
		t.Fatalf("unexpected adaptations %v", result.Adaptations)
	}

	result.Transformed[0].Text = "mutated"
	if original[0].Text == "mutated" || result.Original[0].Text == "mutated" {
		t.Fatal("transformed dialogue aliases the original")
	}

	if _, err := engine.Transform(context.Background(), request(original)); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if fake.Calls() != 2 {
		t.Fatalf("failures must not be cached, got %d calls", fake.Calls())
	}
}

func TestTransformRetriesExactlyOnce(t *testing.T) {
	fake := testsupport.NewFakeLLM(englishHeavyReply)
	recorder := metrics.New()
	engine := newEngine(t, fake, transform.WithMetrics(recorder))

	result, err := engine.Transform(context.Background(), request(englishDialogue()))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if fake.Calls() != 2 {
		t.Fatalf("expected exactly two model calls, got %d", fake.Calls())
	}
	if !result.Retried || result.Score >= transform.RetryThreshold {
		t.Fatalf("expected a retried low score, got retried=%v score=%v", result.Retried, result.Score)
	}
	strict := fake.Requests()[1]
	if strict.Temperature != 0.5 || !strings.Contains(strict.Prompt, "ULTRA-STRICT") {
		t.Fatalf("unexpected retry request %+v", strict)
	}
	if got := testutil.ToFloat64(recorder.TransformRetries); got != 1 {
		t.Fatalf("expected one recorded retry, got %v", got)
	}
}

func TestTransformKeepsRetryResult(t *testing.T) {
	fake := testsupport.NewFakeLLM(englishHeavyReply, hindiReply)
	engine := newEngine(t, fake)

	result, err := engine.Transform(context.Background(), request(englishDialogue()))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if fake.Calls() != 2 || !result.Retried {
		t.Fatalf("expected one retry, got calls=%d retried=%v", fake.Calls(), result.Retried)
	}
	if result.Score != 1 || !strings.Contains(result.Transformed[0].Text, "नमस्ते") {
		t.Fatalf("expected the retry output, got %+v (score %v)", result.Transformed, result.Score)
	}
}

func TestTransformKeepsFirstPassWhenRetryFails(t *testing.T) {
	fake := &testsupport.FakeLLM{
		Replies: []string{englishHeavyReply},
		Errors:  []error{nil, errors.New("overloaded")},
	}
	engine := newEngine(t, fake)

	result, err := engine.Transform(context.Background(), request(englishDialogue()))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if fake.Calls() != 2 || result.Retried {
		t.Fatalf("expected a failed retry, got calls=%d retried=%v", fake.Calls(), result.Retried)
	}
	if !strings.Contains(result.Transformed[0].Text, "python") {
		t.Fatalf("expected first pass output, got %+v", result.Transformed)
	}
}

func TestTransformRemapsEverySourceHost(t *testing.T) {
	reply := `ALEX: Maya, नमस्ते! यह ALEX है, AI Builders में आपका स्वागत है।
maya: धन्यवाद Alex।`
	fake := testsupport.NewFakeLLM(reply)
	engine := newEngine(t, fake)

	result, err := engine.Transform(context.Background(), request(englishDialogue()))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(result.Transformed) != 2 {
		t.Fatalf("unexpected segments %+v", result.Transformed)
	}
	for _, seg := range result.Transformed {
		for _, source := range []string{"ALEX", "MAYA"} {
			if strings.EqualFold(seg.Speaker, source) || strings.Contains(strings.ToUpper(seg.Text), source) {
				t.Fatalf("source host %s survived in %+v", source, seg)
			}
		}
	}
	if got := result.Transformed[0].Text; got != "Priya, नमस्ते! यह ARJUN है, नई तकनीक, नए अवसर में आपका स्वागत है।" {
		t.Fatalf("unexpected rebranded text %q", got)
	}
	if result.Transformed[1].Speaker != "PRIYA" || result.Transformed[1].Text != "धन्यवाद Arjun।" {
		t.Fatalf("unexpected second segment %+v", result.Transformed[1])
	}
}

func TestTransformZipsParagraphsWhenNoSpeakersParse(t *testing.T) {
	original := append(englishDialogue(), dialogue.Segment{Speaker: "ALEX", Text: "Thanks Maya.", Timestamp: 2})
	fake := testsupport.NewFakeLLM("पहला अनुच्छेद।\n\nदूसरा अनुच्छेद।")
	engine := newEngine(t, fake)

	result, err := engine.Transform(context.Background(), request(original))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := []dialogue.Segment{
		{Speaker: "ARJUN", Text: "पहला अनुच्छेद।", Timestamp: 0},
		{Speaker: "PRIYA", Text: "दूसरा अनुच्छेद।", Timestamp: 1},
		{Speaker: "ARJUN", Text: "Thanks Priya.", Timestamp: 2},
	}
	if dialogue.Format(result.Transformed) != dialogue.Format(want) {
		t.Fatalf("unexpected zip:\n%s", dialogue.Format(result.Transformed))
	}
	for i, seg := range result.Transformed {
		if seg.Timestamp != i {
			t.Fatalf("segment %d has timestamp %d", i, seg.Timestamp)
		}
	}
}

func TestTransformPreservesStandardSections(t *testing.T) {
	original := []dialogue.Segment{
		{Speaker: dialogue.Music, Text: "[INTRO MUSIC]"},
		{Speaker: "ALEX", Text: "hi"},
		{Speaker: "MAYA", Text: "hello"},
		{Speaker: "ALEX", Text: "intro three"},
		{Speaker: "MAYA", Text: "intro four"},
		{Speaker: "ALEX", Text: "content one"},
		{Speaker: "MAYA", Text: "content two"},
		{Speaker: "ALEX", Text: "bye one"},
		{Speaker: "MAYA", Text: "bye two"},
		{Speaker: "ALEX", Text: "bye three"},
		{Speaker: "MAYA", Text: "bye four"},
		{Speaker: dialogue.Music, Text: "[OUTRO MUSIC]"},
	}
	dialogue.Renumber(original)
	fake := testsupport.NewFakeLLM("ARJUN: पहला विचार।\nPRIYA: दूसरा विचार।")
	engine := newEngine(t, fake)
	req := request(original)
	req.PreserveStandardSections = true

	result, err := engine.Transform(context.Background(), req)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	pack, _ := language.MustDefault().Get("hindi")
	intro, outro := pack.IntroSegments(), pack.OutroSegments()
	got := result.Transformed
	if len(got) != len(intro)+2+len(outro) {
		t.Fatalf("unexpected assembly length %d: %+v", len(got), got)
	}
	if got[0].Text != intro[0].Text || got[len(got)-1].Text != outro[len(outro)-1].Text {
		t.Fatalf("standard sections not preserved: first %q last %q", got[0].Text, got[len(got)-1].Text)
	}
	for i, seg := range intro {
		if got[i].Text != seg.Text {
			t.Fatalf("intro segment %d was rewritten: %q", i, got[i].Text)
		}
	}
	if got[len(intro)].Text != "पहला विचार।" {
		t.Fatalf("content not placed after intro: %+v", got[len(intro)])
	}
	for i, seg := range got {
		if seg.Timestamp != i {
			t.Fatalf("segment %d has timestamp %d", i, seg.Timestamp)
		}
	}

	prompt := fake.Requests()[0].Prompt
	if !strings.Contains(prompt, "content one") || strings.Contains(prompt, "intro three") || strings.Contains(prompt, "bye two") {
		t.Fatalf("prompt should carry only content segments:\n%s", prompt)
	}
}

func TestTransformPreserveWithoutContentSkipsModel(t *testing.T) {
	fake := testsupport.NewFakeLLM(hindiReply)
	engine := newEngine(t, fake)
	req := request(englishDialogue())
	req.PreserveStandardSections = true

	result, err := engine.Transform(context.Background(), req)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if fake.Calls() != 0 {
		t.Fatalf("expected no model call, got %d", fake.Calls())
	}
	pack, _ := language.MustDefault().Get("hindi")
	if len(result.Transformed) != len(pack.IntroSegments())+len(pack.OutroSegments()) {
		t.Fatalf("expected only standard sections, got %+v", result.Transformed)
	}
}

func TestTransformUnknownLanguage(t *testing.T) {
	fake := testsupport.NewFakeLLM(hindiReply)
	engine := newEngine(t, fake)
	req := request(englishDialogue())
	req.Target = "klingon"

	if _, err := engine.Transform(context.Background(), req); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if fake.Calls() != 0 {
		t.Fatalf("expected no model call, got %d", fake.Calls())
	}
}

func TestScore(t *testing.T) {
	reg := language.MustDefault()
	hindi, _ := reg.Get("hindi")
	english, _ := reg.Get("english")

	segments := []dialogue.Segment{
		{Speaker: "ARJUN", Text: "यह python है"},
		{Speaker: "PRIYA", Text: "software यानी प्रोग्राम"},
		{Speaker: dialogue.Music, Text: "[INTRO MUSIC]"},
		{Speaker: "ARJUN", Text: "database बढ़िया"},
	}
	q := transform.Measure(segments, hindi)
	if q.Words != 8 || q.English != 3 || q.Technical != 2 || q.Explained != 1 {
		t.Fatalf("unexpected counts %+v", q)
	}
	if got := q.Score(); got < 0.15-1e-9 || got > 0.15+1e-9 {
		t.Fatalf("expected score 0.15, got %v", got)
	}

	clean := []dialogue.Segment{{Speaker: "ARJUN", Text: "AI और Wi-Fi, दोनों ज़रूरी हैं।"}}
	if got := transform.Score(clean, hindi); got != 1 {
		t.Fatalf("acceptable loanwords should not count, got %v", got)
	}
	if got := transform.Score([]dialogue.Segment{{Speaker: "ALEX", Text: "Plain English words here."}}, english); got != 1 {
		t.Fatalf("latin-script target should not penalise English, got %v", got)
	}
	if got := transform.Score(nil, hindi); got != 0 {
		t.Fatalf("empty dialogue should score 0, got %v", got)
	}
}

// A long unexplained turn weighs the same as a short explained one.
func lopsidedHindi() []dialogue.Segment {
	return []dialogue.Segment{
		{Speaker: "ARJUN", Text: "database-यानी भंडार"},
		{Speaker: "PRIYA", Text: "database-आधारित " + strings.Repeat("बात ", 20)},
	}
}

func TestScoreCountsTermsPerSegment(t *testing.T) {
	hindi, _ := language.MustDefault().Get("hindi")
	q := transform.Measure(lopsidedHindi(), hindi)
	if q.Words != 23 || q.English != 0 || q.Technical != 2 || q.Explained != 1 {
		t.Fatalf("unexpected counts %+v", q)
	}
	if got := q.Score(); got < 0.85-1e-9 || got > 0.85+1e-9 {
		t.Fatalf("expected score 0.85, got %v", got)
	}
}

func TestLongUnexplainedTurnDoesNotTriggerRetry(t *testing.T) {
	fake := testsupport.NewFakeLLM(dialogue.Format(lopsidedHindi()))
	engine := newEngine(t, fake)

	result, err := engine.Transform(context.Background(), request(englishDialogue()))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if fake.Calls() != 1 || result.Retried {
		t.Fatalf("expected a single pass, got %d calls (retried=%v, score=%v)", fake.Calls(), result.Retried, result.Score)
	}
	if result.Score < transform.RetryThreshold {
		t.Fatalf("score %v should clear the retry threshold", result.Score)
	}
}

func TestFrameThenExtractContent(t *testing.T) {
	pack, err := language.MustDefault().Get("english")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body := englishDialogue()
	framed := transform.Frame(body, pack)
	if want := len(pack.IntroSegments()) + len(body) + len(pack.OutroSegments()); len(framed) != want {
		t.Fatalf("expected %d framed segments, got %d", want, len(framed))
	}
	if framed[len(framed)-1].Timestamp != len(framed)-1 {
		t.Fatalf("framed dialogue should be renumbered")
	}

	content := transform.ExtractContent(framed)
	if len(content) != len(body) {
		t.Fatalf("expected %d content segments, got %+v", len(body), content)
	}
	for i := range body {
		if content[i].Speaker != body[i].Speaker || content[i].Text != body[i].Text {
			t.Fatalf("content %d = %+v, want %+v", i, content[i], body[i])
		}
	}
}
