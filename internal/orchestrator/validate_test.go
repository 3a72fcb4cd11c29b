package orchestrator

import (
	"reflect"
	"strings"
	"testing"

	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
)

func englishPack(t *testing.T) *language.Pack {
	t.Helper()
	p, err := language.MustDefault().Get("english")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return p
}

func turns(lines ...string) []dialogue.Segment {
	out := make([]dialogue.Segment, 0, len(lines))
	for i, line := range lines {
		speaker, text, _ := strings.Cut(line, ": ")
		out = append(out, dialogue.Segment{Speaker: speaker, Text: text, Timestamp: i})
	}
	return out
}

func TestValidateShortEpisode(t *testing.T) {
	segments := turns(
		"ALEX: Hi, I'm Alex, your AI host.",
		"MAYA: And I'm Maya.",
		"ALEX: Agents plan.",
		"MAYA: Agents act.",
		"ALEX: Bye.",
	)
	v := Validate(segments, englishPack(t))
	if v.Valid {
		t.Fatalf("five spoken turns should be too short")
	}
	if len(v.Warnings) != 1 || !strings.Contains(v.Warnings[0], "too short: only 5 spoken segments") {
		t.Fatalf("unexpected warnings %v", v.Warnings)
	}
	if v.Stats.SpokenSegments != 5 || v.Stats.TotalWords != 14 {
		t.Fatalf("unexpected stats %+v", v.Stats)
	}
}

func TestValidateWarnings(t *testing.T) {
	segments := turns(
		"MUSIC: [INTRO MUSIC]",
		"ALEX: Hi, I'm Alex.",
		"MAYA: And I'm Maya.",
		"ALEX: Yes, I'm Alex again.",
		"MAYA: Agents plan their work.",
		"ALEX: They call tools.",
		"MAYA: They keep memory.",
		"ALEX: They need guardrails.",
		"MAYA: Welcome to AI Builders, where we turn AI concepts into real-world solutions. I'm Alex.",
		"ALEX: See you next time.",
	)
	v := Validate(segments, englishPack(t))
	if !v.Valid {
		t.Fatalf("nine spoken turns should be long enough")
	}
	want := []string{
		"Potential duplicate introduction for ALEX",
		"Missing AI host disclosure in introduction",
		"Segment 8 repeats the standard introduction",
	}
	if !reflect.DeepEqual(v.Warnings, want) {
		t.Fatalf("warnings = %v, want %v", v.Warnings, want)
	}
}

func TestValidateStandardIntroIsClean(t *testing.T) {
	pack := englishPack(t)
	segments := append(pack.IntroSegments(), turns(
		"ALEX: Agents plan their work.",
		"MAYA: They call tools.",
		"ALEX: They keep memory.",
		"MAYA: They need guardrails.",
	)...)
	segments = append(segments, pack.OutroSegments()...)

	v := Validate(segments, pack)
	if !v.Valid || len(v.Warnings) != 0 {
		t.Fatalf("unexpected validation %+v", v)
	}
	if v.Stats.EstimatedMinutes <= 0 {
		t.Fatalf("expected a duration estimate, got %+v", v.Stats)
	}
}

func TestStandardSectionMatching(t *testing.T) {
	pack := englishPack(t)
	intro, outro := pack.IntroSegments(), pack.OutroSegments()
	body := turns("ALEX: One.", "MAYA: Two.")

	full := append(append(append([]dialogue.Segment{}, intro...), body...), outro...)
	if got := leading(full, intro); got != len(intro) {
		t.Fatalf("leading = %d, want %d", got, len(intro))
	}
	if got := trailing(full, outro); got != len(outro) {
		t.Fatalf("trailing = %d, want %d", got, len(outro))
	}
	if got := leading(body, intro); got != 0 {
		t.Fatalf("a dialogue without the intro should not match, got %d", got)
	}
	partial := append(append([]dialogue.Segment{}, intro[:2]...), body...)
	if got := leading(partial, intro); got != 0 {
		t.Fatalf("a partial intro should not match, got %d", got)
	}
}

func TestSecondaryLanguagesDropPrimaryAndDuplicates(t *testing.T) {
	ec := EpisodeContext{SecondaryLanguages: []string{"Tamil", "english", "hindi", "tamil"}}
	got := secondaryLanguages(ec, "english", language.MustDefault())
	if want := []string{"tamil", "hindi"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("secondaryLanguages = %v, want %v", got, want)
	}
}
