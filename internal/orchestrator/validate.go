package orchestrator

import (
	"fmt"
	"strings"

	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
	"github.com/revathi-prasad/ai-builders-podcast/internal/textutil"
)

const (
	minSpokenSegments = 8
	wordsPerMinute    = 150
	introScanWindow   = 6
	disclosureWindow  = 4
	repeatSimilarity  = 0.8
)

// Stats summarizes the length of a dialogue.
type Stats struct {
	TotalSegments      int     `json:"total_segments"`
	SpokenSegments     int     `json:"spoken_segments"`
	TotalWords         int     `json:"total_words"`
	AvgWordsPerSegment float64 `json:"avg_words_per_segment"`
	EstimatedMinutes   float64 `json:"estimated_duration_minutes"`
}

// Validation is the structural check of an episode. Valid is false only for
// episodes that are too short; other findings are warnings.
type Validation struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
	Stats    Stats    `json:"stats"`
}

// Validate checks length, duplicate host introductions, the AI host
// disclosure and body turns that repeat the standard introduction.
func Validate(segments []dialogue.Segment, pack *language.Pack) Validation {
	v := Validation{Valid: true, Warnings: []string{}}

	spoken := dialogue.Spoken(segments)
	if spoken < minSpokenSegments {
		v.Valid = false
		v.Warnings = append(v.Warnings, fmt.Sprintf("Episode may be too short: only %d spoken segments", spoken))
	}

	introduced := map[string]bool{}
	for _, seg := range segments[:min(introScanWindow, len(segments))] {
		if seg.IsMusic() {
			continue
		}
		text := strings.ToLower(seg.Text)
		if strings.Contains(text, "i'm") && strings.Contains(text, strings.ToLower(seg.Speaker)) {
			if introduced[seg.Speaker] {
				v.Warnings = append(v.Warnings, fmt.Sprintf("Potential duplicate introduction for %s", seg.Speaker))
			}
			introduced[seg.Speaker] = true
		}
	}

	if !hasDisclosure(segments[:min(disclosureWindow, len(segments))], pack) {
		v.Warnings = append(v.Warnings, "Missing AI host disclosure in introduction")
	}

	v.Warnings = append(v.Warnings, repeatedIntroductions(segments, pack)...)

	words := dialogue.Words(segments)
	v.Stats = Stats{
		TotalSegments:      len(segments),
		SpokenSegments:     spoken,
		TotalWords:         words,
		AvgWordsPerSegment: float64(words) / float64(max(1, spoken)),
		EstimatedMinutes:   float64(words) / wordsPerMinute,
	}
	return v
}

func hasDisclosure(segments []dialogue.Segment, pack *language.Pack) bool {
	for _, seg := range segments {
		if seg.IsMusic() {
			continue
		}
		text := strings.ToLower(seg.Text)
		for _, term := range pack.AIDisclosure {
			if strings.Contains(text, strings.ToLower(term)) {
				return true
			}
		}
	}
	return false
}

// repeatedIntroductions flags body turns whose wording is close to a line of
// the standard intro, which usually means the model re-introduced the show.
func repeatedIntroductions(segments []dialogue.Segment, pack *language.Pack) []string {
	intro := pack.IntroSegments()
	var lines []textutil.Terms
	for _, seg := range intro {
		if terms := textutil.NewTerms(seg.Text); !seg.IsMusic() && terms.Len() > 0 {
			lines = append(lines, terms)
		}
	}
	if len(lines) == 0 || len(segments) <= len(intro) {
		return nil
	}

	var warnings []string
	for i := len(intro); i < len(segments); i++ {
		if segments[i].IsMusic() {
			continue
		}
		terms := textutil.NewTerms(segments[i].Text)
		for _, line := range lines {
			if terms.Similarity(line) >= repeatSimilarity {
				warnings = append(warnings, fmt.Sprintf("Segment %d repeats the standard introduction", i))
				break
			}
		}
	}
	return warnings
}
