package transform

import (
	"strings"
	"unicode"

	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
)

// RetryThreshold is the naturalness score below which one stricter retry runs.
const RetryThreshold = 0.8

// explanationMarkers are the native "that is" words that accompany an
// inline explanation of a technical term.
var explanationMarkers = []string{"यानी", "अर्थात्", "मतलब", "அதாவது"}

// Quality holds the word counts behind a naturalness score.
type Quality struct {
	Words     int
	English   int
	Technical int
	Explained int
}

// Measure counts words in spoken segments. A word is stray English when,
// with punctuation removed, it is plain ASCII letters and not on the pack's
// acceptable list; Latin-script languages have no stray English. A segment
// that mentions a terminology term counts once as technical, and once as
// explained when it also carries an explanation marker.
func Measure(segments []dialogue.Segment, pack *language.Pack) Quality {
	var q Quality
	for _, seg := range segments {
		if seg.IsMusic() {
			continue
		}
		words := strings.Fields(seg.Text)
		q.Words += len(words)
		if !pack.LatinScript() {
			for _, w := range words {
				if strayEnglish(w, pack) {
					q.English++
				}
			}
		}
		if mentionsTerm(seg.Text, pack) {
			q.Technical++
			if hasExplanation(seg.Text) {
				q.Explained++
			}
		}
	}
	return q
}

// EnglishRatio is the share of words that are stray English.
func (q Quality) EnglishRatio() float64 {
	if q.Words == 0 {
		return 0
	}
	return float64(q.English) / float64(q.Words)
}

// Score combines the English penalty and the explanation ratio:
// 0.7 * max(0, 1 - 10*english_ratio) + 0.3 * explained/technical.
// A dialogue with no words scores zero.
func (q Quality) Score() float64 {
	if q.Words == 0 {
		return 0
	}
	english := 1 - 10*q.EnglishRatio()
	if english < 0 {
		english = 0
	}
	explanation := 1.0
	if q.Technical > 0 {
		explanation = float64(q.Explained) / float64(q.Technical)
	}
	return english*0.7 + explanation*0.3
}

// Score returns the naturalness score of segments in pack's language.
func Score(segments []dialogue.Segment, pack *language.Pack) float64 {
	return Measure(segments, pack).Score()
}

func strayEnglish(word string, pack *language.Pack) bool {
	clean := strings.Map(wordRune, strings.ToLower(word))
	if clean == "" {
		return false
	}
	for _, r := range clean {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return !pack.IsAcceptable(clean)
}

func wordRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' {
		return r
	}
	return -1
}

func mentionsTerm(text string, pack *language.Pack) bool {
	lower := strings.ToLower(text)
	for _, term := range pack.Terminology {
		if strings.Contains(lower, strings.ToLower(term.Term)) {
			return true
		}
	}
	return false
}

func hasExplanation(text string) bool {
	for _, m := range explanationMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
