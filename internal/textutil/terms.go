package textutil

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// nonWord matches runs of characters that cannot be part of a word.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\p{M}]+`)

const minTokenRunes = 2

// Tokenize lowercases text and splits it into words of at least two runes.
func Tokenize(text string) []string {
	raw := nonWord.Split(strings.ToLower(text), -1)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if utf8.RuneCountInString(w) >= minTokenRunes {
			words = append(words, w)
		}
	}
	return words
}

// Terms is the word frequency vector of a dialogue line.
type Terms map[string]float64

// NewTerms counts the words of text. The result is empty when text has no
// usable words.
func NewTerms(text string) Terms {
	terms := Terms{}
	for _, w := range Tokenize(text) {
		terms[w]++
	}
	return terms
}

// Len returns the number of distinct words.
func (t Terms) Len() int { return len(t) }

func (t Terms) norm() float64 {
	var sum float64
	for _, n := range t {
		sum += n * n
	}
	return math.Sqrt(sum)
}

// Similarity is the cosine of the angle between two vectors: 1 for the same
// wording, 0 when no word is shared or either side is empty.
func (t Terms) Similarity(other Terms) float64 {
	if len(t) == 0 || len(other) == 0 {
		return 0
	}
	small, large := t, other
	if len(large) < len(small) {
		small, large = large, small
	}
	var dot float64
	for w, n := range small {
		dot += n * large[w]
	}
	if dot == 0 {
		return 0
	}
	return dot / (t.norm() * other.norm())
}
