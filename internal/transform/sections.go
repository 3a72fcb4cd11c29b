package transform

import (
	"strings"

	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
)

const (
	markerWindow   = 10
	fallbackWindow = 5
)

const (
	introCue = "[INTRO MUSIC"
	outroCue = "[OUTRO MUSIC"
)

// contentBounds locates the content between the standard intro and outro.
// The intro starts at the first intro music cue and ends after the next
// non-outro cue within markerWindow segments; the outro starts at the last
// non-intro cue within markerWindow segments before the last outro cue.
// Without a closing cue, or without any marker, the first and last
// fallbackWindow segments are taken. The result satisfies
// 0 <= start <= end <= len(segments).
func contentBounds(segments []dialogue.Segment) (start, end int) {
	n := len(segments)
	start = min(fallbackWindow, n)
	end = max(0, n-fallbackWindow)

	for i, seg := range segments {
		if !isCue(seg, introCue) {
			continue
		}
		for j := i + 1; j < min(i+markerWindow, n); j++ {
			if segments[j].IsMusic() && !isCue(segments[j], outroCue) {
				start = j + 1
				break
			}
		}
		break
	}

	for i := n - 1; i >= 0; i-- {
		if !isCue(segments[i], outroCue) {
			continue
		}
		for j := i - 1; j > max(0, i-markerWindow); j-- {
			if segments[j].IsMusic() && !isCue(segments[j], introCue) {
				end = j
				break
			}
		}
		break
	}

	if start > end {
		end = start
	}
	return start, end
}

func isCue(seg dialogue.Segment, prefix string) bool {
	return seg.IsMusic() && strings.HasPrefix(strings.ToUpper(strings.TrimSpace(seg.Text)), prefix)
}

// ExtractContent returns a copy of the segments between the standard intro
// and outro.
func ExtractContent(segments []dialogue.Segment) []dialogue.Segment {
	start, end := contentBounds(segments)
	return dialogue.Clone(segments[start:end])
}

// Frame wraps content in the pack's standard intro and outro and renumbers
// the result.
func Frame(content []dialogue.Segment, pack *language.Pack) []dialogue.Segment {
	framed := pack.IntroSegments()
	framed = append(framed, dialogue.Clone(content)...)
	framed = append(framed, pack.OutroSegments()...)
	return dialogue.Renumber(framed)
}
