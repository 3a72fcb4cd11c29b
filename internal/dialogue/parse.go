package dialogue

import (
	"strings"
)

// Parse scans text for lines that start with one of speakers followed by a
// colon, ignoring case. Lines that match no speaker continue the previous
// segment. Speaker labels in the result are uppercase; timestamps count up
// from zero.
func Parse(text string, speakers []string) []Segment {
	return parseLines(text, speakers, false)
}

// ParseScript is Parse for model replies that may also carry music cues.
// A bracketed line mentioning MUSIC, bare or after a "MUSIC:" prefix, ends
// the current segment and becomes a cue of its own.
func ParseScript(text string, speakers []string) []Segment {
	return parseLines(text, speakers, true)
}

func parseLines(text string, speakers []string, cues bool) []Segment {
	labels := make([]string, 0, len(speakers))
	seen := map[string]bool{}
	for _, s := range speakers {
		label := strings.ToUpper(strings.TrimSpace(s))
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}

	var (
		segments []Segment
		current  *Segment
	)
	flush := func() {
		if current != nil && strings.TrimSpace(current.Text) != "" {
			current.Text = strings.TrimSpace(current.Text)
			current.Timestamp = len(segments)
			segments = append(segments, *current)
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if cues {
			if cue, ok := musicLine(line); ok {
				flush()
				segments = append(segments, Segment{Speaker: Music, Text: cue, Timestamp: len(segments)})
				continue
			}
		}
		if speaker, rest, ok := matchSpeaker(line, labels); ok {
			flush()
			current = &Segment{Speaker: speaker, Text: rest}
			continue
		}
		if current != nil {
			if current.Text == "" {
				current.Text = line
			} else {
				current.Text += " " + line
			}
		}
	}
	flush()
	return segments
}

func matchSpeaker(line string, labels []string) (string, string, bool) {
	for _, label := range labels {
		prefix := label + ":"
		if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
			return label, strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", "", false
}

// ParseTranscript reads a human-written transcript. Bracketed lines that
// mention MUSIC become music cues; other lines containing a colon are split
// once into speaker and text. Remaining lines are ignored.
func ParseTranscript(text string) []Segment {
	var segments []Segment
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isMusicCue(line) {
			segments = append(segments, Segment{Speaker: Music, Text: line, Timestamp: len(segments)})
			continue
		}
		speaker, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		speaker = strings.ToUpper(strings.TrimSpace(speaker))
		rest = strings.TrimSpace(rest)
		if speaker == "" || rest == "" {
			continue
		}
		segments = append(segments, Segment{Speaker: speaker, Text: rest, Timestamp: len(segments)})
	}
	return segments
}

// ParseSections splits an authored standard section into segments. Paragraphs
// are separated by blank lines; a paragraph that starts with "[" and mentions
// MUSIC is a music cue kept verbatim.
func ParseSections(text string) []Segment {
	var segments []Segment
	for _, para := range Paragraphs(text) {
		if strings.HasPrefix(para, "[") && strings.Contains(strings.ToUpper(para), Music) {
			segments = append(segments, Segment{Speaker: Music, Text: para, Timestamp: len(segments)})
			continue
		}
		speaker, rest, ok := strings.Cut(para, ":")
		if !ok {
			continue
		}
		segments = append(segments, Segment{
			Speaker:   strings.ToUpper(strings.TrimSpace(speaker)),
			Text:      strings.TrimSpace(rest),
			Timestamp: len(segments),
		})
	}
	return segments
}

// Paragraphs splits text on blank lines, trimming each paragraph and dropping empties.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		if p := strings.TrimSpace(para); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func musicLine(line string) (string, bool) {
	if isMusicCue(line) {
		return line, true
	}
	prefix := Music + ":"
	if len(line) > len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
		if rest := strings.TrimSpace(line[len(prefix):]); isMusicCue(rest) {
			return rest, true
		}
	}
	return "", false
}

func isMusicCue(line string) bool {
	return strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") &&
		strings.Contains(strings.ToUpper(line), Music)
}
