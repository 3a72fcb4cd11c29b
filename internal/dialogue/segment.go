// Package dialogue defines speaker-tagged dialogue segments and the parsers
// that turn model replies and transcripts into them.
package dialogue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Music is the speaker label of intro and outro music cues.
const Music = "MUSIC"

// Segment is one speaker turn or music cue. Timestamp orders segments within a
// dialogue; gaps are allowed.
type Segment struct {
	Speaker   string            `json:"speaker"`
	Text      string            `json:"text"`
	Timestamp int               `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// IsMusic reports whether the segment is a music cue.
func (s Segment) IsMusic() bool {
	return strings.EqualFold(s.Speaker, Music)
}

// Clone returns a deep copy of segments. The result shares no memory with the input.
func Clone(segments []Segment) []Segment {
	if segments == nil {
		return nil
	}
	out := make([]Segment, len(segments))
	for i, seg := range segments {
		out[i] = seg
		if seg.Metadata != nil {
			meta := make(map[string]string, len(seg.Metadata))
			for k, v := range seg.Metadata {
				meta[k] = v
			}
			out[i].Metadata = meta
		}
	}
	return out
}

// Renumber assigns timestamps 0..n-1 in slice order.
func Renumber(segments []Segment) []Segment {
	for i := range segments {
		segments[i].Timestamp = i
	}
	return segments
}

// Spoken counts the segments that are not music cues.
func Spoken(segments []Segment) int {
	n := 0
	for _, seg := range segments {
		if !seg.IsMusic() {
			n++
		}
	}
	return n
}

// Format renders segments as a transcript: music cues verbatim, everything
// else as "SPEAKER: text", separated by blank lines.
func Format(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.IsMusic() {
			parts = append(parts, seg.Text)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", seg.Speaker, seg.Text))
	}
	return strings.Join(parts, "\n\n")
}

type wireSegment struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp int    `json:"timestamp"`
}

// Fingerprint serializes the fields that identify a dialogue's content as a
// JSON array of {speaker, text, timestamp}. Metadata is excluded.
func Fingerprint(segments []Segment) string {
	wire := make([]wireSegment, len(segments))
	for i, seg := range segments {
		wire[i] = wireSegment{Speaker: seg.Speaker, Text: seg.Text, Timestamp: seg.Timestamp}
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Encode serializes segments, metadata included.
func Encode(segments []Segment) (string, error) {
	if segments == nil {
		segments = []Segment{}
	}
	data, err := json.Marshal(segments)
	if err != nil {
		return "", fmt.Errorf("encode dialogue: %w", err)
	}
	return string(data), nil
}

// Decode parses the output of Encode or Fingerprint.
func Decode(data string) ([]Segment, error) {
	var segments []Segment
	if err := json.Unmarshal([]byte(data), &segments); err != nil {
		return nil, fmt.Errorf("decode dialogue: %w", err)
	}
	return segments, nil
}

// Words counts whitespace-separated words across spoken segments.
func Words(segments []Segment) int {
	n := 0
	for _, seg := range segments {
		if seg.IsMusic() {
			continue
		}
		n += len(strings.Fields(seg.Text))
	}
	return n
}
