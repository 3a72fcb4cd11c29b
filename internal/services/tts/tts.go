// Package tts defines the text-to-speech contract used by the audio pipeline.
// The ElevenLabs implementation lives in the elevenlabs subpackage.
package tts

import (
	"context"
	"fmt"
	"strings"
)

// Settings are the per-request voice parameters.
type Settings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Request is a single synthesis call.
type Request struct {
	VoiceID  string
	Text     string
	ModelID  string
	Settings Settings
}

// Synthesizer renders text to MP3 bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// StatusError is a non-200 reply from a TTS service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tts request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}
