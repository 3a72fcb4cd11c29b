// Package cost estimates the USD spend of LLM and TTS calls.
//
// Estimates annotate cache rows and the cost ledger. They never decide whether
// a call is made.
package cost

import (
	"fmt"
	"strings"
)

// Per-unit rates in USD.
const (
	OpusPerToken    = 0.000015
	SonnetPerToken  = 0.000003
	DefaultPerToken = 0.00000025
	TTSPerCharacter = 0.00022
)

// LLM estimates the cost of tokens generated or consumed by model.
func LLM(tokens int, model string) float64 {
	if tokens <= 0 {
		return 0
	}
	return float64(tokens) * tokenRate(model)
}

func tokenRate(model string) float64 {
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "opus"):
		return OpusPerToken
	case strings.Contains(m, "sonnet"):
		return SonnetPerToken
	default:
		return DefaultPerToken
	}
}

// TTS estimates the cost of synthesizing chars characters.
func TTS(chars int) float64 {
	if chars <= 0 {
		return 0
	}
	return float64(chars) * TTSPerCharacter
}

// Budget holds advisory ceilings. A zero ceiling disables that check.
type Budget struct {
	MaxDaily   float64
	MaxEpisode float64
}

// Check returns a warning for each ceiling the spend exceeds.
func (b Budget) Check(daily, episode float64) []string {
	var warnings []string
	if b.MaxEpisode > 0 && episode > b.MaxEpisode {
		warnings = append(warnings, fmt.Sprintf("episode cost $%.2f exceeds budget $%.2f", episode, b.MaxEpisode))
	}
	if b.MaxDaily > 0 && daily > b.MaxDaily {
		warnings = append(warnings, fmt.Sprintf("daily cost $%.2f exceeds budget $%.2f", daily, b.MaxDaily))
	}
	return warnings
}

// Breakdown is the per-provider spend of one run.
type Breakdown struct {
	LLM float64 `json:"llm_cost"`
	TTS float64 `json:"tts_cost"`
}

// Total returns the combined spend.
func (b Breakdown) Total() float64 {
	return b.LLM + b.TTS
}

// Add returns the element-wise sum of two breakdowns.
func (b Breakdown) Add(other Breakdown) Breakdown {
	return Breakdown{LLM: b.LLM + other.LLM, TTS: b.TTS + other.TTS}
}
