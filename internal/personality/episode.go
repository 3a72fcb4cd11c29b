package personality

import (
	"fmt"
	"strings"

	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
)

// EpisodeType selects the segment plan and length of an episode.
type EpisodeType string

const (
	Introduction EpisodeType = "introduction"
	Build        EpisodeType = "build"
	Conversation EpisodeType = "conversation"
	Interview    EpisodeType = "interview"
	Summary      EpisodeType = "summary"
	QuickTip     EpisodeType = "quick_tip"
)

// EpisodeTypes lists every recognised type in display order.
var EpisodeTypes = []EpisodeType{Introduction, Build, Conversation, Interview, Summary, QuickTip}

// ParseEpisodeType validates a user-supplied type name.
func ParseEpisodeType(value string) (EpisodeType, error) {
	v := EpisodeType(strings.ToLower(strings.TrimSpace(value)))
	v = EpisodeType(strings.ReplaceAll(string(v), "-", "_"))
	for _, t := range EpisodeTypes {
		if v == t {
			return t, nil
		}
	}
	names := make([]string, len(EpisodeTypes))
	for i, t := range EpisodeTypes {
		names[i] = string(t)
	}
	return "", services.Wrap(services.ErrConfiguration, "personality", "episode type",
		fmt.Sprintf("unknown episode type %q (expected one of %s)", value, strings.Join(names, ", ")), nil)
}

// Length is the requested shape of a generated episode.
type Length struct {
	Segments int
	MinWords int
	MaxWords int
}

var defaultLength = Length{Segments: 10, MinWords: 100, MaxWords: 150}

var lengths = map[EpisodeType]Length{
	Introduction: {Segments: 15, MinWords: 100, MaxWords: 150},
	Build:        {Segments: 15, MinWords: 80, MaxWords: 150},
	Conversation: {Segments: 20, MinWords: 100, MaxWords: 150},
}

// Tamil turns run longer; the same ideas take more words.
var languageLengths = map[string]map[EpisodeType]Length{
	"tamil": {
		Introduction: {Segments: 15, MinWords: 120, MaxWords: 180},
		Build:        {Segments: 15, MinWords: 100, MaxWords: 170},
		Conversation: {Segments: 20, MinWords: 120, MaxWords: 180},
	},
}

// LengthFor returns the episode shape for a language and type.
func LengthFor(language string, t EpisodeType) Length {
	if overrides, ok := languageLengths[language]; ok {
		if l, ok := overrides[t]; ok {
			return l
		}
	}
	if l, ok := lengths[t]; ok {
		return l
	}
	return defaultLength
}
