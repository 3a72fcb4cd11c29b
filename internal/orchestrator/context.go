package orchestrator

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
	"github.com/revathi-prasad/ai-builders-podcast/internal/personality"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
)

// EpisodeContext is the configuration of one episode request. It is passed
// by value and never modified by the orchestrator.
type EpisodeContext struct {
	Topic                    string
	PrimaryLanguage          string
	SecondaryLanguages       []string
	Type                     personality.EpisodeType
	DurationMinutes          int
	Tier                     string
	CulturalFocus            string
	EpisodeNumber            int
	IncludeIntro             bool
	IncludeOutro             bool
	TranscriptOnly           bool
	TranscriptPath           string
	Reference                string
	PreserveStandardSections bool
	// Research enables the feed scan for generated episodes. Episode zero
	// introductions never research.
	Research bool
}

// Validate reports every problem that would stop the run, joined into one
// configuration error.
func (c EpisodeContext) Validate(packs *language.Registry) error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(c.Topic) == "" {
		add("topic is required")
	}
	if _, err := packs.Get(c.PrimaryLanguage); err != nil {
		add("primary language: %w", err)
	}
	for _, lang := range c.SecondaryLanguages {
		if _, err := packs.Get(lang); err != nil {
			add("secondary language: %w", err)
		}
	}
	if _, err := personality.ParseEpisodeType(string(c.Type)); err != nil {
		add("episode type: %w", err)
	}
	if !slices.Contains(config.Tiers, c.Tier) {
		add("cost tier %q must be one of %s", c.Tier, strings.Join(config.Tiers, ", "))
	}
	if c.EpisodeNumber < 0 {
		add("episode number must be >= 0, got %d", c.EpisodeNumber)
	}
	if c.DurationMinutes < 0 {
		add("target duration must be >= 0, got %d", c.DurationMinutes)
	}
	if c.TranscriptPath != "" {
		if info, err := os.Stat(c.TranscriptPath); err != nil {
			add("transcript %s: %w", c.TranscriptPath, err)
		} else if info.IsDir() {
			add("transcript %s is a directory", c.TranscriptPath)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "orchestrator", "validate", "invalid episode request", errors.Join(problems...))
}

// NeedsModel reports whether the run calls the LLM at all. Only a
// transcript-driven run without secondary languages does not.
func (c EpisodeContext) NeedsModel(packs *language.Registry) bool {
	if c.TranscriptPath == "" {
		return true
	}
	primary, err := packs.Get(c.PrimaryLanguage)
	if err != nil {
		return true
	}
	return len(secondaryLanguages(c, primary.Code, packs)) > 0
}

// secondaryLanguages normalizes the secondary list, dropping the primary and
// duplicates while keeping request order.
func secondaryLanguages(c EpisodeContext, primary string, packs *language.Registry) []string {
	var out []string
	for _, lang := range c.SecondaryLanguages {
		p, err := packs.Get(lang)
		if err != nil || p.Code == primary || slices.Contains(out, p.Code) {
			continue
		}
		out = append(out, p.Code)
	}
	return out
}
