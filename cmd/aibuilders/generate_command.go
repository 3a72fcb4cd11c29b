package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
	"github.com/revathi-prasad/ai-builders-podcast/internal/metrics"
	"github.com/revathi-prasad/ai-builders-podcast/internal/orchestrator"
	"github.com/revathi-prasad/ai-builders-podcast/internal/personality"
	"github.com/revathi-prasad/ai-builders-podcast/internal/reference"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/llm"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/tts"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/tts/elevenlabs"
)

type generateOptions struct {
	topic          string
	language       string
	episodeType    string
	tier           string
	duration       int
	episodeNumber  int
	noIntro        bool
	noOutro        bool
	transcriptOnly bool
	useTranscript  string
	reference      string
	secondary      []string
	preserve       bool
	outputDir      string
	culturalFocus  string
	research       bool
	jsonOutput     bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an episode transcript, its translations and audio",
		Example: `  aibuilders generate --topic "AI agents" --type build --episode-number 2
  aibuilders generate --topic "AI agents" --use-transcript script.txt --secondary-languages hindi,tamil
  aibuilders generate --topic "AI agents" --type summary --episode-number 2 --language hindi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.topic, "topic", "", "Episode topic (required)")
	flags.StringVar(&opts.language, "language", "english", "Primary language")
	flags.StringVar(&opts.episodeType, "type", string(personality.Introduction),
		"Episode type: introduction, build, conversation, interview, summary, quick_tip")
	flags.StringVar(&opts.tier, "cost-tier", config.TierStandard, "Cost tier: economy, standard, premium")
	flags.IntVar(&opts.duration, "duration", 20, "Target duration in minutes")
	flags.IntVar(&opts.episodeNumber, "episode-number", 0, "Episode number")
	flags.BoolVar(&opts.noIntro, "no-intro", false, "Skip the standard intro")
	flags.BoolVar(&opts.noOutro, "no-outro", false, "Skip the standard outro")
	flags.BoolVar(&opts.transcriptOnly, "transcript-only", false, "Write transcripts without synthesizing audio")
	flags.StringVar(&opts.useTranscript, "use-transcript", "", "Use a prewritten transcript file as the primary dialogue")
	flags.StringVar(&opts.reference, "reference-material", "", "Reference material file path or http(s) URL")
	flags.StringSliceVar(&opts.secondary, "secondary-languages", nil, "Comma-separated languages to transform into")
	flags.BoolVar(&opts.preserve, "preserve-standard-sections", false, "Transform only the content between the standard intro and outro")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Directory for merged episode audio (overrides paths.output_dir)")
	flags.StringVar(&opts.culturalFocus, "cultural-focus", "", "Regional focus for examples, e.g. Mumbai")
	flags.BoolVar(&opts.research, "research", false, "Scan the configured research feeds for the topic")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print the episode report as JSON")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, opts generateOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if dir := strings.TrimSpace(opts.outputDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return fmt.Errorf("resolve output dir: %w", err)
		}
		cfg.Paths.OutputDir = expanded
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	packs, err := language.Default()
	if err != nil {
		return err
	}

	ec := orchestrator.EpisodeContext{
		Topic:                    strings.TrimSpace(opts.topic),
		PrimaryLanguage:          language.Normalize(opts.language),
		SecondaryLanguages:       language.NormalizeList(opts.secondary, ""),
		Type:                     personality.EpisodeType(strings.ToLower(strings.TrimSpace(opts.episodeType))),
		DurationMinutes:          opts.duration,
		Tier:                     strings.ToLower(strings.TrimSpace(opts.tier)),
		CulturalFocus:            opts.culturalFocus,
		EpisodeNumber:            opts.episodeNumber,
		IncludeIntro:             !opts.noIntro,
		IncludeOutro:             !opts.noOutro,
		TranscriptOnly:           opts.transcriptOnly,
		TranscriptPath:           strings.TrimSpace(opts.useTranscript),
		PreserveStandardSections: opts.preserve,
		Research:                 opts.research,
	}
	if err := ec.Validate(packs); err != nil {
		return err
	}

	var provider llm.Provider
	if ec.NeedsModel(packs) {
		if provider, err = llm.New(cfg); err != nil {
			return err
		}
	}
	var synth tts.Synthesizer
	if !ec.TranscriptOnly {
		if err := cfg.RequireTTSKey(); err != nil {
			return services.Wrap(services.ErrConfiguration, "cli", "generate", "", err)
		}
		synth = elevenlabs.NewFromConfig(cfg)
	}

	if opts.reference != "" {
		ec.Reference, err = reference.NewLoader(nil).Load(cmd.Context(), opts.reference)
		if err != nil {
			return err
		}
	}

	lock, err := acquireRunLock(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	recorder := metrics.New()
	store, err := ctx.openStore(recorder)
	if err != nil {
		return err
	}
	defer store.Close()

	o := orchestrator.New(cfg, provider, synth, store, packs,
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(recorder),
	)
	ep, err := o.CreateEpisode(cmd.Context(), ec)
	if err != nil {
		return err
	}
	if opts.jsonOutput {
		return writeJSON(cmd, newEpisodeReport(ep))
	}
	printEpisode(cmd.OutOrStdout(), ep)
	return nil
}

// episodeReport is the JSON shape of a finished run.
type episodeReport struct {
	ID              string                  `json:"episode_id"`
	SessionID       string                  `json:"session_id"`
	Language        string                  `json:"language"`
	Type            string                  `json:"episode_type"`
	Topic           string                  `json:"topic"`
	PodcastTitle    string                  `json:"podcast_title"`
	TranscriptFile  string                  `json:"transcript_file,omitempty"`
	AudioFile       string                  `json:"audio_file,omitempty"`
	ResearchFile    string                  `json:"research_file,omitempty"`
	SourceEpisodeID string                  `json:"original_episode_id,omitempty"`
	Transformations []transformationReport  `json:"transformations,omitempty"`
	Validation      orchestrator.Validation `json:"validation"`
	DurationSeconds float64                 `json:"duration_seconds"`
	Cost            map[string]float64      `json:"cost"`
	BudgetWarnings  []string                `json:"budget_warnings,omitempty"`
}

type transformationReport struct {
	Language       string   `json:"language"`
	EpisodeID      string   `json:"episode_id"`
	TranscriptFile string   `json:"transcript_file,omitempty"`
	Score          float64  `json:"naturalness_score"`
	Retried        bool     `json:"retried"`
	Cached         bool     `json:"cached"`
	Adaptations    []string `json:"adaptations,omitempty"`
}

func newEpisodeReport(ep orchestrator.Episode) episodeReport {
	report := episodeReport{
		ID:              ep.ID,
		SessionID:       ep.SessionID,
		Language:        ep.Language,
		Type:            string(ep.Type),
		Topic:           ep.Topic,
		PodcastTitle:    ep.PodcastTitle,
		TranscriptFile:  ep.TranscriptFile,
		AudioFile:       ep.AudioFile,
		ResearchFile:    ep.ResearchFile,
		SourceEpisodeID: ep.SourceEpisodeID,
		Validation:      ep.Validation,
		DurationSeconds: ep.DurationSeconds,
		Cost: map[string]float64{
			"llm_cost":   ep.Cost.LLM,
			"tts_cost":   ep.Cost.TTS,
			"total_cost": ep.Cost.Total(),
			"daily_cost": ep.DailyCost,
		},
		BudgetWarnings: ep.BudgetWarnings,
	}
	for _, t := range ep.Transformations {
		report.Transformations = append(report.Transformations, transformationReport{
			Language:       t.Target,
			EpisodeID:      t.EpisodeID,
			TranscriptFile: t.TranscriptFile,
			Score:          t.Score,
			Retried:        t.Retried,
			Cached:         t.Cached,
			Adaptations:    t.Adaptations,
		})
	}
	return report
}

func printEpisode(out io.Writer, ep orchestrator.Episode) {
	heading(out, ep.PodcastTitle)
	fmt.Fprintf(out, "Episode:    %s (%s)\n", ep.ID, ep.Type)
	fmt.Fprintf(out, "Topic:      %s\n", ep.Topic)
	fmt.Fprintf(out, "Session:    %s\n", ep.SessionID)
	fmt.Fprintf(out, "Transcript: %s\n", valueOrDash(ep.TranscriptFile))
	fmt.Fprintf(out, "Audio:      %s\n", valueOrDash(ep.AudioFile))
	if ep.ResearchFile != "" {
		fmt.Fprintf(out, "Research:   %s\n", ep.ResearchFile)
	}
	if ep.SourceEpisodeID != "" {
		fmt.Fprintf(out, "Summarizes: %s\n", ep.SourceEpisodeID)
	}
	fmt.Fprintln(out)

	stats := ep.Validation.Stats
	fmt.Fprintln(out, renderTable(
		[]string{"Segments", "Spoken", "Words", "Avg words", "Est. minutes"},
		[][]string{{
			strconv.Itoa(stats.TotalSegments),
			strconv.Itoa(stats.SpokenSegments),
			strconv.Itoa(stats.TotalWords),
			strconv.FormatFloat(stats.AvgWordsPerSegment, 'f', 1, 64),
			strconv.FormatFloat(stats.EstimatedMinutes, 'f', 1, 64),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
	))

	if len(ep.Transformations) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(ep.Transformations))
		for _, t := range ep.Transformations {
			rows = append(rows, []string{
				t.Target,
				strconv.FormatFloat(t.Score, 'f', 2, 64),
				yesNo(t.Retried),
				yesNo(t.Cached),
				valueOrDash(t.TranscriptFile),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Language", "Score", "Retried", "Cached", "Transcript"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
		))
	}

	if len(ep.Validation.Warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Warnings:")
		for _, w := range ep.Validation.Warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Cost: LLM %s, TTS %s, total %s (today %s)\n",
		usd(ep.Cost.LLM), usd(ep.Cost.TTS), usd(ep.Cost.Total()), usd(ep.DailyCost))
	for _, w := range ep.BudgetWarnings {
		fmt.Fprintf(out, "Budget: %s\n", w)
	}
}
