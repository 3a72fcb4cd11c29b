package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/revathi-prasad/ai-builders-podcast/internal/cache"
	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/fileutil"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/metrics"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/llm"
	"github.com/revathi-prasad/ai-builders-podcast/internal/transform"
)

type transformOptions struct {
	transcript  string
	target      string
	topic       string
	extractOnly bool
	outputDir   string
	tier        string
	reference   string
}

func newTransformCommand(ctx *commandContext) *cobra.Command {
	var opts transformOptions

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform the content of an existing transcript into another language",
		Long: `Extract the content between the standard intro and outro of a transcript,
transform it into the target language and frame it with that language's
standard sections. Three files are written: content_only_<name>,
transformed_<language>_<name> and combined_<language>_<name>.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.transcript, "transcript", "", "Transcript file to transform (required)")
	flags.StringVar(&opts.target, "target-language", "", "Language to transform into (required)")
	flags.StringVar(&opts.topic, "topic", "", "Episode topic (required)")
	flags.BoolVar(&opts.extractOnly, "extract-only", false, "Only write the extracted content")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Directory for the output files (default paths.transcripts_dir)")
	flags.StringVar(&opts.tier, "cost-tier", config.TierStandard, "Cost tier: economy, standard, premium")
	flags.StringVar(&opts.reference, "reference-material", "", "Extra context appended to the transformation prompt")
	_ = cmd.MarkFlagRequired("transcript")
	_ = cmd.MarkFlagRequired("target-language")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func runTransform(cmd *cobra.Command, ctx *commandContext, opts transformOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	packs, err := language.Default()
	if err != nil {
		return err
	}
	target, err := packs.Get(opts.target)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "transform", "target language", err)
	}

	data, err := os.ReadFile(opts.transcript)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "transform", "read transcript", err)
	}
	segments := dialogue.ParseTranscript(string(data))
	if dialogue.Spoken(segments) == 0 {
		return services.Wrap(services.ErrConfiguration, "cli", "transform",
			fmt.Sprintf("%s has no speaker lines", opts.transcript), nil)
	}

	outDir := cfg.Paths.TranscriptsDir
	if dir := strings.TrimSpace(opts.outputDir); dir != "" {
		if outDir, err = config.ExpandPath(dir); err != nil {
			return fmt.Errorf("resolve output dir: %w", err)
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	base := filepath.Base(opts.transcript)
	out := cmd.OutOrStdout()

	content := transform.ExtractContent(segments)
	contentPath := filepath.Join(outDir, "content_only_"+base)
	if err := writeTranscript(contentPath, content); err != nil {
		return err
	}
	fmt.Fprintf(out, "Extracted %d of %d segments: %s\n", len(content), len(segments), contentPath)
	if opts.extractOnly {
		return nil
	}

	provider, err := llm.New(cfg)
	if err != nil {
		return err
	}
	source := sourceLanguage(base, packs)

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

	sessionID := uuid.NewString()
	runCtx := services.WithSessionID(cmd.Context(), sessionID)
	runCtx = services.WithLanguage(runCtx, target.Code)
	runLogger := logger.With(logging.String("session_id", sessionID))

	cached := llm.NewCached(provider, store, recorder, runLogger)
	engine := transform.NewEngine(cfg, cached, store, packs,
		transform.WithLogger(runLogger),
		transform.WithMetrics(recorder),
	)
	result, err := engine.Transform(runCtx, transform.Request{
		Segments:  content,
		Source:    source,
		Target:    target.Code,
		Topic:     strings.TrimSpace(opts.topic),
		Tier:      strings.ToLower(strings.TrimSpace(opts.tier)),
		Reference: opts.reference,
	})
	if err != nil {
		return err
	}

	transformedPath := filepath.Join(outDir, fmt.Sprintf("transformed_%s_%s", target.Code, base))
	if err := writeTranscript(transformedPath, result.Transformed); err != nil {
		return err
	}
	combinedPath := filepath.Join(outDir, fmt.Sprintf("combined_%s_%s", target.Code, base))
	if err := writeTranscript(combinedPath, transform.Frame(result.Transformed, target)); err != nil {
		return err
	}

	spent, tokens := cached.Spent()
	if err := store.RecordCost(runCtx, cache.CostRecord{
		SessionID: sessionID,
		LLMCost:   spent,
		Topic:     opts.topic,
		Language:  target.Code,
	}); err != nil {
		logging.WarnWithContext(runLogger, "cost not recorded", "cost_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "the daily ledger misses this run"),
		)
	}

	fmt.Fprintf(out, "Transformed %s -> %s (score %.2f, retried %s, cached %s): %s\n",
		source, target.Code, result.Score, yesNo(result.Retried), yesNo(result.Cached), transformedPath)
	fmt.Fprintf(out, "Combined with %s standard sections: %s\n", target.DisplayName, combinedPath)
	fmt.Fprintf(out, "Cost: %s for %d tokens\n", usd(spent), tokens)
	return nil
}

// sourceLanguage picks the first pack code named in the file name.
func sourceLanguage(name string, packs *language.Registry) string {
	lower := strings.ToLower(name)
	for _, code := range packs.Codes() {
		if strings.Contains(lower, code) {
			return code
		}
	}
	return "english"
}

func writeTranscript(path string, segments []dialogue.Segment) error {
	if err := fileutil.WriteFileAtomic(path, []byte(dialogue.Format(segments)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
