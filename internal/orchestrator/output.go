package orchestrator

import (
	"fmt"
	"path/filepath"

	"github.com/revathi-prasad/ai-builders-podcast/internal/fileutil"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/textutil"
)

type stem int

const (
	episodeStem stem = iota
	summaryStem
)

func episodeID(number int, lang string) string {
	return fmt.Sprintf("ep%02d_%s", number, lang)
}

func summaryID(number int, lang string) string {
	return fmt.Sprintf("ep%02d_summary_%s", number, lang)
}

// fileStem is the shared prefix of every file a run writes, e.g.
// "ep03_AI_agents" or "ep03_summary_AI_agents".
func fileStem(ec EpisodeContext, kind stem) string {
	slug := textutil.Slug(ec.Topic)
	if kind == summaryStem {
		return fmt.Sprintf("ep%02d_summary_%s", ec.EpisodeNumber, slug)
	}
	return fmt.Sprintf("ep%02d_%s", ec.EpisodeNumber, slug)
}

func (o *Orchestrator) transcriptPath(ec EpisodeContext, kind stem, lang string) string {
	return filepath.Join(o.cfg.Paths.TranscriptsDir, fileStem(ec, kind)+"_"+lang+".txt")
}

func (o *Orchestrator) audioPath(ec EpisodeContext, kind stem, lang string) string {
	return filepath.Join(o.cfg.Paths.OutputDir, fileStem(ec, kind)+"_"+lang+".mp3")
}

func (o *Orchestrator) researchPath(ec EpisodeContext) string {
	return filepath.Join(o.cfg.Paths.TranscriptsDir, fileStem(ec, episodeStem)+"_research.md")
}

// writeText writes text to path and returns the path, or "" when the write
// failed. File output never fails a run.
func (o *Orchestrator) writeText(r *run, path, text string) string {
	if err := fileutil.WriteFileAtomic(path, []byte(text), 0o644); err != nil {
		logging.WarnWithContext(r.logger, "output file not written", "output_write_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the result is only available in the cache"),
			logging.String(logging.FieldErrorHint, "check paths.transcripts_dir permissions"),
		)
		return ""
	}
	return path
}
