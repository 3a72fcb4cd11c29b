package orchestrator

import (
	"context"

	"github.com/revathi-prasad/ai-builders-podcast/internal/audio"
	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
)

// renderAudio voices segments in the primary language and merges the clips
// into output. It returns the merged path, or "" when nothing was produced.
func (o *Orchestrator) renderAudio(ctx context.Context, r *run, segments []dialogue.Segment, output string, out primaryOutput) string {
	pipeline := audio.NewPipeline(o.cfg, o.synth, o.store,
		audio.WithLogger(r.logger),
		audio.WithMetrics(o.metrics),
		audio.WithModel(o.cfg.VoiceModelFor(r.ec.Tier)),
	)

	// A prerecorded section replaces the spoken standard lines it covers.
	head, tail := 0, 0
	if out.standardSlots {
		if out.intro && pipeline.QueueStandardIntro(r.pack.Code) {
			head = leading(segments, r.pack.IntroSegments())
		}
		if out.outro && pipeline.QueueStandardOutro(r.pack.Code) {
			tail = trailing(segments, r.pack.OutroSegments())
		}
	}

	for i, seg := range segments {
		if seg.IsMusic() || i < head || i >= len(segments)-tail {
			continue
		}
		voice, ok := r.pack.VoiceFor(seg.Speaker)
		if !ok {
			voice, ok = r.pack.VoiceFor(r.pack.MapHost(seg.Speaker))
		}
		if !ok {
			logging.WarnWithContext(r.logger, "no voice for speaker", "voice_missing",
				logging.String("speaker", seg.Speaker),
				logging.Int("sequence", seg.Timestamp),
				logging.String(logging.FieldImpact, "this turn is not voiced"),
			)
			continue
		}
		pipeline.Queue(seg.Text, voice, seg.Timestamp)
	}

	clips := pipeline.ProcessBatch(ctx)
	spent, _ := pipeline.LastBatchCost()
	r.addTTS(spent)

	merged, err := o.merger.Merge(ctx, clips, output, r.pack.Code)
	if err != nil {
		logging.ErrorWithContext(r.logger, "episode audio merge failed", "audio_merge_failed",
			logging.String("output", output),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the transcript is produced without audio"),
			logging.String(logging.FieldErrorHint, "check that ffmpeg is installed and audio.ffmpeg_binary"),
		)
		return ""
	}
	return merged
}

// leading counts how many of the first segments match section, in order.
func leading(segments, section []dialogue.Segment) int {
	n := 0
	for n < len(segments) && n < len(section) && sameTurn(segments[n], section[n]) {
		n++
	}
	if n < len(section) {
		return 0
	}
	return n
}

// trailing is leading for the end of the dialogue.
func trailing(segments, section []dialogue.Segment) int {
	n := 0
	for n < len(segments) && n < len(section) &&
		sameTurn(segments[len(segments)-1-n], section[len(section)-1-n]) {
		n++
	}
	if n < len(section) {
		return 0
	}
	return n
}

func sameTurn(a, b dialogue.Segment) bool {
	return a.Speaker == b.Speaker && a.Text == b.Text
}
