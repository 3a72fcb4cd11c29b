package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
	"github.com/revathi-prasad/ai-builders-podcast/internal/transform"
)

const transformConcurrency = 2

// transformAll renders segments into every secondary language. Results keep
// the requested language order.
func (o *Orchestrator) transformAll(ctx context.Context, r *run, segments []dialogue.Segment) ([]Transformation, error) {
	langs := secondaryLanguages(r.ec, r.pack.Code, o.packs)
	if len(langs) == 0 {
		return nil, nil
	}

	out := make([]Transformation, len(langs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(transformConcurrency)
	for i, lang := range langs {
		g.Go(func() error {
			result, err := r.transform.Transform(services.WithLanguage(gctx, lang), transform.Request{
				Segments:                 segments,
				Source:                   r.pack.Code,
				Target:                   lang,
				Topic:                    r.ec.Topic,
				Tier:                     r.ec.Tier,
				Reference:                r.ec.Reference,
				PreserveStandardSections: r.ec.PreserveStandardSections,
			})
			if err != nil {
				return err
			}
			id := episodeID(r.ec.EpisodeNumber, lang)
			text := dialogue.Format(result.Transformed)
			o.saveTranscript(gctx, r, id, lang, text)
			out[i] = Transformation{
				Result:         result,
				EpisodeID:      id,
				TranscriptFile: o.writeText(r, o.transcriptPath(r.ec, episodeStem, lang), text),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, t := range out {
		r.logger.Info("secondary language ready",
			logging.String(logging.FieldEventType, "transformation_complete"),
			logging.String("target_language", t.Target),
			logging.Float64("score", t.Score),
			logging.Bool("retried", t.Retried),
			logging.Bool("cached", t.Cached),
		)
	}
	return out, nil
}
