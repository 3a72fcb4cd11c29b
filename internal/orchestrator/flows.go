package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/revathi-prasad/ai-builders-podcast/internal/cache"
	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/personality"
	"github.com/revathi-prasad/ai-builders-podcast/internal/research"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
	"github.com/revathi-prasad/ai-builders-podcast/internal/transform"
)

const summaryReference = "This should be a summary episode extracting key insights from the original episode about '%s'. " +
	"Focus on the most important points and make it about 1/3 the length of the original."

// fromTranscript uses a prewritten transcript as the primary dialogue.
func (o *Orchestrator) fromTranscript(ctx context.Context, r *run) (Episode, error) {
	data, err := os.ReadFile(r.ec.TranscriptPath)
	if err != nil {
		return Episode{}, services.Wrap(services.ErrConfiguration, "orchestrator", "read transcript", r.ec.TranscriptPath, err)
	}
	segments := dialogue.ParseTranscript(string(data))
	if dialogue.Spoken(segments) == 0 {
		return Episode{}, services.Wrap(services.ErrConfiguration, "orchestrator", "read transcript",
			fmt.Sprintf("%s has no speaker lines", r.ec.TranscriptPath), nil)
	}
	r.logger.Info("transcript loaded",
		logging.String(logging.FieldEventType, "transcript_loaded"),
		logging.String("path", r.ec.TranscriptPath),
		logging.Int("segments", len(segments)),
	)
	return o.publish(ctx, r, segments, primaryOutput{standardSlots: false})
}

// fresh generates the body and frames it with the standard sections.
func (o *Orchestrator) fresh(ctx context.Context, r *run) (Episode, error) {
	ec := r.ec
	title := o.packs.LocalizeTitle(r.pack.Code)

	var res *research.Result
	if ec.Research && (ec.Type != personality.Introduction || ec.EpisodeNumber > 0) {
		found := o.researcher.Research(ctx, ec.Topic)
		res = &found
	}

	body, err := r.dialogue.GenerateEpisode(ctx, personality.EpisodeRequest{
		Language:        r.pack.Code,
		Type:            ec.Type,
		Topic:           ec.Topic,
		PodcastTitle:    title,
		EpisodeNumber:   ec.EpisodeNumber,
		Tier:            ec.Tier,
		DurationMinutes: ec.DurationMinutes,
		CulturalFocus:   ec.CulturalFocus,
		Research:        res,
		Reference:       ec.Reference,
	})
	if err != nil {
		return Episode{}, err
	}

	var segments []dialogue.Segment
	if ec.IncludeIntro {
		segments = append(segments, r.pack.IntroSegments()...)
	}
	segments = append(segments, body...)
	if ec.IncludeOutro {
		segments = append(segments, r.pack.OutroSegments()...)
	}
	dialogue.Renumber(segments)

	ep, err := o.publish(ctx, r, segments, primaryOutput{
		standardSlots: true,
		intro:         ec.IncludeIntro,
		outro:         ec.IncludeOutro,
	})
	if err != nil {
		return Episode{}, err
	}
	ep.PodcastTitle = title
	if res != nil {
		ep.Research = res
		if !res.Empty() {
			ep.ResearchFile = o.writeText(r, o.researchPath(ec), res.Markdown())
		}
	}
	return ep, nil
}

// summary condenses the stored primary transcript of the same episode number.
func (o *Orchestrator) summary(ctx context.Context, r *run) (Episode, error) {
	ec := r.ec
	sourceID := episodeID(ec.EpisodeNumber, r.pack.Code)
	stored, err := o.store.Transcript(ctx, sourceID)
	if err != nil {
		return Episode{}, services.Wrap(services.ErrNotFound, "orchestrator", "summary",
			fmt.Sprintf("no transcript stored for %s; generate the episode first", sourceID), err)
	}
	original := dialogue.ParseTranscript(stored.Text)

	result, err := r.transform.Transform(ctx, transform.Request{
		Segments:                 original,
		Source:                   r.pack.Code,
		Target:                   r.pack.Code,
		Topic:                    ec.Topic,
		Tier:                     ec.Tier,
		Reference:                fmt.Sprintf(summaryReference, ec.Topic),
		PreserveStandardSections: ec.PreserveStandardSections,
	})
	if err != nil {
		return Episode{}, err
	}

	segments := result.Transformed
	id := summaryID(ec.EpisodeNumber, r.pack.Code)
	text := dialogue.Format(segments)
	o.saveTranscript(ctx, r, id, r.pack.Code, text)

	ep := Episode{
		ID:              id,
		Language:        r.pack.Code,
		Type:            ec.Type,
		Topic:           ec.Topic,
		EpisodeNumber:   ec.EpisodeNumber,
		PodcastTitle:    o.packs.LocalizeTitle(r.pack.Code),
		Dialogue:        segments,
		Transcript:      text,
		TranscriptFile:  o.writeText(r, o.transcriptPath(ec, summaryStem, r.pack.Code), text),
		SourceEpisodeID: sourceID,
	}
	if !ec.TranscriptOnly {
		ep.AudioFile = o.renderAudio(ctx, r, segments, o.audioPath(ec, summaryStem, r.pack.Code), primaryOutput{
			standardSlots: true,
			intro:         true,
			outro:         true,
		})
	}
	o.check(r, &ep)
	return ep, nil
}

// primaryOutput controls how the primary dialogue is voiced.
type primaryOutput struct {
	// standardSlots queues the intro and outro slots around the clips.
	standardSlots bool
	intro, outro  bool
}

// publish saves, transforms, voices and checks the primary dialogue.
func (o *Orchestrator) publish(ctx context.Context, r *run, segments []dialogue.Segment, out primaryOutput) (Episode, error) {
	ec := r.ec
	id := episodeID(ec.EpisodeNumber, r.pack.Code)
	text := dialogue.Format(segments)
	o.saveTranscript(ctx, r, id, r.pack.Code, text)

	ep := Episode{
		ID:             id,
		Language:       r.pack.Code,
		Type:           ec.Type,
		Topic:          ec.Topic,
		EpisodeNumber:  ec.EpisodeNumber,
		PodcastTitle:   o.packs.LocalizeTitle(r.pack.Code),
		Dialogue:       segments,
		Transcript:     text,
		TranscriptFile: o.writeText(r, o.transcriptPath(ec, episodeStem, r.pack.Code), text),
	}

	transformations, err := o.transformAll(ctx, r, segments)
	if err != nil {
		return Episode{}, err
	}
	ep.Transformations = transformations

	if !ec.TranscriptOnly {
		ep.AudioFile = o.renderAudio(ctx, r, segments, o.audioPath(ec, episodeStem, r.pack.Code), out)
	}
	o.check(r, &ep)
	return ep, nil
}

func (o *Orchestrator) check(r *run, ep *Episode) {
	ep.Validation = Validate(ep.Dialogue, r.pack)
	ep.DurationSeconds = ep.Validation.Stats.EstimatedMinutes * 60
	for _, w := range ep.Validation.Warnings {
		logging.WarnWithContext(r.logger, w, "episode_validation",
			logging.String("episode_id", ep.ID),
			logging.String(logging.FieldImpact, "the episode was still produced"),
		)
	}
}

func (o *Orchestrator) saveTranscript(ctx context.Context, r *run, id, lang, text string) {
	err := o.store.SaveTranscript(ctx, cache.Transcript{
		EpisodeID:   id,
		Language:    lang,
		EpisodeType: string(r.ec.Type),
		Topic:       r.ec.Topic,
		Text:        text,
	})
	if err != nil {
		logging.WarnWithContext(r.logger, "transcript not stored", "transcript_store_failed",
			logging.String("episode_id", id),
			logging.Error(err),
			logging.String(logging.FieldImpact, "a later summary episode cannot find this transcript"),
		)
	}
}
