package personality

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/research"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services/llm"
)

const (
	episodeMaxTokens  = 4000
	responseMaxTokens = 250
	temperature       = 0.7
)

// EpisodeRequest describes the dialogue to write.
type EpisodeRequest struct {
	Host1           string
	Host2           string
	Language        string
	Type            EpisodeType
	Topic           string
	PodcastTitle    string
	EpisodeNumber   int
	Tier            string
	DurationMinutes int
	CulturalFocus   string
	Research        *research.Result
	Reference       string
}

// Engine generates dialogue with an LLM provider, usually a cached one.
type Engine struct {
	cfg      *config.Config
	provider llm.Provider
	packs    *language.Registry
	logger   *slog.Logger
}

// NewEngine constructs an Engine.
func NewEngine(cfg *config.Config, provider llm.Provider, packs *language.Registry, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		provider: provider,
		packs:    packs,
		logger:   logging.NewComponentLogger(logger, "personality"),
	}
}

// GenerateEpisode writes the episode body. Only an unknown language or host
// is an error; provider failures and empty replies return FallbackDialogue.
func (e *Engine) GenerateEpisode(ctx context.Context, req EpisodeRequest) ([]dialogue.Segment, error) {
	pack, host1, host2, err := e.resolve(req.Language, req.Host1, req.Host2)
	if err != nil {
		return nil, err
	}
	if req.PodcastTitle == "" {
		req.PodcastTitle = e.packs.LocalizeTitle(pack.Code)
	}
	if req.Type == "" {
		req.Type = Introduction
	}

	model := e.cfg.ModelFor(req.Tier)
	resp, err := e.provider.Complete(ctx, llm.Request{
		Model:       model,
		Prompt:      episodePrompt(pack, host1, host2, req),
		MaxTokens:   episodeMaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		logging.WarnWithContext(e.logger, "episode generation failed", "dialogue_generation_failed",
			logging.String("topic", req.Topic),
			logging.String(logging.FieldLanguage, pack.Code),
			logging.String("model", model),
			logging.Error(err),
			logging.String(logging.FieldImpact, "episode uses the short fallback dialogue"),
			logging.String(logging.FieldErrorHint, "check the LLM provider key and quota"),
		)
		return FallbackDialogue(host1, host2, req.Topic), nil
	}

	segments := dialogue.Parse(llm.StripCodeFence(resp.Content), []string{host1.Label(), host2.Label()})
	if len(segments) == 0 {
		logging.WarnWithContext(e.logger, "episode reply had no dialogue", "dialogue_parse_empty",
			logging.String("topic", req.Topic),
			logging.Int("reply_chars", len(resp.Content)),
			logging.String(logging.FieldImpact, "episode uses the short fallback dialogue"),
			logging.String(logging.FieldErrorHint, "the model ignored the SPEAKER: format; retry or change model"),
		)
		return FallbackDialogue(host1, host2, req.Topic), nil
	}
	e.logger.Info("episode dialogue generated",
		logging.String(logging.FieldEventType, "dialogue_generated"),
		logging.String(logging.FieldLanguage, pack.Code),
		logging.String("episode_type", string(req.Type)),
		logging.Int("segments", len(segments)),
	)
	return segments, nil
}

// CulturalResponse writes one in-character reply from host about topic.
func (e *Engine) CulturalResponse(ctx context.Context, hostName, lang, topic, conversation, tier string) (string, error) {
	pack, err := e.packs.Get(lang)
	if err != nil {
		return "", err
	}
	host, err := pack.Host(hostName)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "personality", "host", "", err)
	}
	resp, err := e.provider.Complete(ctx, llm.Request{
		Model:       e.cfg.ModelFor(tier),
		Prompt:      culturalPrompt(pack, host, topic, conversation),
		MaxTokens:   responseMaxTokens,
		Temperature: temperature,
	})
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		logging.WarnWithContext(e.logger, "cultural response failed", "cultural_response_failed",
			logging.String("host", host.Label()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "a generic reply is used"),
		)
		return FallbackResponse(topic), nil
	}
	return strings.TrimSpace(resp.Content), nil
}

func (e *Engine) resolve(lang, name1, name2 string) (*language.Pack, language.Host, language.Host, error) {
	pack, err := e.packs.Get(lang)
	if err != nil {
		return nil, language.Host{}, language.Host{}, err
	}
	if name1 == "" && name2 == "" && len(pack.Hosts) >= 2 {
		return pack, pack.Hosts[0], pack.Hosts[1], nil
	}
	host1, err := pack.Host(name1)
	if err != nil {
		return nil, language.Host{}, language.Host{}, services.Wrap(services.ErrConfiguration, "personality", "host", "", err)
	}
	host2, err := pack.Host(name2)
	if err != nil {
		return nil, language.Host{}, language.Host{}, services.Wrap(services.ErrConfiguration, "personality", "host", "", err)
	}
	if host1.ID == host2.ID {
		return nil, language.Host{}, language.Host{}, services.Wrap(services.ErrConfiguration, "personality", "host",
			fmt.Sprintf("episode needs two different hosts, got %s twice", host1.Label()), nil)
	}
	return pack, host1, host2, nil
}

// FallbackDialogue is the two-line exchange used when generation fails.
func FallbackDialogue(host1, host2 language.Host, topic string) []dialogue.Segment {
	return []dialogue.Segment{
		{Speaker: host1.Label(), Text: fmt.Sprintf("Welcome to our discussion about %s.", topic), Timestamp: 0},
		{Speaker: host2.Label(), Text: "I'm excited to explore this topic with you today.", Timestamp: 1},
	}
}

// FallbackResponse is the reply used when a single response cannot be generated.
func FallbackResponse(topic string) string {
	return fmt.Sprintf("That's a fascinating perspective on %s.", topic)
}
