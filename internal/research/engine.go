package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/revathi-prasad/ai-builders-podcast/internal/cache"
	"github.com/revathi-prasad/ai-builders-podcast/internal/config"
	"github.com/revathi-prasad/ai-builders-podcast/internal/logging"
	"github.com/revathi-prasad/ai-builders-podcast/internal/textutil"
)

const (
	maxSnippetRunes = 280
	maxExamples     = 3
	feedConcurrency = 4
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "of": {}, "to": {}, "in": {}, "on": {},
	"with": {}, "an": {}, "is": {}, "how": {}, "what": {}, "why": {},
}

// Engine researches topics from configured feeds.
type Engine struct {
	feeds    []string
	maxItems int
	ttl      time.Duration
	store    *cache.Store
	logger   *slog.Logger
	client   *http.Client
}

// Option customizes an Engine.
type Option func(*Engine)

// WithHTTPClient overrides the client used to fetch feeds.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) {
		if client != nil {
			e.client = client
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.NewComponentLogger(logger, "research")
	}
}

// New builds an engine from cfg.Research. store may be nil.
func New(cfg *config.Config, store *cache.Store, opts ...Option) *Engine {
	timeout := time.Duration(cfg.Research.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	e := &Engine{
		feeds:    append([]string(nil), cfg.Research.Feeds...),
		maxItems: cfg.Research.MaxItems,
		ttl:      time.Duration(cfg.Cache.ResearchTTLHours) * time.Hour,
		store:    store,
		logger:   logging.NewComponentLogger(nil, "research"),
		client:   &http.Client{Timeout: timeout},
	}
	if e.maxItems <= 0 {
		e.maxItems = 10
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Research returns background for topic. It never fails; problems are
// logged and yield whatever could be gathered, possibly nothing.
func (e *Engine) Research(ctx context.Context, topic string) Result {
	topic = strings.TrimSpace(topic)
	empty := Result{Topic: topic}
	if topic == "" {
		return empty
	}
	if cached, ok := e.store.Research(ctx, topic); ok {
		var res Result
		if err := json.Unmarshal([]byte(cached), &res); err == nil {
			e.logger.Debug("research cache hit", logging.String("topic", topic))
			return res
		}
	}
	if len(e.feeds) == 0 {
		e.logger.Debug("no research feeds configured", logging.String("topic", topic))
		return empty
	}

	perFeed := make([][]Source, len(e.feeds))
	parsed := make([]bool, len(e.feeds))
	keywords := topicKeywords(topic)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedConcurrency)
	for i, feedURL := range e.feeds {
		g.Go(func() error {
			items, err := e.scan(gctx, feedURL, keywords)
			if err != nil {
				logging.WarnWithContext(e.logger, "research feed unavailable", "research_feed_failed",
					logging.String("feed", feedURL),
					logging.Error(err),
					logging.String(logging.FieldImpact, "episode background will omit this feed"),
					logging.String(logging.FieldErrorHint, "check the [research] feeds list"),
				)
				return nil
			}
			perFeed[i] = items
			parsed[i] = true
			return nil
		})
	}
	_ = g.Wait()

	var sources []Source
	anyParsed := false
	for i := range perFeed {
		anyParsed = anyParsed || parsed[i]
		sources = append(sources, perFeed[i]...)
	}
	if !anyParsed {
		return empty
	}
	if len(sources) > e.maxItems {
		sources = sources[:e.maxItems]
	}

	res := condense(topic, sources, len(e.feeds))
	if data, err := json.Marshal(res); err == nil {
		e.store.PutResearch(ctx, topic, string(data), e.ttl)
	}
	e.logger.Info("research gathered",
		logging.String(logging.FieldEventType, "research_complete"),
		logging.String("topic", topic),
		logging.Int("sources", len(res.Sources)),
	)
	return res
}

func (e *Engine) scan(ctx context.Context, feedURL string, keywords map[string]struct{}) ([]Source, error) {
	parser := gofeed.NewParser()
	parser.Client = e.client
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if feed == nil {
		return nil, fmt.Errorf("feed is empty")
	}
	var out []Source
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		description := stripHTML(item.Description)
		if description == "" {
			description = stripHTML(item.Content)
		}
		if !mentions(keywords, item.Title, description) {
			continue
		}
		src := Source{
			Title:     strings.TrimSpace(item.Title),
			URL:       item.Link,
			Feed:      strings.TrimSpace(feed.Title),
			Snippet:   truncate(description, maxSnippetRunes),
			Published: item.Published,
			Type:      SourceType(item.Link),
		}
		if item.PublishedParsed != nil {
			src.Published = item.PublishedParsed.Format("2006-01-02")
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			src.Author = item.Authors[0].Name
		}
		out = append(out, src)
	}
	return out, nil
}

func condense(topic string, sources []Source, feeds int) Result {
	res := Result{Topic: topic, Sources: sources, KeyPoints: []string{}, Examples: []string{}}
	if len(sources) == 0 {
		res.Summary = fmt.Sprintf("No recent feed items mention %s.", topic)
		return res
	}
	res.Summary = fmt.Sprintf("%d recent items about %s were found across %d feeds.", len(sources), topic, feeds)
	for _, s := range sources {
		if s.Title != "" {
			res.KeyPoints = append(res.KeyPoints, s.Title)
		}
		if s.Snippet != "" && len(res.Examples) < maxExamples {
			res.Examples = append(res.Examples, s.Snippet)
		}
	}
	return res
}

func topicKeywords(topic string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, tok := range textutil.Tokenize(topic) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

func mentions(keywords map[string]struct{}, texts ...string) bool {
	for _, text := range texts {
		for _, tok := range textutil.Tokenize(text) {
			if _, ok := keywords[tok]; ok {
				return true
			}
		}
	}
	return false
}

// stripHTML reduces an HTML fragment to its collapsed text.
func stripHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
