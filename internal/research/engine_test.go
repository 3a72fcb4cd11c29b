package research_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/revathi-prasad/ai-builders-podcast/internal/research"
	"github.com/revathi-prasad/ai-builders-podcast/internal/testsupport"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Builder Weekly</title>
    <link>https://example.com</link>
    <description>News for builders</description>
    <item>
      <title>Shipping AI agents to production</title>
      <link>https://example.com/blog/agents</link>
      <description><![CDATA[<p>Lessons from running <b>agents</b> for invoice triage.</p>]]></description>
      <pubDate>Mon, 05 Oct 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Gardening tips for autumn</title>
      <link>https://example.com/garden</link>
      <description>Plant bulbs before the frost.</description>
    </item>
    <item>
      <title>Weekly roundup</title>
      <link>https://news.example.com/roundup</link>
      <description>Agents that book train tickets, and more.</description>
    </item>
  </channel>
</rss>`

func feedServer(t *testing.T, body string, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestResearchFiltersFeedItemsAndCaches(t *testing.T) {
	srv, hits := feedServer(t, sampleFeed, http.StatusOK)
	cfg := testsupport.NewConfig(t)
	cfg.Research.Feeds = []string{srv.URL}
	store := testsupport.MustOpenCache(t, cfg)
	engine := research.New(cfg, store)

	res := engine.Research(context.Background(), "AI Agents")
	if len(res.Sources) != 2 {
		t.Fatalf("expected 2 matching items, got %d: %+v", len(res.Sources), res.Sources)
	}
	first := res.Sources[0]
	if first.Title != "Shipping AI agents to production" || first.Feed != "Builder Weekly" {
		t.Fatalf("unexpected first source %+v", first)
	}
	if first.Snippet != "Lessons from running agents for invoice triage." {
		t.Fatalf("html not stripped: %q", first.Snippet)
	}
	if first.Type != "blog" || res.Sources[1].Type != "news_article" {
		t.Fatalf("unexpected source types %q %q", first.Type, res.Sources[1].Type)
	}
	if first.Published != "2026-10-05" {
		t.Fatalf("unexpected published date %q", first.Published)
	}
	if len(res.KeyPoints) != 2 || !strings.Contains(res.Summary, "2 recent items") {
		t.Fatalf("unexpected summary %q / %v", res.Summary, res.KeyPoints)
	}

	again := engine.Research(context.Background(), "ai agents")
	if hits.Load() != 1 {
		t.Fatalf("second lookup should be served from cache, feed hit %d times", hits.Load())
	}
	if len(again.Sources) != 2 || again.Sources[0].URL != first.URL {
		t.Fatalf("cached result differs: %+v", again)
	}
}

func TestResearchWithoutFeedsIsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	res := research.New(cfg, nil).Research(context.Background(), "vector databases")
	if !res.Empty() || res.Topic != "vector databases" {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestResearchFeedFailureIsNotCached(t *testing.T) {
	srv, hits := feedServer(t, "oops", http.StatusInternalServerError)
	cfg := testsupport.NewConfig(t)
	cfg.Research.Feeds = []string{srv.URL}
	store := testsupport.MustOpenCache(t, cfg)
	engine := research.New(cfg, store)

	if res := engine.Research(context.Background(), "agents"); !res.Empty() {
		t.Fatalf("expected empty result on failure, got %+v", res)
	}
	engine.Research(context.Background(), "agents")
	if hits.Load() != 2 {
		t.Fatalf("failed research must not be cached, feed hit %d times", hits.Load())
	}
}

func TestResearchRespectsMaxItems(t *testing.T) {
	srv, _ := feedServer(t, sampleFeed, http.StatusOK)
	cfg := testsupport.NewConfig(t)
	cfg.Research.Feeds = []string{srv.URL}
	cfg.Research.MaxItems = 1
	res := research.New(cfg, nil).Research(context.Background(), "agents")
	if len(res.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(res.Sources))
	}
}

func TestMarkdownListsSources(t *testing.T) {
	res := research.Result{
		Topic:     "AI Agents",
		Summary:   "Two items.",
		KeyPoints: []string{"Agents in production"},
		Sources: []research.Source{
			{Title: "Agents in production", URL: "https://example.com/a", Feed: "Builder Weekly", Published: "2026-10-05"},
		},
	}
	md := res.Markdown()
	for _, want := range []string{
		"# References for: AI Agents",
		"- Agents in production",
		`1. "Agents in production". *Builder Weekly*. 2026-10-05. https://example.com/a`,
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if !strings.Contains(research.Result{Topic: "x"}.Markdown(), "No sources found.") {
		t.Fatal("empty result should say no sources")
	}
}

func TestSourceType(t *testing.T) {
	tests := map[string]string{
		"https://arxiv.org/abs/1234":       "academic_paper",
		"https://data.gov/x":               "government_publication",
		"https://medium.com/@a/post":       "blog",
		"https://example.com/news/today":   "news_article",
		"https://pkg.go.dev/doc/something": "documentation",
		"https://example.com/":             "website",
	}
	for url, want := range tests {
		if got := research.SourceType(url); got != want {
			t.Errorf("SourceType(%q) = %q, want %q", url, got, want)
		}
	}
}
