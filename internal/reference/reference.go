// Package reference loads optional reference material for an episode from a
// local file or a web page.
package reference

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
)

// MaxRunes bounds the material embedded in a prompt.
const MaxRunes = 20000

const maxBodyBytes = 8 << 20

// Loader fetches reference material.
type Loader struct {
	client *http.Client
}

// NewLoader returns a Loader using client, or a default client with a 30s timeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{client: client}
}

// Load returns the text of source. An http(s) URL is fetched and reduced to
// its article text; anything else is read as a file. A missing file is a
// configuration error.
func (l *Loader) Load(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", nil
	}
	if isURL(source) {
		return l.fetch(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "reference", "read",
			fmt.Sprintf("reference material %q is not readable", source), err)
	}
	return truncate(strings.TrimSpace(string(data))), nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (l *Loader) fetch(ctx context.Context, source string) (string, error) {
	pageURL, err := url.Parse(source)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "reference", "parse url", source, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "aibuilders/1.0")
	resp, err := l.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "reference", "fetch", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrExternalTool, "reference", "fetch",
			fmt.Sprintf("%s returned status %d", source, resp.StatusCode), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	html := string(body)

	text, title := extract(html, pageURL)
	if text == "" {
		return "", services.Wrap(services.ErrValidation, "reference", "extract",
			fmt.Sprintf("no readable text at %s", source), nil)
	}
	if title != "" {
		text = "# " + title + "\n\n" + text
	}
	return truncate(text), nil
}

// extract returns the article text and title, falling back to the document
// body and title tags when readability finds no article.
func extract(html string, pageURL *url.URL) (string, string) {
	var text, title string
	if article, err := readability.FromReader(strings.NewReader(html), pageURL); err == nil {
		text = strings.TrimSpace(article.TextContent)
		title = strings.TrimSpace(article.Title)
	}
	if text != "" && title != "" {
		return text, title
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return text, title
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
			title = strings.TrimSpace(og)
		}
	}
	if text == "" {
		doc.Find("script, style, nav, footer").Remove()
		text = strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	}
	return text, title
}

func truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxRunes {
		return text
	}
	return string([]rune(text)[:MaxRunes])
}
