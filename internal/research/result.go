package research

import (
	"fmt"
	"strings"
)

// Source is one feed item used as background.
type Source struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Feed      string `json:"feed,omitempty"`
	Snippet   string `json:"snippet,omitempty"`
	Author    string `json:"author,omitempty"`
	Published string `json:"published,omitempty"`
	Type      string `json:"type"`
}

// Result is the condensed background for one topic.
type Result struct {
	Topic     string              `json:"topic"`
	Summary   string              `json:"summary"`
	KeyPoints []string            `json:"key_points"`
	Examples  []string            `json:"examples"`
	Regional  map[string][]string `json:"regional_insights,omitempty"`
	Sources   []Source            `json:"sources"`
}

// Empty reports whether the result carries no background at all.
func (r Result) Empty() bool {
	return strings.TrimSpace(r.Summary) == "" && len(r.KeyPoints) == 0 && len(r.Examples) == 0 && len(r.Sources) == 0
}

// SourceType classifies a URL the way citations are grouped.
func SourceType(url string) string {
	u := strings.ToLower(url)
	switch {
	case strings.Contains(u, ".edu") || strings.Contains(u, "arxiv.org") || strings.Contains(u, "research"):
		return "academic_paper"
	case strings.Contains(u, ".gov"):
		return "government_publication"
	case strings.Contains(u, "blog") || strings.Contains(u, "medium.com"):
		return "blog"
	case strings.Contains(u, "news") || strings.Contains(u, "article"):
		return "news_article"
	case strings.Contains(u, "doc"):
		return "documentation"
	default:
		return "website"
	}
}

// Markdown renders the citations document written next to the transcript.
func (r Result) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# References for: %s\n\n", r.Topic)
	if s := strings.TrimSpace(r.Summary); s != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(s)
		b.WriteString("\n\n")
	}
	if len(r.KeyPoints) > 0 {
		b.WriteString("## Key Points\n\n")
		for _, p := range r.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
	b.WriteString("## Web Sources\n\n")
	if len(r.Sources) == 0 {
		b.WriteString("No sources found.\n")
	}
	for i, s := range r.Sources {
		fmt.Fprintf(&b, "%d. %s\n\n", i+1, s.citation())
	}
	return b.String()
}

func (s Source) citation() string {
	parts := []string{}
	if s.Author != "" {
		parts = append(parts, s.Author+".")
	}
	parts = append(parts, fmt.Sprintf("%q.", s.Title))
	if s.Feed != "" {
		parts = append(parts, "*"+s.Feed+"*.")
	}
	if s.Published != "" {
		parts = append(parts, s.Published+".")
	}
	if s.URL != "" {
		parts = append(parts, s.URL)
	}
	return strings.Join(parts, " ")
}
