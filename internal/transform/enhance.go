package transform

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
)

type nameRule struct {
	pattern *regexp.Regexp
	label   string
	name    string
}

type termRule struct {
	pattern *regexp.Regexp
	native  string
}

// enhancer is the deterministic pass over model output. It runs even when
// the prompt already asked for the same substitutions.
type enhancer struct {
	names      []nameRule
	titles     []string
	title      string
	terms      []termRule
	enthusiasm language.Enthusiasm
}

func newEnhancer(source, target *language.Pack) *enhancer {
	en := &enhancer{title: target.PodcastTitle, enthusiasm: target.Enthusiasm}

	for _, m := range target.HostMapping {
		src := strings.TrimSpace(m.Source)
		if src == "" || strings.EqualFold(src, m.Target) {
			continue
		}
		host := language.Host{ID: strings.ToLower(strings.TrimSpace(m.Target))}
		en.names = append(en.names, nameRule{
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(src) + `\b`),
			label:   host.Label(),
			name:    host.Name(),
		})
	}

	seen := map[string]bool{}
	candidates := append([]string{source.PodcastTitle}, source.SourceTitles...)
	candidates = append(candidates, target.SourceTitles...)
	for _, t := range candidates {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] || en.title == "" || strings.Contains(en.title, t) {
			continue
		}
		seen[t] = true
		en.titles = append(en.titles, t)
	}
	// Longer titles first so a title that contains another is replaced whole.
	sort.SliceStable(en.titles, func(i, j int) bool {
		return utf8.RuneCountInString(en.titles[i]) > utf8.RuneCountInString(en.titles[j])
	})

	for _, term := range target.Terminology {
		if strings.TrimSpace(term.Term) == "" || term.Native == "" {
			continue
		}
		en.terms = append(en.terms, termRule{
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term.Term) + `\b`),
			native:  term.Native,
		})
	}
	return en
}

// apply runs every substitution in order: hosts, title, terminology, then
// one enthusiasm interjection when the text has none.
func (en *enhancer) apply(text string) string {
	text = en.rebrand(text)
	for _, rule := range en.terms {
		text = replaceUnexplained(text, rule)
	}
	return en.enliven(text)
}

// rebrand renames hosts and the podcast title only.
func (en *enhancer) rebrand(text string) string {
	for _, rule := range en.names {
		text = rule.pattern.ReplaceAllStringFunc(text, func(match string) string {
			if match == strings.ToUpper(match) {
				return rule.label
			}
			return rule.name
		})
	}
	for _, t := range en.titles {
		text = strings.ReplaceAll(text, t, en.title)
	}
	return text
}

func (en *enhancer) enliven(text string) string {
	e := en.enthusiasm
	if e.Find == "" {
		return text
	}
	for _, m := range e.Markers {
		if strings.Contains(text, m) {
			return text
		}
	}
	return strings.Replace(text, e.Find, e.Replace, 1)
}

// replaceUnexplained swaps each occurrence of the rule's term for its native
// rendering unless the term is immediately followed by a dash, which marks
// an explanation the model already wrote.
func replaceUnexplained(text string, rule termRule) string {
	matches := rule.pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if explainedAfter(text[m[1]:]) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(rule.native)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func explainedAfter(rest string) bool {
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	r, _ := utf8.DecodeRuneInString(rest)
	return r == '-' || r == '–' || r == '—'
}

// adaptations lists the notes recorded for a finished transformation.
func adaptations(text string, target *language.Pack) []string {
	var notes []string
	for _, marker := range target.CulturalMarkers {
		if strings.Contains(text, marker) {
			notes = append(notes, "Added cultural reference: "+marker)
		}
	}
	explained := 0
	for _, m := range explanationMarkers {
		if strings.Contains(text, m) {
			explained++
		}
	}
	if explained > 0 {
		notes = append(notes, fmt.Sprintf("Added %d explanatory phrases for better understanding", explained))
	}
	return append(notes, fmt.Sprintf("Content culturally adapted for %s speakers with natural language flow", target.Code))
}

func terminology(target *language.Pack) map[string]string {
	out := make(map[string]string, len(target.Terminology))
	for _, term := range target.Terminology {
		out[term.Term] = term.Native
	}
	return out
}
