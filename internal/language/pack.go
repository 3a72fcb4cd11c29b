package language

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/revathi-prasad/ai-builders-podcast/internal/dialogue"
	"github.com/revathi-prasad/ai-builders-podcast/internal/services"
)

// DefaultTitle is the podcast title used when a language has no localized one.
const DefaultTitle = "AI Builders"

//go:embed packs/*.yaml
var packFiles embed.FS

// Host is one podcast presenter.
type Host struct {
	ID      string `yaml:"id"`
	Gender  string `yaml:"gender"`
	VoiceID string `yaml:"voice_id"`
	Persona string `yaml:"persona"`
}

var titleCaser = cases.Title(xlang.Und)

// Name returns the display name, e.g. "Arjun".
func (h Host) Name() string {
	return titleCaser.String(h.ID)
}

// Label returns the transcript speaker label, e.g. "ARJUN".
func (h Host) Label() string {
	return strings.ToUpper(h.ID)
}

// HostMapping renames a speaker when content moves into this language.
type HostMapping struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// CulturalContext describes the audience the dialogue is written for.
type CulturalContext struct {
	BusinessFocus      string   `yaml:"business_focus"`
	Examples           []string `yaml:"examples"`
	CommunicationStyle string   `yaml:"communication_style"`
	TechAdoption       string   `yaml:"tech_adoption"`
}

// Guidelines carry the style rules embedded in generation and transformation prompts.
type Guidelines struct {
	Style              string   `yaml:"style"`
	Principles         []string `yaml:"principles"`
	Setting            string   `yaml:"setting"`
	Interjections      string   `yaml:"interjections"`
	Enthusiasm         string   `yaml:"enthusiasm"`
	CulturalReferences string   `yaml:"cultural_references"`
	AnalogyExample     string   `yaml:"analogy_example"`
	ForbiddenExample   string   `yaml:"forbidden_example"`
	PreferredExample   string   `yaml:"preferred_example"`
}

// Term maps an English technical term to its native rendering. Explained
// terms carry an inline explanation in the native text.
type Term struct {
	Term      string `yaml:"term"`
	Native    string `yaml:"native"`
	Explained bool   `yaml:"explained"`
}

// Analogy pairs a technical concept with a culturally familiar comparison.
type Analogy struct {
	Concept string `yaml:"concept"`
	Analogy string `yaml:"analogy"`
}

// Enthusiasm describes the one-shot interjection inserted into flat output.
type Enthusiasm struct {
	Markers []string `yaml:"markers"`
	Find    string   `yaml:"find"`
	Replace string   `yaml:"replace"`
}

// Pack is the full description of one podcast language.
type Pack struct {
	Code              string          `yaml:"code"`
	DisplayName       string          `yaml:"display_name"`
	Script            string          `yaml:"script"`
	PodcastTitle      string          `yaml:"podcast_title"`
	SourceTitles      []string        `yaml:"source_titles"`
	HostMapping       []HostMapping   `yaml:"host_mapping"`
	Hosts             []Host          `yaml:"hosts"`
	Cultural          CulturalContext `yaml:"cultural_context"`
	Guidelines        Guidelines      `yaml:"guidelines"`
	Terminology       []Term          `yaml:"terminology"`
	AcceptableEnglish []string        `yaml:"acceptable_english"`
	Analogies         []Analogy       `yaml:"cultural_analogies"`
	CulturalMarkers   []string        `yaml:"cultural_markers"`
	AIDisclosure      []string        `yaml:"ai_disclosure"`
	Enthusiasm        Enthusiasm      `yaml:"enthusiasm"`
	StandardIntro     string          `yaml:"standard_intro"`
	StandardOutro     string          `yaml:"standard_outro"`

	acceptable map[string]struct{}
}

func (p *Pack) prepare() error {
	p.Code = strings.ToLower(strings.TrimSpace(p.Code))
	if p.Code == "" {
		return fmt.Errorf("pack has no code")
	}
	if len(p.Hosts) < 2 {
		return fmt.Errorf("pack %s: need two hosts, have %d", p.Code, len(p.Hosts))
	}
	for i, h := range p.Hosts {
		if strings.TrimSpace(h.ID) == "" || strings.TrimSpace(h.VoiceID) == "" {
			return fmt.Errorf("pack %s: host %d missing id or voice", p.Code, i)
		}
	}
	p.Script = strings.ToLower(strings.TrimSpace(p.Script))
	p.acceptable = make(map[string]struct{}, len(p.AcceptableEnglish))
	for _, entry := range p.AcceptableEnglish {
		entry = strings.ToLower(entry)
		p.acceptable[entry] = struct{}{}
		// Scoring compares words with punctuation removed, so "Wi-Fi" must
		// also match "wifi" and "social media" each of its words.
		for _, w := range strings.Fields(entry) {
			p.acceptable[w] = struct{}{}
			p.acceptable[strings.Map(dropPunct, w)] = struct{}{}
		}
	}
	return nil
}

func dropPunct(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' {
		return r
	}
	return -1
}

// LatinScript reports whether the language is written in Latin script, in
// which case English words are native rather than stray.
func (p *Pack) LatinScript() bool {
	return p.Script == "latin"
}

// Host returns the host with the given id or label, case-insensitively.
func (p *Pack) Host(name string) (Host, error) {
	name = strings.TrimSpace(name)
	for _, h := range p.Hosts {
		if strings.EqualFold(h.ID, name) {
			return h, nil
		}
	}
	return Host{}, services.Wrap(services.ErrValidation, "language", "host",
		fmt.Sprintf("%s has no host %q", p.Code, name), nil)
}

// VoiceFor returns the voice id for a speaker label.
func (p *Pack) VoiceFor(speaker string) (string, bool) {
	h, err := p.Host(speaker)
	if err != nil {
		return "", false
	}
	return h.VoiceID, true
}

// HostLabels returns the speaker labels of the pack's hosts in order.
func (p *Pack) HostLabels() []string {
	labels := make([]string, 0, len(p.Hosts))
	for _, h := range p.Hosts {
		labels = append(labels, h.Label())
	}
	return labels
}

// MapHost returns the label a speaker takes in this language. Speakers
// without a mapping keep their label.
func (p *Pack) MapHost(speaker string) string {
	for _, m := range p.HostMapping {
		if strings.EqualFold(m.Source, speaker) {
			return strings.ToUpper(m.Target)
		}
	}
	return speaker
}

// IsAcceptable reports whether an English word may stay untranslated.
func (p *Pack) IsAcceptable(word string) bool {
	_, ok := p.acceptable[strings.ToLower(word)]
	return ok
}

// IntroSegments parses the canonical intro.
func (p *Pack) IntroSegments() []dialogue.Segment {
	return dialogue.ParseSections(p.StandardIntro)
}

// OutroSegments parses the canonical outro.
func (p *Pack) OutroSegments() []dialogue.Segment {
	return dialogue.ParseSections(p.StandardOutro)
}

// Registry indexes language packs by code.
type Registry struct {
	packs map[string]*Pack
}

// Load parses every embedded pack.
func Load() (*Registry, error) {
	entries, err := packFiles.ReadDir("packs")
	if err != nil {
		return nil, fmt.Errorf("read packs: %w", err)
	}
	reg := &Registry{packs: make(map[string]*Pack, len(entries))}
	for _, e := range entries {
		data, err := packFiles.ReadFile(path.Join("packs", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var p Pack
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		if err := p.prepare(); err != nil {
			return nil, err
		}
		reg.packs[p.Code] = &p
	}
	return reg, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the registry of embedded packs, loaded once.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Load()
	})
	return defaultReg, defaultErr
}

// MustDefault is Default for callers that cannot proceed without packs.
func MustDefault() *Registry {
	reg, err := Default()
	if err != nil {
		panic(err)
	}
	return reg
}

// Get returns the pack for a language code or alias.
func (r *Registry) Get(code string) (*Pack, error) {
	norm := Normalize(code)
	if p, ok := r.packs[norm]; ok {
		return p, nil
	}
	return nil, services.Wrap(services.ErrConfiguration, "language", "lookup",
		fmt.Sprintf("unsupported language %q (supported: %s)", code, strings.Join(r.Codes(), ", ")), nil)
}

// Codes lists supported pack codes in sorted order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.packs))
	for code := range r.packs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LocalizeTitle returns the podcast title for a language.
func (r *Registry) LocalizeTitle(code string) string {
	if p, err := r.Get(code); err == nil && strings.TrimSpace(p.PodcastTitle) != "" {
		return p.PodcastTitle
	}
	return DefaultTitle
}
