package language

import "strings"

type entry struct {
	code  string   // Pack code (word form)
	code2 string   // ISO 639-1 (2-letter)
	code3 string   // ISO 639-2 (3-letter)
	words []string // Alternate spellings
}

var languages = []entry{
	{"english", "en", "eng", nil},
	{"hindi", "hi", "hin", []string{"hindustani"}},
	{"tamil", "ta", "tam", nil},
}

var byAlias map[string]*entry

func init() {
	byAlias = make(map[string]*entry, len(languages)*4)
	for i := range languages {
		e := &languages[i]
		byAlias[e.code] = e
		byAlias[e.code2] = e
		byAlias[e.code3] = e
		for _, w := range e.words {
			byAlias[w] = e
		}
	}
}

// Normalize maps a language code or name to its pack code. Unknown input is
// returned lowercased and trimmed so callers can report it.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if e, ok := byAlias[code]; ok {
		return e.code
	}
	return code
}

// ToISO2 returns the ISO 639-1 code for a supported language, or "".
func ToISO2(code string) string {
	if e, ok := byAlias[strings.ToLower(strings.TrimSpace(code))]; ok {
		return e.code2
	}
	return ""
}

// NormalizeList normalises and deduplicates a list of languages, dropping
// blanks and any entry equal to skip (after normalisation).
func NormalizeList(languages []string, skip string) []string {
	if len(languages) == 0 {
		return nil
	}
	skip = Normalize(skip)
	normalized := make([]string, 0, len(languages))
	seen := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		code := Normalize(lang)
		if code == "" || code == skip {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		normalized = append(normalized, code)
	}
	return normalized
}
