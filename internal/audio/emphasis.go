package audio

import "strings"

var emphasisWords = map[string]struct{}{
	"really": {}, "very": {}, "absolutely": {}, "definitely": {}, "extremely": {},
	"important": {}, "critical": {}, "essential": {}, "crucial": {}, "vital": {},
	"never": {}, "always": {}, "must": {},
	"amazing": {}, "incredible": {}, "fantastic": {}, "awesome": {}, "wonderful": {},
	"terrible": {}, "horrible": {}, "awful": {}, "disastrous": {},
}

var emphasisPhrases = map[string]struct{}{
	"need to": {},
	"have to": {},
}

const emphasisPunct = ".,!?;:"

// AddEmphasis wraps intensity words in asterisks, which ElevenLabs reads as
// stress. Surrounding punctuation stays outside the markers.
func AddEmphasis(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		if i+1 < len(words) {
			first := strings.ToLower(words[i])
			core, suffix := splitPunct(words[i+1])
			if _, ok := emphasisPhrases[first+" "+strings.ToLower(core)]; ok && core != "" {
				out = append(out, "*"+words[i]+" "+core+"*"+suffix)
				i++
				continue
			}
		}
		core, suffix := splitPunct(words[i])
		if _, ok := emphasisWords[strings.ToLower(core)]; ok {
			out = append(out, "*"+core+"*"+suffix)
			continue
		}
		out = append(out, words[i])
	}
	return strings.Join(out, " ")
}

// splitPunct separates trailing punctuation from a word.
func splitPunct(word string) (string, string) {
	core := strings.TrimRight(word, emphasisPunct)
	return core, word[len(core):]
}
