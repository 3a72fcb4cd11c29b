package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

func digest(value string) string {
	sum := md5.Sum([]byte(value))
	return hex.EncodeToString(sum[:])
}

// LLMKey fingerprints a prompt for a model.
func LLMKey(prompt, model string) string {
	return digest(prompt + "_" + model)
}

// AudioKey fingerprints an utterance for a voice.
func AudioKey(text, voiceID string) string {
	return digest(text + "_" + voiceID)
}

// TransformationKey fingerprints a serialized dialogue for a language pair.
func TransformationKey(source, target, content string) string {
	return digest(source + "_" + target + "_" + content)
}

// ResearchKey fingerprints a topic case-insensitively.
func ResearchKey(topic string) string {
	return digest(strings.ToLower(topic))
}
