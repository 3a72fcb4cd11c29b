package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// Slug turns an episode topic into a file name fragment: unsafe characters
// are sanitized and whitespace runs become single underscores. Non-Latin
// scripts are kept. Returns "episode" when nothing usable remains.
func Slug(topic string) string {
	fields := strings.Fields(SanitizeFileName(topic))
	if len(fields) == 0 {
		return "episode"
	}
	return strings.Join(fields, "_")
}
