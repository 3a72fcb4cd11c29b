// Package transform rewrites a finished dialogue into another podcast language.
//
// A transformation is cache-first: the serialized original dialogue and the
// language pair key the transformation table, and a hit is returned as-is
// without a model call or a quality check.
//
// On a miss the dialogue is sent to the model in one prompt built from the
// target language pack. The reply then goes through a deterministic pass that
// renames hosts, replaces the podcast title, swaps unexplained English
// terminology and adds an interjection if the text is flat. The rewritten
// reply is parsed into segments, falling back to a positional paragraph zip
// when no speaker lines are found, and scored for naturalness. A score below
// RetryThreshold triggers exactly one stricter retry whose result is kept.
//
// With PreserveStandardSections only the content between the standard intro
// and outro goes to the model; the target language's own canonical sections
// are put back around it.
//
// Provider failures never surface as errors. The result carries the original
// dialogue unchanged with an adaptation note describing the failure.
package transform
