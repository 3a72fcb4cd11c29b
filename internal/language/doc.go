// Package language holds the embedded language packs that drive dialogue
// generation and transformation: host personas and voices, cultural context,
// style guidelines, terminology tables and the canonical intro and outro for
// each supported podcast language.
//
// Language identifiers accept ISO 639-1, ISO 639-2 and word forms ("hi",
// "hin", "Hindi") and normalise to the pack code ("hindi").
package language
