// Package services defines shared utilities consumed by the episode pipeline
// and its external integrations (LLM, TTS).
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, episode IDs, languages, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper. Configuration errors are
//     the only class allowed to abort a run; callers check IsFatal.
//
// Provider clients live in subpackages (llm, tts) and depend only on this
// package and logging.
package services
