// Package orchestrator sequences one episode run.
//
// CreateEpisode validates an EpisodeContext, then drives one of three flows:
//
//   - transcript-driven: a prewritten transcript is parsed and used as the
//     primary dialogue
//   - fresh generation (introduction, build, conversation): the standard intro,
//     a generated body and the standard outro form the primary dialogue
//   - summary: the stored primary transcript of the episode is condensed in the
//     same language
//
// The primary dialogue is saved as a transcript, transformed into every
// secondary language, voiced and merged unless the run is transcript-only,
// and checked structurally. Validation never blocks a run. Configuration
// errors are the only failures returned before any model or voice spend.
//
// Each run gets a session id. Its LLM and TTS spend is appended to the cost
// ledger at the end, budget ceilings are checked and logged, and run metrics
// are written to the configured textfile.
package orchestrator
