// Package cache persists LLM replies, synthesized audio references, the cost
// ledger, episode transcripts, research results and transformations in one
// SQLite file.
//
// Keys are md5 fingerprints of the inputs that determine a result. Every write
// is INSERT OR REPLACE, so a fingerprint has at most one row and the last write
// wins. Lookups that fail behave as misses and writes that fail are logged and
// dropped: the cache never blocks or corrupts an episode run.
package cache
