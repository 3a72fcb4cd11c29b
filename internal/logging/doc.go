// Package logging builds the slog loggers used across the podcast pipeline.
//
// Console output is a compact single-line format meant for humans running the
// CLI; the log file under the configured log directory always receives JSON so
// runs can be inspected after the fact. Components derive their loggers with
// NewComponentLogger and report degraded behaviour through WarnWithContext so
// every warning carries event_type, error_hint, and impact fields.
package logging
