// Package config loads, normalizes, and validates podcast pipeline settings.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ANTHROPIC_API_KEY and ELEVENLABS_API_KEY. The Config value is built once by
// the CLI and passed into every component constructor.
package config
