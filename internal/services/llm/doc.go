// Package llm provides the chat-completion backends used for dialogue
// generation and cross-language transformation.
//
// Three backends implement Provider:
//
//   - OpenRouter: OpenAI-shaped chat completions over plain HTTP
//   - OpenAI: the official openai-go SDK
//   - AnyLLM: mozilla-ai/any-llm-go, used for Anthropic models
//
// New selects one from configuration. Cached wraps any Provider with the
// SQLite reply cache, collapses identical in-flight prompts and meters the
// spend of every uncached call.
//
// # Retry Behaviour
//
// OpenRouter runs every call through a retry.Policy: HTTP 408/429/5xx,
// empty replies and network timeouts are retried with backoff from 1s to
// 10s, five attempts unless llm.retry_max_attempts says otherwise.
// Retry-After wins over the computed delay. The SDK backends rely on their
// own retry policy.
package llm
