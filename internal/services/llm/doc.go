// Package llm provides an OpenRouter chat client and the subtitle translation
// backend built on top of it.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive JSON response.
// Client.HealthCheck: verify API key and model availability.
// NewTranslator: adapt a client into a translation.Backend.
//
// # Translation Protocol
//
// Every block is sent as a numbered list together with up to three captions
// of preceding context and two captions of following context. The model must
// answer with {"lines": [...]}. The translator flattens each returned entry
// to a single line and joins them with newlines, which is the shape the
// orchestrator expects. Fewer entries than requested are tolerated; the
// orchestrator keeps the source text for the captions that are missing.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions and network
// timeouts with exponential backoff (base 1s, max 10s, up to 5 attempts by
// default). A Retry-After header overrides the backoff. Context cancellation
// aborts retries immediately.
package llm
