// Package tts provides a Google Cloud Text-to-Speech client used to voice
// prayer-book segments.
//
// # Configuration
//
// Requires an API key. Voice, language code, audio encoding, base URL and
// timeout are optional and default to the Vietnamese Chirp3 HD voice producing
// MP3.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Synthesize: turn text into decoded audio bytes.
// Client.HealthCheck: verify the key by synthesizing a one-word probe.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors and network timeouts with
// exponential backoff (base 1s, max 10s, up to 3 attempts by default).
// Context cancellation aborts retries immediately. A response without audio
// content is an error and is not retried.
package tts
