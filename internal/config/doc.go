// Package config loads, normalizes, and validates gioibon configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a local .env file, and honours the
// GOOGLE_TTS_API_KEY environment fallback. The Config type centralizes every
// knob the build and CLI need so input, export, and cache locations are
// discovered in one pass.
package config
