// Package services defines shared utilities consumed by the build stages and
// the external speech integration.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that let the build decide
//     whether a failure aborts the run or only degrades one segment.
//
// The tts subpackage hosts the speech synthesis client.
package services
