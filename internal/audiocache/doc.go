// Package audiocache resolves segment text to content-addressed audio files.
//
// An artifact's name is the first 16 hex digits of
// sha256("<normalized text>|<voice>|<language>") plus ".mp3", the same name the
// web client computes. Artifacts live in a durable staging directory shared by
// every build; each build copies the artifacts it references into its output
// directory and prunes the rest. The provider is called only on a cache miss,
// and a provider failure degrades just that segment to "skip".
//
// Staging entries no longer referenced by the published store can be listed
// and removed with Orphans and RemoveOrphans; removal is always an explicit
// operator action.
package audiocache
