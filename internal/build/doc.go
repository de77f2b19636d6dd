// Package build runs one gioibon build: parse the source document into
// segments, resolve each segment's audio through the cache, and publish the
// export, database and version descriptor.
//
// The Builder owns the staging lock for the whole run so a concurrent build
// or cache gc cannot remove artifacts it is about to reference. Stage errors
// are classified with services.IsFatal; synthesis failures never reach this
// level because the audio cache degrades them to skipped segments.
package build
