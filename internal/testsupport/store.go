package testsupport

import (
	"context"
	"testing"

	"gioibon/internal/document"
	"gioibon/internal/store"
)

// MustReadSegments opens a published database and returns its rows.
func MustReadSegments(t testing.TB, path string) []document.Segment {
	t.Helper()

	reader, err := store.OpenReader(context.Background(), path)
	if err != nil {
		t.Fatalf("store.OpenReader: %v", err)
	}
	t.Cleanup(func() {
		reader.Close()
	})
	segments, err := reader.Segments(context.Background())
	if err != nil {
		t.Fatalf("reader.Segments: %v", err)
	}
	return segments
}
