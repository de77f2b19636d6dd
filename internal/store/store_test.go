package store_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gioibon/internal/document"
	"gioibon/internal/store"
)

func sampleSegments() []document.Segment {
	return []document.Segment{
		{UID: 1, HTML: "<h1>{}</h1>", Label: "title", Text: "Giới Bổn", Audio: document.AudioSkip},
		{UID: 2, HTML: "<p>{} ", Label: "Pj 1", Text: "Vị tỳ khưu nào.", Audio: "0cbf610d266fbeff.mp3", Hint: "V<span class=\"hint-tail\">ị</span>"},
		{UID: 3, HTML: "{}</p>", Label: "Pj 1", Text: "Pārājika.", Audio: "0cbf610d266fbeff.mp3"},
		{UID: 4, HTML: "<p>{}</p>", Label: "Pj-ending", Text: "Xong.", Audio: "6ff0879a4f539978.mp3"},
	}
}

func TestWriteAndRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "content.db")
	if err := store.Write(ctx, path, sampleSegments(), store.WriteOptions{IndexLabel: true}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	reader, err := store.OpenReader(ctx, path)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer reader.Close()

	got, err := reader.Segments(ctx)
	if err != nil {
		t.Fatalf("Segments failed: %v", err)
	}
	want := sampleSegments()
	if len(got) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d mismatch: got %#v want %#v", i, got[i], want[i])
		}
	}

	names, err := reader.AudioNames(ctx)
	if err != nil {
		t.Fatalf("AudioNames failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 audio names, got %v", names)
	}
	if _, ok := names[document.AudioSkip]; ok {
		t.Fatal("skip sentinel must not be reported as an artifact")
	}

	counts, err := reader.LabelCounts(ctx)
	if err != nil {
		t.Fatalf("LabelCounts failed: %v", err)
	}
	if counts["Pj 1"] != 2 || counts["title"] != 1 {
		t.Fatalf("unexpected label counts %v", counts)
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	first := filepath.Join(dir, "a.db")
	second := filepath.Join(dir, "b.db")
	for _, path := range []string{first, second} {
		if err := store.Write(ctx, path, sampleSegments(), store.WriteOptions{}); err != nil {
			t.Fatalf("Write %s failed: %v", path, err)
		}
	}
	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("expected identical database bytes for identical input")
	}
}

func TestWriteReplacesExistingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "content.db")
	if err := store.Write(ctx, path, sampleSegments(), store.WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := store.Write(ctx, path, sampleSegments()[:1], store.WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	reader, err := store.OpenReader(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	got, err := reader.Segments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected rewritten database with 1 segment, got %d", len(got))
	}
}

func TestOpenReaderRejectsForeignDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "missing.db")
	if _, err := store.OpenReader(ctx, path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	empty := filepath.Join(t.TempDir(), "empty.db")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.OpenReader(ctx, empty); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}
