package audiocache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOrphansAndRemove(t *testing.T) {
	dir := t.TempDir()
	names := []string{"0000000000000001.mp3", "0000000000000002.mp3", "0000000000000003.mp3"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("abcd"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, lockFileName), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	referenced := map[string]struct{}{names[1]: {}}
	orphans, err := Orphans(dir, referenced)
	if err != nil {
		t.Fatalf("Orphans returned error: %v", err)
	}
	if len(orphans) != 2 || orphans[0].Name != names[0] || orphans[1].Name != names[2] {
		t.Fatalf("unexpected orphans %+v", orphans)
	}

	result := RemoveOrphans(orphans, nil)
	if len(result.Removed) != 2 || result.FreedBytes != 8 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	left, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].Name != names[1] {
		t.Fatalf("unexpected remaining entries %+v", left)
	}
}

func TestListMissingDir(t *testing.T) {
	entries, err := List(filepath.Join(t.TempDir(), "missing"))
	if err != nil || entries != nil {
		t.Fatalf("expected empty listing, got %v %v", entries, err)
	}
}

func TestLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	first, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock returned error: %v", err)
	}
	if _, err := AcquireLock(dir); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	second, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	_ = second.Release()
}

func TestID3TaggerWritesFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.mp3")
	if err := os.WriteFile(path, []byte{0xff, 0xfb, 0x90, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	meta := Metadata{Lyrics: "Xin chào", Title: "001_nidana", Album: "Giới bổn", Artist: "Vi-Charon", Track: 1}
	if err := (ID3Tagger{}).Tag(path, meta); err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[:3]) != "ID3" {
		t.Fatalf("expected ID3 header, got %q", data[:3])
	}
	if data[len(data)-4] != 0xff || data[len(data)-3] != 0xfb {
		t.Fatal("expected audio payload preserved after the tag")
	}
}
