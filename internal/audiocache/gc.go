package audiocache

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gioibon/internal/logging"
)

// Entry describes one artifact in a directory.
type Entry struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// List returns the artifacts in dir sorted by name. A missing directory is empty.
func List(dir string) ([]Entry, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []Entry
	for _, entry := range entries {
		if entry.IsDir() || !IsArtifactName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Orphans returns staging entries whose names are not in referenced.
func Orphans(stagingDir string, referenced map[string]struct{}) ([]Entry, error) {
	entries, err := List(stagingDir)
	if err != nil {
		return nil, err
	}
	var orphans []Entry
	for _, entry := range entries {
		if _, ok := referenced[entry.Name]; !ok {
			orphans = append(orphans, entry)
		}
	}
	return orphans, nil
}

// RemoveResult contains the outcome of an orphan removal.
type RemoveResult struct {
	Removed    []Entry
	FreedBytes int64
	Errors     []RemoveError
}

// RemoveError pairs an artifact path with its removal error.
type RemoveError struct {
	Path  string
	Error error
}

// RemoveOrphans deletes the given entries. Callers obtain confirmation first.
func RemoveOrphans(entries []Entry, logger *slog.Logger) RemoveResult {
	if logger == nil {
		logger = logging.NewNop()
	}
	var result RemoveResult
	for _, entry := range entries {
		if err := os.Remove(entry.Path); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, RemoveError{Path: entry.Path, Error: err})
			logging.WarnWithContext(logger, "failed to remove orphaned audio", "audio_gc_failed",
				logging.String("path", entry.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check audio_cache_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, entry)
		result.FreedBytes += entry.Size
	}
	logger.Info("orphaned audio removed",
		logging.Int("removed", len(result.Removed)),
		logging.Int64("freed_bytes", result.FreedBytes),
		logging.String(logging.FieldEventType, "audio_gc"),
	)
	return result
}
