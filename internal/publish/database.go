package publish

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gioibon/internal/document"
	"gioibon/internal/store"
)

// stagingSuffix names the file the database is written to before the swap.
const stagingSuffix = ".tmp"

// publishDatabase writes segments to a staging file and swaps it over path
// unless the live file already has identical content. It returns the
// fingerprint of the file left at path and whether that file was replaced.
func publishDatabase(ctx context.Context, path string, segments []document.Segment, opts store.WriteOptions) (string, bool, error) {
	staged := path + stagingSuffix
	if err := store.Write(ctx, staged, segments, opts); err != nil {
		return "", false, fmt.Errorf("write staged database: %w", err)
	}

	stagedSum, err := Fingerprint(staged)
	if err != nil {
		return "", false, fmt.Errorf("fingerprint staged database: %w", err)
	}
	liveSum, err := Fingerprint(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return "", false, fmt.Errorf("fingerprint live database: %w", err)
	case liveSum == stagedSum:
		if err := os.Remove(staged); err != nil {
			return "", false, fmt.Errorf("discard staged database: %w", err)
		}
		return liveSum, false, nil
	}

	if err := os.Rename(staged, path); err != nil {
		return "", false, fmt.Errorf("replace database: %w", err)
	}
	return stagedSum, true, nil
}
