package audiocache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".gioibon.lock"

// ErrLocked reports that another build or gc holds the staging lock.
var ErrLocked = errors.New("audio cache is locked by another gioibon process")

// Lock is an exclusive hold on a staging directory.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes the staging lock without waiting.
func AcquireLock(stagingDir string) (*Lock, error) {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	fl := flock.New(filepath.Join(stagingDir, lockFileName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
