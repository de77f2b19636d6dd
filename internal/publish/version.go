package publish

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gioibon/internal/fileutil"
)

// Version is the descriptor the web client fetches to detect a new database.
type Version struct {
	Version     string `json:"version"`
	GeneratedAt int64  `json:"generated_at"`
}

// VersionPath returns the descriptor path for a database: content.db maps to
// content_version.json in the same directory.
func VersionPath(dbPath string) string {
	base := filepath.Base(dbPath)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return filepath.Join(filepath.Dir(dbPath), base+"_version.json")
}

// ReadVersion loads a descriptor. Any read or decode failure is returned.
func ReadVersion(path string) (Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Version{}, err
	}
	var v Version
	if err := json.Unmarshal(data, &v); err != nil {
		return Version{}, err
	}
	return v, nil
}

// stampVersion rewrites the descriptor when its recorded hash differs from
// hash. An unreadable descriptor is treated as stale.
func stampVersion(path, hash string, now time.Time) (bool, error) {
	if current, err := ReadVersion(path); err == nil && current.Version == hash {
		return false, nil
	}
	data, err := json.Marshal(Version{Version: hash, GeneratedAt: now.Unix()})
	if err != nil {
		return false, err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
