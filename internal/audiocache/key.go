package audiocache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// KeyLength is the number of hex digits kept from the digest.
	KeyLength = 16
	// Extension is the artifact file extension.
	Extension = ".mp3"
)

// Key returns the cache key for normalized text spoken by voice in language.
func Key(text, voice, language string) string {
	sum := sha256.Sum256([]byte(text + "|" + voice + "|" + language))
	return hex.EncodeToString(sum[:])[:KeyLength]
}

// ArtifactName returns the file name of the artifact for key.
func ArtifactName(key string) string {
	return key + Extension
}

// IsArtifactName reports whether name looks like an artifact file name.
func IsArtifactName(name string) bool {
	key, ok := strings.CutSuffix(name, Extension)
	if !ok || len(key) != KeyLength {
		return false
	}
	for _, r := range key {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
