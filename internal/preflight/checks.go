package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"gioibon/internal/config"
	"gioibon/internal/services/tts"
	"gioibon/internal/ttsrules"
)

// CheckSource verifies that paths.source resolves to a readable document.
func CheckSource(cfg *config.Config) Result {
	const name = "Source document"
	path, err := cfg.SourceDocument()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Paths.Source, err)}
	}
	return CheckReadableFile(name, path, false)
}

// CheckReadableFile verifies that path is a readable regular file.
func CheckReadableFile(name, path string, optional bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Optional: optional, Detail: path}
}

// CheckTTSRules verifies that the normalization rule document parses. A
// missing document is optional because the build falls back to defaults.
func CheckTTSRules(path string) Result {
	const name = "TTS rules"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (missing, defaults apply)", path)}
	}
	rules, err := ttsrules.LoadRules(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d phonetic rules)", path, len(rules.Phonetics))}
}

// CheckDirectoryAccess verifies that the directory is readable and writable.
// A missing directory passes when its parent is writable, since the build
// creates it.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return checkCreatable(name, path)
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func checkCreatable(name, path string) Result {
	parent := path
	for {
		next := filepath.Dir(filepath.Clean(parent))
		if next == parent {
			break
		}
		parent = next
		if _, err := os.Stat(parent); err == nil {
			break
		}
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckSpeechAPI verifies that the speech API accepts the configured key.
// It uses a single attempt with a 30-second timeout.
func CheckSpeechAPI(ctx context.Context, cfg config.TTS) Result {
	const name = "Speech API"
	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := tts.NewClient(tts.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Voice:          cfg.Voice,
		Language:       cfg.Language,
		AudioEncoding:  cfg.AudioEncoding,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, tts.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeAPIError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (voice %s, %s)", client.Voice(), client.Language())}
}

func summarizeAPIError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (speech API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (speech API unreachable)"
	}
	return err.Error()
}
