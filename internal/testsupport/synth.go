package testsupport

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// FakeSynthesizer returns deterministic audio for each text and records calls.
type FakeSynthesizer struct {
	mu    sync.Mutex
	calls []string
	// FailOn makes Synthesize fail for texts containing the substring.
	FailOn string
}

// Synthesize implements audiocache.Synthesizer.
func (f *FakeSynthesizer) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if f.FailOn != "" && strings.Contains(text, f.FailOn) {
		return nil, errors.New("fake provider failure")
	}
	return []byte("ID3fake:" + text), nil
}

// Calls returns the texts synthesized so far.
func (f *FakeSynthesizer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
