package preflight

import (
	"context"

	"gioibon/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every applicable check for the given config. The speech API
// is only probed when probeAPI is set, since it spends provider quota.
func RunAll(ctx context.Context, cfg *config.Config, probeAPI bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckSource(cfg)}

	if cfg.Paths.RuleNames != "" {
		results = append(results, CheckReadableFile("Rule names", cfg.Paths.RuleNames, true))
	}
	if cfg.Paths.TTSRules != "" {
		results = append(results, CheckTTSRules(cfg.Paths.TTSRules))
	}

	results = append(results,
		CheckDirectoryAccess("Audio output", cfg.Paths.AudioDir),
		CheckDirectoryAccess("Audio cache", cfg.Paths.AudioCacheDir),
	)

	switch {
	case !cfg.TTS.Enabled:
		results = append(results, Result{Name: "Speech API", Passed: true, Optional: true, Detail: "disabled"})
	case !cfg.SynthesisReady():
		results = append(results, Result{Name: "Speech API", Optional: true, Detail: "API key missing (set " + config.TTSAPIKeyEnv + ")"})
	case probeAPI:
		results = append(results, CheckSpeechAPI(ctx, cfg.TTS))
	default:
		results = append(results, Result{Name: "Speech API", Passed: true, Optional: true, Detail: "configured (not probed)"})
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}
