package testsupport

import (
	"path/filepath"
	"testing"

	"gioibon/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose inputs and outputs all live under a fresh
// temp directory. The source document is not written; use WithSource.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Source = filepath.Join(base, "data", "source.md")
	cfgVal.Paths.RuleNames = ""
	cfgVal.Paths.TSVOut = filepath.Join(base, "data", "content", "content.tsv")
	cfgVal.Paths.DBOut = filepath.Join(base, "web", "content.db")
	cfgVal.Paths.AudioDir = filepath.Join(base, "web", "audio")
	cfgVal.Paths.AudioCacheDir = filepath.Join(base, "cache", "tts")
	cfgVal.Paths.TTSRules = ""
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.TTS.APIKey = "test"
	cfgVal.TTS.TagMetadata = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSource writes content as the source document.
func WithSource(content string) ConfigOption {
	return func(b *configBuilder) {
		WriteText(b.t, b.cfg.Paths.Source, content)
	}
}

// WithTTSRules writes a normalization rule document and points the config at it.
func WithTTSRules(json string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.TTSRules = filepath.Join(b.baseDir, "web", "tts_rules.json")
		WriteText(b.t, b.cfg.Paths.TTSRules, json)
	}
}

// WithRuleNames writes a rule-name document and points the config at it.
func WithRuleNames(content string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.RuleNames = filepath.Join(b.baseDir, "data", "rule_names.md")
		WriteText(b.t, b.cfg.Paths.RuleNames, content)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Paths.Source))
}
