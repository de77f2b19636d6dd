package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gioibon/internal/audiocache"
	"gioibon/internal/config"
	"gioibon/internal/logging"
	"gioibon/internal/services"
	"gioibon/internal/services/tts"
	"gioibon/internal/stage"
)

// Option customizes a Builder.
type Option func(*Builder)

// WithSynthesizer overrides the speech provider. Passing nil disables
// synthesis so only cached audio is used.
func WithSynthesizer(s audiocache.Synthesizer) Option {
	return func(b *Builder) {
		b.synth = s
		b.synthSet = true
	}
}

// WithTagger overrides the artifact tagger.
func WithTagger(t audiocache.Tagger) Option {
	return func(b *Builder) {
		b.tagger = t
		b.taggerSet = true
	}
}

// WithRunID fixes the run identifier, typically so it matches the logger's.
func WithRunID(id string) Option {
	return func(b *Builder) { b.runID = id }
}

// WithClock overrides the clock used for the version descriptor.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// Builder wires the stages of a build from config.
type Builder struct {
	cfg    *config.Config
	logger *slog.Logger

	synth     audiocache.Synthesizer
	synthSet  bool
	tagger    audiocache.Tagger
	taggerSet bool
	runID     string
	now       func() time.Time
}

// New constructs a Builder. Without options the speech client and ID3 tagger
// are derived from cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	b := &Builder{cfg: cfg, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	if !b.synthSet && cfg.SynthesisReady() {
		b.synth = tts.NewClient(tts.Config{
			APIKey:         cfg.TTS.APIKey,
			BaseURL:        cfg.TTS.BaseURL,
			Voice:          cfg.TTS.Voice,
			Language:       cfg.TTS.Language,
			AudioEncoding:  cfg.TTS.AudioEncoding,
			TimeoutSeconds: cfg.TTS.TimeoutSeconds,
		}, tts.WithRetryMaxAttempts(cfg.TTS.RetryAttempts))
	}
	if !b.taggerSet && cfg.TTS.TagMetadata {
		b.tagger = audiocache.ID3Tagger{}
	}
	return b
}

type namedStage struct {
	name    string
	handler stage.Handler
}

func (b *Builder) stages() (*parseStage, *audioStage, []namedStage) {
	parse := newParseStage(b.cfg)
	audio := newAudioStage(b.cfg, b.synth, b.tagger)
	publish := newPublishStage(b.cfg, b.now)
	return parse, audio, []namedStage{
		{name: "parse", handler: parse},
		{name: "audio", handler: audio},
		{name: "publish", handler: publish},
	}
}

// Health reports each stage's readiness without running it.
func (b *Builder) Health(ctx context.Context) []stage.Health {
	_, _, stages := b.stages()
	out := make([]stage.Health, 0, len(stages))
	for _, s := range stages {
		out = append(out, s.handler.HealthCheck(ctx))
	}
	return out
}

// Run executes one build and returns its summary. The summary is populated as
// far as the build got even when an error is returned.
func (b *Builder) Run(ctx context.Context) (stage.Summary, error) {
	if b.cfg == nil {
		return stage.Summary{}, services.Wrap(services.ErrConfiguration, "build", "start", "config is required", nil)
	}

	runID := b.runID
	logger := b.logger
	if runID == "" {
		runID = uuid.NewString()
		logger = logger.With(logging.String(logging.FieldRunID, runID))
	}
	ctx = services.WithRunID(ctx, runID)
	run := &stage.Run{ID: runID, Started: time.Now()}

	parse, audio, stages := b.stages()

	logger.Info("build started",
		logging.String(logging.FieldEventType, "build_start"),
		logging.String("source", b.cfg.Paths.Source),
		logging.Bool("synthesis_enabled", b.synth != nil),
		logging.String("voice", b.cfg.TTS.Voice),
	)

	// Parsing first so a missing source aborts before anything is created.
	if err := stage.Execute(ctx, logger, stages[0].name, parse, run); err != nil {
		return run.Summary(), err
	}

	if err := b.cfg.EnsureDirectories(); err != nil {
		return run.Summary(), services.Wrap(services.ErrConfiguration, "build", "ensure directories", "", err)
	}
	lock, err := audiocache.AcquireLock(b.cfg.Paths.AudioCacheDir)
	if err != nil {
		if errors.Is(err, audiocache.ErrLocked) {
			return run.Summary(), services.Wrap(services.ErrValidation, "build", "lock audio cache", b.cfg.Paths.AudioCacheDir, err)
		}
		return run.Summary(), services.Wrap(services.ErrStore, "build", "lock audio cache", b.cfg.Paths.AudioCacheDir, err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Debug("release audio cache lock", logging.Error(err))
		}
	}()

	for _, s := range stages[1:] {
		if err := stage.Execute(ctx, logger, s.name, s.handler, run); err != nil {
			return run.Summary(), err
		}
	}

	// Stale artifacts are only pruned once the new database no longer
	// references them.
	if err := audio.prune(run); err != nil {
		logging.WarnWithContext(logger, "audio output prune failed", "audio_prune_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, fmt.Sprintf("remove stray files from %s manually", b.cfg.Paths.AudioDir)),
			logging.String(logging.FieldImpact, "unreferenced audio files remain in the output"),
		)
	}

	summary := run.Summary()
	logger.Info("build completed",
		logging.String(logging.FieldEventType, "build_complete"),
		logging.Int("segments", summary.Segments),
		logging.Int("synthesized", summary.Synthesized),
		logging.Int("reused", summary.Reused),
		logging.Int("skipped", summary.Skipped),
		logging.Int("missing", summary.Missing),
		logging.Int("failed", summary.Failed),
		logging.Int("pruned", summary.Pruned),
		logging.Bool("store_changed", summary.StoreChanged),
		logging.Bool("version_rewritten", summary.VersionRewritten),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// Parse runs only the parse stage, for commands that inspect segments without
// publishing anything.
func Parse(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stage.Run, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	run := &stage.Run{Started: time.Now()}
	if err := stage.Execute(ctx, logger, "parse", newParseStage(cfg), run); err != nil {
		return nil, err
	}
	return run, nil
}
