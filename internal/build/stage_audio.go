package build

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"gioibon/internal/audiocache"
	"gioibon/internal/config"
	"gioibon/internal/logging"
	"gioibon/internal/services"
	"gioibon/internal/stage"
	"gioibon/internal/ttsrules"
)

type audioStage struct {
	cfg    *config.Config
	synth  audiocache.Synthesizer
	tagger audiocache.Tagger
	logger *slog.Logger
	cache  *audiocache.Cache
}

func newAudioStage(cfg *config.Config, synth audiocache.Synthesizer, tagger audiocache.Tagger) *audioStage {
	return &audioStage{cfg: cfg, synth: synth, tagger: tagger, logger: logging.NewNop()}
}

func (s *audioStage) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *audioStage) Prepare(_ context.Context, _ *stage.Run) error {
	rules, err := LoadRules(s.cfg.Paths.TTSRules, s.logger)
	if err != nil {
		return err
	}
	cache, err := audiocache.New(audiocache.Options{
		StagingDir:  s.cfg.Paths.AudioCacheDir,
		OutputDir:   s.cfg.Paths.AudioDir,
		Voice:       s.cfg.TTS.Voice,
		Language:    s.cfg.TTS.Language,
		Normalizer:  ttsrules.NewNormalizer(rules),
		Synthesizer: s.synth,
		Tagger:      s.tagger,
		Album:       s.cfg.TTS.Album,
		Artist:      s.cfg.TTS.Artist,
	}, s.logger)
	if err != nil {
		return services.Wrap(services.ErrStore, "audio", "open cache", s.cfg.Paths.AudioCacheDir, err)
	}
	s.cache = cache
	if s.synth == nil {
		logging.WarnWithContext(s.logger, "synthesis disabled, using cached audio only", "tts_disabled",
			logging.String(logging.FieldErrorHint, "set "+config.TTSAPIKeyEnv+" and tts.enabled = true to synthesize new audio"),
			logging.String(logging.FieldImpact, "segments without cached audio are marked skip"),
		)
	}
	return nil
}

func (s *audioStage) Execute(ctx context.Context, run *stage.Run) error {
	err := s.cache.ResolveAll(ctx, run.Segments)
	run.Audio = s.cache.Stats()
	if err != nil {
		return err
	}
	s.logger.Info("audio resolved",
		logging.Int("synthesized", run.Audio.Synthesized),
		logging.Int("reused", run.Audio.Reused),
		logging.Int("skipped", run.Audio.Skipped),
		logging.Int("missing", run.Audio.Missing),
		logging.Int("failed", run.Audio.Failed),
		logging.Int("tag_failures", run.Audio.TagFailures),
	)
	return nil
}

// prune removes output artifacts the run did not reference.
func (s *audioStage) prune(run *stage.Run) error {
	if s.cache == nil {
		return nil
	}
	removed, err := s.cache.Prune()
	run.Audio = s.cache.Stats()
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info("stale audio pruned from output", logging.Int("removed", removed))
	}
	return nil
}

func (s *audioStage) HealthCheck(context.Context) stage.Health {
	const name = "audio"
	if s.synth == nil {
		return stage.Degraded(name, "synthesis disabled; cached audio only")
	}
	return stage.Healthy(name)
}

// LoadRules reads the normalization rule document. An unset path or a missing
// file falls back to the defaults; a malformed file is a configuration error
// because it would change every cache key.
func LoadRules(path string, logger *slog.Logger) (ttsrules.Rules, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if path == "" {
		return ttsrules.DefaultRules(), nil
	}
	rules, err := ttsrules.LoadRules(path)
	if err == nil {
		logger.Debug("tts rules loaded",
			logging.String("path", path),
			logging.Int("phonetics", len(rules.Phonetics)),
		)
		return rules, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		logging.WarnWithContext(logger, "tts rules not found, using defaults", "tts_rules_missing",
			logging.String("path", path),
			logging.String(logging.FieldErrorHint, "check paths.tts_rules"),
			logging.String(logging.FieldImpact, "audio keys may differ from the web client's"),
		)
		return ttsrules.DefaultRules(), nil
	}
	return ttsrules.Rules{}, services.Wrap(services.ErrConfiguration, "audio", "load tts rules", path, err)
}
