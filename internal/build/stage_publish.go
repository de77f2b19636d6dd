package build

import (
	"context"
	"log/slog"
	"time"

	"gioibon/internal/config"
	"gioibon/internal/document"
	"gioibon/internal/logging"
	"gioibon/internal/publish"
	"gioibon/internal/services"
	"gioibon/internal/stage"
)

type publishStage struct {
	cfg    *config.Config
	now    func() time.Time
	logger *slog.Logger
}

func newPublishStage(cfg *config.Config, now func() time.Time) *publishStage {
	return &publishStage{cfg: cfg, now: now, logger: logging.NewNop()}
}

func (s *publishStage) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *publishStage) Prepare(_ context.Context, run *stage.Run) error {
	for _, seg := range run.Segments {
		if seg.Audio == document.AudioUnresolved {
			return services.Wrap(services.ErrValidation, "publish", "check segments", "segment audio left unresolved", nil)
		}
	}
	return nil
}

func (s *publishStage) Execute(ctx context.Context, run *stage.Run) error {
	publisher := publish.New(publish.Options{
		TSVPath:    s.cfg.Paths.TSVOut,
		DBPath:     s.cfg.Paths.DBOut,
		IndexLabel: s.cfg.Store.IndexLabel,
		Now:        s.now,
	}, s.logger)
	result, err := publisher.Save(ctx, run.Segments)
	run.Publish = result
	return err
}

func (s *publishStage) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("publish")
}
