package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gioibon/internal/logging"
	"gioibon/internal/services"
)

// Execute runs one stage of a build with stage-scoped logging. Errors are
// returned unchanged so callers can classify them with services.IsFatal.
func Execute(ctx context.Context, logger *slog.Logger, name string, handler Handler, run *Run) error {
	if handler == nil {
		return fmt.Errorf("stage handler unavailable: %s", name)
	}
	if run == nil {
		return errors.New("build run is required")
	}

	stageCtx := services.WithStage(ctx, name)
	stageLogger := logging.WithContext(stageCtx, logger)
	if aware, ok := handler.(LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	start := time.Now()
	stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

	if err := handler.Prepare(stageCtx, run); err != nil {
		return failure(stageLogger, err)
	}
	if err := handler.Execute(stageCtx, run); err != nil {
		return failure(stageLogger, err)
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("segments", len(run.Segments)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func failure(logger *slog.Logger, err error) error {
	if errors.Is(err, context.Canceled) {
		logger.Debug("stage interrupted")
		return err
	}
	logging.ErrorWithContext(logger, "stage failed", "stage_failure",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hintFor(err)),
		logging.String(logging.FieldImpact, "build aborted; published outputs left as they were"),
	)
	return err
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrInputMissing):
		return "check paths.source in the config file"
	case errors.Is(err, services.ErrConfiguration):
		return "run gioibon config validate"
	case errors.Is(err, services.ErrStore):
		return "check permissions and free space for tsv_out and db_out"
	default:
		return "rerun with --log-level debug for details"
	}
}
