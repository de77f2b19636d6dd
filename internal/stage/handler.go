package stage

import (
	"context"
	"log/slog"
)

// Handler describes the contract the build pipeline needs from each stage.
type Handler interface {
	Prepare(context.Context, *Run) error
	Execute(context.Context, *Run) error
	HealthCheck(context.Context) Health
}

// LoggerAware stages receive a logger carrying the run and stage fields.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}
