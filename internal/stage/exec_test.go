package stage_test

import (
	"context"
	"errors"
	"testing"

	"gioibon/internal/document"
	"gioibon/internal/services"
	"gioibon/internal/stage"
)

type stubHandler struct {
	prepareErr error
	executeErr error
	stages     []string
}

func (s *stubHandler) Prepare(ctx context.Context, _ *stage.Run) error {
	name, _ := services.StageFromContext(ctx)
	s.stages = append(s.stages, "prepare:"+name)
	return s.prepareErr
}

func (s *stubHandler) Execute(ctx context.Context, run *stage.Run) error {
	name, _ := services.StageFromContext(ctx)
	s.stages = append(s.stages, "execute:"+name)
	if s.executeErr != nil {
		return s.executeErr
	}
	run.Segments = append(run.Segments, document.Segment{UID: 1})
	return nil
}

func (s *stubHandler) HealthCheck(context.Context) stage.Health { return stage.Healthy("stub") }

func TestExecuteRunsPrepareThenExecute(t *testing.T) {
	handler := &stubHandler{}
	run := &stage.Run{ID: "run-1"}
	if err := stage.Execute(context.Background(), nil, "parse", handler, run); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(handler.stages) != 2 || handler.stages[0] != "prepare:parse" || handler.stages[1] != "execute:parse" {
		t.Fatalf("unexpected call order %v", handler.stages)
	}
	if len(run.Segments) != 1 {
		t.Fatalf("expected stage output on run, got %d segments", len(run.Segments))
	}
}

func TestExecuteStopsOnPrepareFailure(t *testing.T) {
	wantErr := services.Wrap(services.ErrInputMissing, "parse", "read source", "missing", nil)
	handler := &stubHandler{prepareErr: wantErr}
	err := stage.Execute(context.Background(), nil, "parse", handler, &stage.Run{})
	if !errors.Is(err, services.ErrInputMissing) {
		t.Fatalf("expected input missing error, got %v", err)
	}
	if len(handler.stages) != 1 {
		t.Fatalf("expected execute to be skipped, got %v", handler.stages)
	}
}

func TestExecuteRequiresHandler(t *testing.T) {
	if err := stage.Execute(context.Background(), nil, "audio", nil, &stage.Run{}); err == nil {
		t.Fatal("expected error for missing handler")
	}
}

func TestHealthConstructors(t *testing.T) {
	if h := stage.Degraded("audio", "synthesis disabled"); !h.Ready || h.Detail == "" {
		t.Fatalf("unexpected degraded health %+v", h)
	}
	if h := stage.Unhealthy("publish", "db dir not writable"); h.Ready {
		t.Fatalf("unexpected unhealthy health %+v", h)
	}
}
