package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/events"
	"github.com/atelierhq/atelier-api/internal/generation"
)

// WorkUnitFactory builds GenerationWorkUnits from persisted task rows. The
// dependencies are fixed at wiring time, including the generator, so no
// provider dispatch happens per task.
type WorkUnitFactory struct {
	progress  ProgressStore
	inputs    InputSource
	artifacts ArtifactWriter
	generator generation.Generator
	logger    *slog.Logger
}

// NewWorkUnitFactory creates a factory with the given engine dependencies.
func NewWorkUnitFactory(
	progress ProgressStore,
	inputs InputSource,
	artifacts ArtifactWriter,
	generator generation.Generator,
	logger *slog.Logger,
) *WorkUnitFactory {
	return &WorkUnitFactory{
		progress:  progress,
		inputs:    inputs,
		artifacts: artifacts,
		generator: generator,
		logger:    logger,
	}
}

// NewWorkUnit builds a work unit for the given task snapshot.
func (f *WorkUnitFactory) NewWorkUnit(snapshot *domain.GenerationTask) (*GenerationWorkUnit, error) {
	return NewGenerationWorkUnit(snapshot, f.progress, f.inputs, f.artifacts, f.generator, f.logger)
}

// TaskSubmitter is the runner surface the event handler needs.
// Satisfied by *Runner.
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// WorkUnitEventHandler turns TaskRequestEvents into work units and submits
// them to the runner. It is the only bridge between the submission path and
// the engine.
type WorkUnitEventHandler struct {
	factory   *WorkUnitFactory
	submitter TaskSubmitter
	logger    *slog.Logger
}

var _ events.EventHandler = (*WorkUnitEventHandler)(nil)

// NewWorkUnitEventHandler creates an event handler backed by the given
// factory and submitter.
func NewWorkUnitEventHandler(
	factory *WorkUnitFactory,
	submitter TaskSubmitter,
	logger *slog.Logger,
) *WorkUnitEventHandler {
	return &WorkUnitEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With("component", "work_unit_event_handler"),
	}
}

// HandleEvent implements events.EventHandler. A failure here means the
// persisted row will never be picked up; the error is surfaced so the
// emitter can log it, but the submission HTTP response has already been
// sent by then.
func (h *WorkUnitEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if event.Snapshot == nil {
		return events.ErrNilSnapshot
	}

	unit, err := h.factory.NewWorkUnit(event.Snapshot)
	if err != nil {
		h.logger.Error("failed to build work unit",
			"error", err,
			"event_id", event.ID,
			"task_id", event.Snapshot.ID)
		return fmt.Errorf("building work unit: %w", err)
	}

	if err := h.submitter.Submit(ctx, unit); err != nil {
		h.logger.Error("failed to submit work unit",
			"error", err,
			"event_id", event.ID,
			"task_id", event.Snapshot.ID)
		return fmt.Errorf("submitting work unit: %w", err)
	}

	h.logger.Debug("work unit submitted",
		"event_id", event.ID,
		"task_id", event.Snapshot.ID,
		"task_kind", event.Kind)
	return nil
}
