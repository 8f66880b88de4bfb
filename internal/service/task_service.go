package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/events"
	"github.com/atelierhq/atelier-api/internal/store"
)

// TaskRepository is the task persistence surface the service needs. The DB
// accessor exists so row creation can run inside a transaction.
type TaskRepository interface {
	store.TaskStore

	// DB returns the underlying database connection
	DB() *sql.DB
}

// TaskService is the submission and polling surface of the generation
// engine. Submit returns as soon as the task row is persisted and the
// launch event is emitted; all generation work happens in the background.
type TaskService interface {
	// Submit validates the request, persists a new task row in in_progress
	// with progress 0, emits the launch event and returns the row snapshot.
	Submit(ctx context.Context, kind domain.TaskKind, parentRef uuid.UUID, params domain.TaskParams) (*domain.GenerationTask, error)

	// GetTask re-reads the task row. Every call observes the store, so a
	// poll after completion sees the terminal state.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error)
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "submit", "get_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

type taskServiceImpl struct {
	taskRepo     TaskRepository
	projectStore store.ProjectStore
	docStore     store.DocumentStore
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskRepo TaskRepository,
	projectStore store.ProjectStore,
	docStore store.DocumentStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (TaskService, error) {
	if taskRepo == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "taskRepo cannot be nil"}
	}
	if projectStore == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "projectStore cannot be nil"}
	}
	if docStore == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "docStore cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskRepo:     taskRepo,
		projectStore: projectStore,
		docStore:     docStore,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "task_service"),
	}, nil
}

// Submit implements TaskService. Submissions for the same parent are never
// deduplicated; each call creates an independent task row.
func (s *taskServiceImpl) Submit(
	ctx context.Context,
	kind domain.TaskKind,
	parentRef uuid.UUID,
	params domain.TaskParams,
) (*domain.GenerationTask, error) {
	// Kind and params are checked before anything is persisted.
	snapshot, err := domain.NewGenerationTask(kind, parentRef, params)
	if err != nil {
		s.logger.Debug("rejected invalid task submission",
			"error", err,
			"task_kind", kind,
			"parent_ref", parentRef)
		return nil, err
	}

	if err := s.checkParent(ctx, kind, parentRef); err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)
		if err := txRepo.Create(ctx, snapshot); err != nil {
			return &TaskServiceError{
				Operation: "submit",
				Message:   "failed to save task row",
				Err:       err,
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to persist task row",
			"error", err,
			"task_id", snapshot.ID,
			"task_kind", kind)
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", snapshot.ID,
		"task_kind", kind,
		"parent_ref", parentRef)

	event, err := events.NewTaskRequestEvent(snapshot)
	if err != nil {
		return nil, &TaskServiceError{Operation: "submit", Message: "failed to create launch event", Err: err}
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit launch event",
			"error", err,
			"task_id", snapshot.ID,
			"event_id", event.ID)
		return nil, &TaskServiceError{Operation: "submit", Message: "failed to emit launch event", Err: err}
	}

	return snapshot, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error) {
	snapshot, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("failed to retrieve task",
			"error", err,
			"task_id", id)
		return nil, &TaskServiceError{Operation: "get_task", Message: "failed to retrieve task", Err: err}
	}
	return snapshot, nil
}

// checkParent verifies the parent reference exists before a row is created.
// Source code generation parents on a document; every other kind parents on
// a project.
func (s *taskServiceImpl) checkParent(ctx context.Context, kind domain.TaskKind, parentRef uuid.UUID) error {
	var err error
	if kind == domain.TaskKindSourceCode {
		_, err = s.docStore.GetByID(ctx, parentRef)
	} else {
		_, err = s.projectStore.GetByID(ctx, parentRef)
	}

	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("rejected task for unknown parent",
				"task_kind", kind,
				"parent_ref", parentRef)
			return ErrParentNotFound
		}
		return &TaskServiceError{Operation: "submit", Message: "failed to look up parent", Err: err}
	}
	return nil
}
