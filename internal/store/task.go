package store

import (
	"context"
	"database/sql"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/google/uuid"
)

// TaskStore defines the interface for generation-task persistence.
// The persisted row is the only cross-process handle to a task: the polling
// endpoint re-reads it on every request, so updates must be immediately
// visible to subsequent reads.
type TaskStore interface {
	// Create saves a new generation task to the store.
	// It handles domain validation internally.
	Create(ctx context.Context, task *domain.GenerationTask) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error)

	// UpdateProgress sets the progress of an in-flight task.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error

	// Complete marks the task completed with progress 100 and attaches the
	// artifact reference.
	// Returns ErrTaskNotFound if the task does not exist.
	Complete(ctx context.Context, id uuid.UUID, resultRef uuid.UUID) error

	// Fail marks the task failed with progress 100 and no result reference.
	// Returns ErrTaskNotFound if the task does not exist.
	Fail(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
