package task

import (
	"context"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/google/uuid"
)

// Task represents a unit of background work to be processed.
type Task interface {
	// ID returns the identifier of the generation task this work belongs to
	ID() uuid.UUID

	// Kind returns the task kind being generated
	Kind() domain.TaskKind

	// Execute runs the task logic. Errors returned here are logged by the
	// runner; they never reach the client that submitted the task.
	Execute(ctx context.Context) error
}

// QueueReader provides read-only access to the task channel,
// allowing workers to consume tasks without the ability to enqueue.
type QueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// QueueWriter provides write access to the task queue,
// allowing services to enqueue tasks for processing.
type QueueWriter interface {
	// Enqueue adds a task to the queue for processing.
	// Returns an error if the queue is full or closed.
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}

// ProgressStore is the slice of the task store a work unit needs to flush
// its checkpoints. Satisfied by store.TaskStore.
type ProgressStore interface {
	// UpdateProgress sets the progress of an in-flight task
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error

	// Complete marks the task completed and attaches the artifact reference
	Complete(ctx context.Context, id uuid.UUID, resultRef uuid.UUID) error

	// Fail marks the task failed with no artifact reference
	Fail(ctx context.Context, id uuid.UUID) error
}

// InputSource provides the read-only lookups a work unit uses to gather
// generation input before prompting. Implemented by the service layer over
// the project/document/source/template/estimate stores.
type InputSource interface {
	GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	GetSourceCode(ctx context.Context, id uuid.UUID) (*domain.SourceCode, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	ProjectDocuments(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.Document, error)
	ProjectSourceCodes(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.SourceCode, error)
	PastEstimates(ctx context.Context, limit int) ([]*domain.WorkEstimate, error)
}

// ArtifactContent is the kind-specific payload handed to the ArtifactWriter.
// Body is always set; the remaining fields matter only to particular kinds.
type ArtifactContent struct {
	Body         string
	DocumentType string
	FileName     string
	Language     string
	CheckType    domain.QualityCheckType
}

// ArtifactWriter persists a finished artifact and returns its identifier.
// It is attempted at most once per task; a failed write deterministically
// fails the task.
type ArtifactWriter interface {
	Write(ctx context.Context, kind domain.TaskKind, projectID uuid.UUID, content ArtifactContent) (uuid.UUID, error)
}
