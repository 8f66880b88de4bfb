package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-api/internal/domain"
)

// ErrNilSnapshot is returned when an event is created without a task row.
var ErrNilSnapshot = errors.New("task request event requires a task snapshot")

// TaskRequestEvent announces that a generation task row has been persisted
// and background work for it should be launched. The snapshot carries the
// row as it was written, so handlers never re-read it.
type TaskRequestEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Kind is the generation task kind the event refers to
	Kind domain.TaskKind `json:"kind"`

	// Snapshot is the persisted task row at submission time
	Snapshot *domain.GenerationTask `json:"snapshot"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskRequestEvent creates a TaskRequestEvent for a persisted task.
func NewTaskRequestEvent(snapshot *domain.GenerationTask) (*TaskRequestEvent, error) {
	if snapshot == nil {
		return nil, ErrNilSnapshot
	}

	return &TaskRequestEvent{
		ID:        uuid.New(),
		Kind:      snapshot.Kind,
		Snapshot:  snapshot,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskRequestEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *TaskRequestEvent) error
}
