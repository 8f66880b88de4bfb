package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-api/internal/domain"
)

// MockTask is a simple implementation of the Task interface for testing
type MockTask struct {
	TaskID    uuid.UUID
	TaskKind  domain.TaskKind
	ExecuteFn func(ctx context.Context) error
}

// NewMockTask creates a new MockTask with the given kind
func NewMockTask(kind domain.TaskKind) *MockTask {
	return &MockTask{
		TaskID:    uuid.New(),
		TaskKind:  kind,
		ExecuteFn: func(ctx context.Context) error { return nil },
	}
}

// ID returns the task's unique identifier
func (t *MockTask) ID() uuid.UUID {
	return t.TaskID
}

// Kind returns the task kind
func (t *MockTask) Kind() domain.TaskKind {
	return t.TaskKind
}

// Execute runs the task logic
func (t *MockTask) Execute(ctx context.Context) error {
	return t.ExecuteFn(ctx)
}
