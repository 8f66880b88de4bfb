package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier-api/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent(t *testing.T) *TaskRequestEvent {
	t.Helper()

	snapshot, err := domain.NewGenerationTask(
		domain.TaskKindProposal,
		uuid.New(),
		domain.TaskParams{TemplateID: uuid.New()},
	)
	require.NoError(t, err)

	event, err := NewTaskRequestEvent(snapshot)
	require.NoError(t, err)
	return event
}

func TestInMemoryEventEmitter_EmitEvent(t *testing.T) {
	t.Parallel()

	t.Run("delivers to all handlers", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(discardLogger())

		var delivered int
		for i := 0; i < 3; i++ {
			emitter.RegisterHandler(handlerFunc(func(_ context.Context, _ *TaskRequestEvent) error {
				delivered++
				return nil
			}))
		}

		require.NoError(t, emitter.EmitEvent(context.Background(), testEvent(t)))
		assert.Equal(t, 3, delivered)
	})

	t.Run("no handlers is not an error", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(discardLogger())
		assert.NoError(t, emitter.EmitEvent(context.Background(), testEvent(t)))
	})

	t.Run("handler failure does not skip remaining handlers", func(t *testing.T) {
		t.Parallel()

		emitter := NewInMemoryEventEmitter(discardLogger())
		handlerErr := errors.New("handler exploded")

		var secondCalled bool
		emitter.RegisterHandler(handlerFunc(func(_ context.Context, _ *TaskRequestEvent) error {
			return handlerErr
		}))
		emitter.RegisterHandler(handlerFunc(func(_ context.Context, _ *TaskRequestEvent) error {
			secondCalled = true
			return nil
		}))

		err := emitter.EmitEvent(context.Background(), testEvent(t))
		assert.ErrorIs(t, err, handlerErr)
		assert.True(t, secondCalled)
	})
}
