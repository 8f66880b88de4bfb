package task

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/events"
)

type fakeSubmitter struct {
	submitted []Task
	submitErr error
}

func (s *fakeSubmitter) Submit(_ context.Context, task Task) error {
	if s.submitErr != nil {
		return s.submitErr
	}
	s.submitted = append(s.submitted, task)
	return nil
}

func newTestFactory() *WorkUnitFactory {
	return NewWorkUnitFactory(
		&fakeProgressStore{},
		newFakeInputSource(),
		&fakeArtifactWriter{},
		staticGenerator("content"),
		testLogger(),
	)
}

func TestWorkUnitEventHandler_HandleEvent(t *testing.T) {
	t.Parallel()

	t.Run("builds and submits a work unit", func(t *testing.T) {
		t.Parallel()

		submitter := &fakeSubmitter{}
		handler := NewWorkUnitEventHandler(newTestFactory(), submitter, testLogger())

		snapshot, err := domain.NewGenerationTask(
			domain.TaskKindDocument,
			uuid.New(),
			domain.TaskParams{DocumentType: "requirements"},
		)
		require.NoError(t, err)

		event, err := events.NewTaskRequestEvent(snapshot)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		require.Len(t, submitter.submitted, 1)
		assert.Equal(t, snapshot.ID, submitter.submitted[0].ID())
		assert.Equal(t, snapshot.Kind, submitter.submitted[0].Kind())
	})

	t.Run("missing snapshot", func(t *testing.T) {
		t.Parallel()

		handler := NewWorkUnitEventHandler(newTestFactory(), &fakeSubmitter{}, testLogger())
		event := &events.TaskRequestEvent{ID: uuid.New()}

		err := handler.HandleEvent(context.Background(), event)
		assert.ErrorIs(t, err, events.ErrNilSnapshot)
	})

	t.Run("submitter failure propagates", func(t *testing.T) {
		t.Parallel()

		submitErr := errors.New("queue full")
		handler := NewWorkUnitEventHandler(newTestFactory(), &fakeSubmitter{submitErr: submitErr}, testLogger())

		snapshot, err := domain.NewGenerationTask(
			domain.TaskKindWorkEstimate,
			uuid.New(),
			domain.TaskParams{},
		)
		require.NoError(t, err)

		event, err := events.NewTaskRequestEvent(snapshot)
		require.NoError(t, err)

		err = handler.HandleEvent(context.Background(), event)
		assert.ErrorIs(t, err, submitErr)
	})
}
