package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier-api/internal/api/shared"
	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/service"
)

// mockTaskService implements service.TaskService with function fields.
type mockTaskService struct {
	submitFn  func(ctx context.Context, kind domain.TaskKind, parentRef uuid.UUID, params domain.TaskParams) (*domain.GenerationTask, error)
	getTaskFn func(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error)
}

func (m *mockTaskService) Submit(
	ctx context.Context,
	kind domain.TaskKind,
	parentRef uuid.UUID,
	params domain.TaskParams,
) (*domain.GenerationTask, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, kind, parentRef, params)
	}
	return nil, errors.New("submitFn not configured")
}

func (m *mockTaskService) GetTask(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error) {
	if m.getTaskFn != nil {
		return m.getTaskFn(ctx, id)
	}
	return nil, errors.New("getTaskFn not configured")
}

var _ service.TaskService = (*mockTaskService)(nil)

func newTaskHandler(svc *mockTaskService) *TaskHandler {
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTaskHandler(svc, testLogger)
}

// submitRequest builds an authenticated POST /api/tasks request.
func submitRequest(t *testing.T, body interface{}, userID uuid.UUID) *http.Request {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))
	}
	return req
}

// getTaskRequest builds an authenticated GET /api/tasks/{taskId} request.
func getTaskRequest(t *testing.T, taskID string, userID uuid.UUID) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/"+taskID, nil)

	rctx := chi.NewRouteContext()
	if taskID != "" {
		rctx.URLParams.Add("taskId", taskID)
	}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	if userID != uuid.Nil {
		req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))
	}
	return req
}

func newTaskSnapshot(t *testing.T, kind domain.TaskKind, parentRef uuid.UUID, params domain.TaskParams) *domain.GenerationTask {
	t.Helper()
	task, err := domain.NewGenerationTask(kind, parentRef, params)
	require.NoError(t, err)
	return task
}

func TestSubmitTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	projectID := uuid.New()

	t.Run("valid submission returns 201 with initial snapshot", func(t *testing.T) {
		t.Parallel()

		var gotKind domain.TaskKind
		var gotParent uuid.UUID
		svc := &mockTaskService{
			submitFn: func(ctx context.Context, kind domain.TaskKind, parentRef uuid.UUID, params domain.TaskParams) (*domain.GenerationTask, error) {
				gotKind = kind
				gotParent = parentRef
				return newTaskSnapshot(t, kind, parentRef, params), nil
			},
		}
		handler := newTaskHandler(svc)

		req := submitRequest(t, map[string]interface{}{
			"kind":          "document",
			"parent_ref":    projectID.String(),
			"document_type": "requirements",
		}, userID)
		rr := httptest.NewRecorder()
		handler.SubmitTask(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, domain.TaskKindDocument, gotKind)
		assert.Equal(t, projectID, gotParent)

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.NotEqual(t, uuid.Nil, resp.TaskID)
		assert.Equal(t, string(domain.TaskStatusInProgress), resp.Status)
		assert.Equal(t, 0, resp.Progress)
		assert.Nil(t, resp.ResultRef)
	})

	t.Run("unknown kind rejected before reaching the service", func(t *testing.T) {
		t.Parallel()

		called := false
		svc := &mockTaskService{
			submitFn: func(ctx context.Context, kind domain.TaskKind, parentRef uuid.UUID, params domain.TaskParams) (*domain.GenerationTask, error) {
				called = true
				return nil, nil
			},
		}
		handler := newTaskHandler(svc)

		req := submitRequest(t, map[string]interface{}{
			"kind":       "mind_reading",
			"parent_ref": projectID.String(),
		}, userID)
		rr := httptest.NewRecorder()
		handler.SubmitTask(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, called)
	})

	t.Run("missing parent ref rejected", func(t *testing.T) {
		t.Parallel()

		handler := newTaskHandler(&mockTaskService{})

		req := submitRequest(t, map[string]interface{}{
			"kind":          "document",
			"document_type": "requirements",
		}, userID)
		rr := httptest.NewRecorder()
		handler.SubmitTask(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("kind specific validation failure maps to 400", func(t *testing.T) {
		t.Parallel()

		svc := &mockTaskService{
			submitFn: func(ctx context.Context, kind domain.TaskKind, parentRef uuid.UUID, params domain.TaskParams) (*domain.GenerationTask, error) {
				_, err := domain.NewGenerationTask(kind, parentRef, params)
				return nil, err
			},
		}
		handler := newTaskHandler(svc)

		// document kind without a document type
		req := submitRequest(t, map[string]interface{}{
			"kind":       "document",
			"parent_ref": projectID.String(),
		}, userID)
		rr := httptest.NewRecorder()
		handler.SubmitTask(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown parent maps to 404", func(t *testing.T) {
		t.Parallel()

		svc := &mockTaskService{
			submitFn: func(ctx context.Context, kind domain.TaskKind, parentRef uuid.UUID, params domain.TaskParams) (*domain.GenerationTask, error) {
				return nil, service.ErrParentNotFound
			},
		}
		handler := newTaskHandler(svc)

		req := submitRequest(t, map[string]interface{}{
			"kind":          "document",
			"parent_ref":    projectID.String(),
			"document_type": "requirements",
		}, userID)
		rr := httptest.NewRecorder()
		handler.SubmitTask(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("service failure maps to 500", func(t *testing.T) {
		t.Parallel()

		svc := &mockTaskService{
			submitFn: func(ctx context.Context, kind domain.TaskKind, parentRef uuid.UUID, params domain.TaskParams) (*domain.GenerationTask, error) {
				return nil, errors.New("database unavailable")
			},
		}
		handler := newTaskHandler(svc)

		req := submitRequest(t, map[string]interface{}{
			"kind":          "document",
			"parent_ref":    projectID.String(),
			"document_type": "requirements",
		}, userID)
		rr := httptest.NewRecorder()
		handler.SubmitTask(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("missing user in context returns 401", func(t *testing.T) {
		t.Parallel()

		handler := newTaskHandler(&mockTaskService{})

		req := submitRequest(t, map[string]interface{}{
			"kind":          "document",
			"parent_ref":    projectID.String(),
			"document_type": "requirements",
		}, uuid.Nil)
		rr := httptest.NewRecorder()
		handler.SubmitTask(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		t.Parallel()

		handler := newTaskHandler(&mockTaskService{})

		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader([]byte("{broken")))
		req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))
		rr := httptest.NewRecorder()
		handler.SubmitTask(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	projectID := uuid.New()

	t.Run("returns current snapshot", func(t *testing.T) {
		t.Parallel()

		resultRef := uuid.New()
		task := newTaskSnapshot(t, domain.TaskKindDocument, projectID, domain.TaskParams{DocumentType: "requirements"})
		task.Status = domain.TaskStatusCompleted
		task.Progress = 100
		task.ResultRef = &resultRef

		svc := &mockTaskService{
			getTaskFn: func(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error) {
				require.Equal(t, task.ID, id)
				return task, nil
			},
		}
		handler := newTaskHandler(svc)

		req := getTaskRequest(t, task.ID.String(), userID)
		rr := httptest.NewRecorder()
		handler.GetTask(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, task.ID, resp.TaskID)
		assert.Equal(t, string(domain.TaskStatusCompleted), resp.Status)
		assert.Equal(t, 100, resp.Progress)
		require.NotNil(t, resp.ResultRef)
		assert.Equal(t, resultRef, *resp.ResultRef)
	})

	t.Run("unknown task returns 404", func(t *testing.T) {
		t.Parallel()

		svc := &mockTaskService{
			getTaskFn: func(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error) {
				return nil, service.ErrTaskNotFound
			},
		}
		handler := newTaskHandler(svc)

		req := getTaskRequest(t, uuid.New().String(), userID)
		rr := httptest.NewRecorder()
		handler.GetTask(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		t.Parallel()

		handler := newTaskHandler(&mockTaskService{})

		req := getTaskRequest(t, "not-a-uuid", userID)
		rr := httptest.NewRecorder()
		handler.GetTask(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing user in context returns 401", func(t *testing.T) {
		t.Parallel()

		handler := newTaskHandler(&mockTaskService{})

		req := getTaskRequest(t, uuid.New().String(), uuid.Nil)
		rr := httptest.NewRecorder()
		handler.GetTask(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
