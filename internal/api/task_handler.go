package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/atelierhq/atelier-api/internal/api/shared"
	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/platform/logger"
	"github.com/atelierhq/atelier-api/internal/service"
)

// TaskHandler handles generation-task API requests. Submission returns as
// soon as the task row is persisted; clients observe progress by polling
// the GET endpoint.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      log.With("component", "task_handler"),
	}
}

// SubmitTask handles POST /api/tasks. It validates the payload, hands the
// work to the task service and responds 201 with the initial snapshot
// (in_progress, progress 0) without waiting for generation.
func (h *TaskHandler) SubmitTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req SubmitTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	params := domain.TaskParams{
		DocumentType:  req.DocumentType,
		Language:      req.Language,
		DocumentIDs:   req.DocumentIDs,
		SourceCodeIDs: req.SourceCodeIDs,
		TemplateID:    req.TemplateID,
	}

	task, err := h.taskService.Submit(r.Context(), domain.TaskKind(req.Kind), req.ParentRef, params)
	if err != nil {
		log.Debug("task submission rejected",
			slog.String("kind", req.Kind),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("task submitted",
		slog.String("task_id", task.ID.String()),
		slog.String("kind", string(task.Kind)),
		slog.String("user_id", userID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, newTaskResponse(task))
}

// GetTask handles GET /api/tasks/{taskId}. Every call re-reads the task
// row, so polling eventually observes the terminal state written by the
// background worker.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, taskID, ok := handleUserIDAndPathUUID(w, r, "taskId", log)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

// newTaskResponse converts a task snapshot into its API representation.
func newTaskResponse(task *domain.GenerationTask) TaskResponse {
	return TaskResponse{
		TaskID:    task.ID,
		Kind:      string(task.Kind),
		Status:    string(task.Status),
		Progress:  task.Progress,
		ResultRef: task.ResultRef,
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
		UpdatedAt: task.UpdatedAt.Format(time.RFC3339),
	}
}
