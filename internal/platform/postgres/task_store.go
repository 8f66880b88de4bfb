package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/platform/logger"
	"github.com/atelierhq/atelier-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend. The task row is the only cross-process
// handle to a running generation, so every state transition is written
// through immediately.
type TaskStore struct {
	db     store.DBTX
	sqlDB  *sql.DB
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. The *sql.DB is retained so the service layer can open
// transactions around task creation. If logger is nil, a default logger
// will be used.
func NewTaskStore(db *sql.DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		sqlDB:  db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// DB returns the underlying database handle for transaction management.
func (s *TaskStore) DB() *sql.DB {
	return s.sqlDB
}

// WithTx returns a new TaskStore that runs its statements on the given
// transaction. The original pool handle is retained for DB().
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{
		db:     tx,
		sqlDB:  s.sqlDB,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new generation task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the parent reference doesn't exist
// (foreign key violation).
func (s *TaskStore) Create(ctx context.Context, task *domain.GenerationTask) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	params, err := json.Marshal(task.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal task params: %w", err)
	}

	query := `
		INSERT INTO generation_tasks (id, kind, parent_ref, params, status, progress, result_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Kind,
		task.ParentRef,
		params,
		task.Status,
		task.Progress,
		uuidPtrToNull(task.ResultRef),
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()),
				slog.String("parent_ref", task.ParentRef.String()))
			return fmt.Errorf("%w: parent with ID %s not found",
				store.ErrInvalidEntity, task.ParentRef)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("kind", string(task.Kind)),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, kind, parent_ref, params, status, progress, result_ref, created_at, updated_at
		FROM generation_tasks
		WHERE id = $1
	`

	var task domain.GenerationTask
	var kind, status string
	var params []byte
	var resultRef uuid.NullUUID

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&kind,
		&task.ParentRef,
		&params,
		&status,
		&task.Progress,
		&resultRef,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	if err := json.Unmarshal(params, &task.Params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task params: %w", err)
	}

	task.Kind = domain.TaskKind(kind)
	task.Status = domain.TaskStatus(status)
	if resultRef.Valid {
		task.ResultRef = &resultRef.UUID
	}

	return &task, nil
}

// UpdateProgress implements store.TaskStore.UpdateProgress
// It sets the progress of an in-flight task. Terminal rows never
// transition, and progress never decreases.
// Returns store.ErrTaskNotFound if no in-flight row was updated.
func (s *TaskStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if progress < 0 || progress > 100 {
		return domain.ErrInvalidProgress
	}

	query := `
		UPDATE generation_tasks
		SET progress = $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND progress <= $1
	`

	result, err := s.db.ExecContext(ctx, query, progress, time.Now().UTC(), id, domain.TaskStatusInProgress)
	if err != nil {
		log.Error("failed to update task progress",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()),
			slog.Int("progress", progress))
		return err
	}

	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("no in-flight task row for progress update",
			slog.String("task_id", id.String()),
			slog.Int("progress", progress))
		return err
	}

	log.Debug("task progress updated",
		slog.String("task_id", id.String()),
		slog.Int("progress", progress))
	return nil
}

// Complete implements store.TaskStore.Complete
// It marks the task completed with progress 100 and attaches the artifact
// reference. Terminal rows never transition again.
// Returns store.ErrTaskNotFound if no in-flight row was updated.
func (s *TaskStore) Complete(ctx context.Context, id uuid.UUID, resultRef uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE generation_tasks
		SET status = $1, progress = 100, result_ref = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		domain.TaskStatusCompleted,
		resultRef,
		time.Now().UTC(),
		id,
		domain.TaskStatusInProgress,
	)
	if err != nil {
		log.Error("failed to complete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task completed",
		slog.String("task_id", id.String()),
		slog.String("result_ref", resultRef.String()))
	return nil
}

// Fail implements store.TaskStore.Fail
// It marks the task failed with progress 100 and clears any result
// reference. Terminal rows never transition again.
// Returns store.ErrTaskNotFound if no in-flight row was updated.
func (s *TaskStore) Fail(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE generation_tasks
		SET status = $1, progress = 100, result_ref = NULL, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		domain.TaskStatusFailed,
		time.Now().UTC(),
		id,
		domain.TaskStatusInProgress,
	)
	if err != nil {
		log.Error("failed to mark task failed",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task marked failed", slog.String("task_id", id.String()))
	return nil
}

// uuidPtrToNull converts an optional UUID into its nullable SQL form.
func uuidPtrToNull(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
