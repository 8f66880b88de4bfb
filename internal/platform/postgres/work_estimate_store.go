package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/platform/logger"
	"github.com/atelierhq/atelier-api/internal/store"
)

// WorkEstimateStore implements the store.WorkEstimateStore interface using
// a PostgreSQL database as the storage backend.
type WorkEstimateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewWorkEstimateStore creates a new PostgreSQL implementation of the
// WorkEstimateStore interface. If logger is nil, a default logger will be
// used.
func NewWorkEstimateStore(db store.DBTX, logger *slog.Logger) *WorkEstimateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &WorkEstimateStore{
		db:     db,
		logger: logger.With(slog.String("component", "work_estimate_store")),
	}
}

// Ensure WorkEstimateStore implements store.WorkEstimateStore interface
var _ store.WorkEstimateStore = (*WorkEstimateStore)(nil)

// Create implements store.WorkEstimateStore.Create
// Returns store.ErrInvalidEntity if the project doesn't exist (foreign key
// violation).
func (s *WorkEstimateStore) Create(ctx context.Context, estimate *domain.WorkEstimate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := estimate.Validate(); err != nil {
		log.Warn("work estimate validation failed during create",
			slog.String("error", err.Error()),
			slog.String("work_estimate_id", estimate.ID.String()))
		return err
	}

	query := `
		INSERT INTO work_estimates (id, project_id, estimate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		estimate.ID,
		estimate.ProjectID,
		estimate.Estimate,
		estimate.CreatedAt,
		estimate.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during work estimate creation",
				slog.String("error", err.Error()),
				slog.String("work_estimate_id", estimate.ID.String()),
				slog.String("project_id", estimate.ProjectID.String()))
			return fmt.Errorf("%w: project with ID %s not found",
				store.ErrInvalidEntity, estimate.ProjectID)
		}

		log.Error("failed to create work estimate",
			slog.String("error", err.Error()),
			slog.String("work_estimate_id", estimate.ID.String()))
		return MapError(err)
	}

	log.Info("work estimate created successfully",
		slog.String("work_estimate_id", estimate.ID.String()),
		slog.String("project_id", estimate.ProjectID.String()))
	return nil
}

// GetByID implements store.WorkEstimateStore.GetByID
// Returns store.ErrWorkEstimateNotFound if the estimate does not exist.
func (s *WorkEstimateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkEstimate, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, project_id, estimate, created_at, updated_at
		FROM work_estimates
		WHERE id = $1
	`

	var estimate domain.WorkEstimate
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&estimate.ID,
		&estimate.ProjectID,
		&estimate.Estimate,
		&estimate.CreatedAt,
		&estimate.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("work estimate not found", slog.String("work_estimate_id", id.String()))
			return nil, store.ErrWorkEstimateNotFound
		}
		log.Error("failed to get work estimate by ID",
			slog.String("error", err.Error()),
			slog.String("work_estimate_id", id.String()))
		return nil, err
	}

	return &estimate, nil
}

// FindAll implements store.WorkEstimateStore.FindAll
// It retrieves past estimates across all projects, newest first. New
// estimates fold the historic totals into their prompt context.
func (s *WorkEstimateStore) FindAll(ctx context.Context, limit int) ([]*domain.WorkEstimate, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, project_id, estimate, created_at, updated_at
		FROM work_estimates
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to query work estimates", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var estimates []*domain.WorkEstimate
	for rows.Next() {
		var estimate domain.WorkEstimate
		err := rows.Scan(
			&estimate.ID,
			&estimate.ProjectID,
			&estimate.Estimate,
			&estimate.CreatedAt,
			&estimate.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan work estimate row", slog.String("error", err.Error()))
			return nil, err
		}
		estimates = append(estimates, &estimate)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if estimates == nil {
		estimates = []*domain.WorkEstimate{}
	}

	return estimates, nil
}

// WithTx returns a new WorkEstimateStore that runs on the given transaction.
func (s *WorkEstimateStore) WithTx(tx *sql.Tx) store.WorkEstimateStore {
	return &WorkEstimateStore{
		db:     tx,
		logger: s.logger,
	}
}
