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

// QualityCheckStore implements the store.QualityCheckStore interface using
// a PostgreSQL database. Consistency checks and quality checks share the
// same table, distinguished by the row type.
type QualityCheckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewQualityCheckStore creates a new PostgreSQL implementation of the
// QualityCheckStore interface. If logger is nil, a default logger will be
// used.
func NewQualityCheckStore(db store.DBTX, logger *slog.Logger) *QualityCheckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &QualityCheckStore{
		db:     db,
		logger: logger.With(slog.String("component", "quality_check_store")),
	}
}

// Ensure QualityCheckStore implements store.QualityCheckStore interface
var _ store.QualityCheckStore = (*QualityCheckStore)(nil)

// Create implements store.QualityCheckStore.Create
// Returns store.ErrInvalidEntity if the project doesn't exist (foreign key
// violation).
func (s *QualityCheckStore) Create(ctx context.Context, check *domain.QualityCheck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := check.Validate(); err != nil {
		log.Warn("quality check validation failed during create",
			slog.String("error", err.Error()),
			slog.String("quality_check_id", check.ID.String()))
		return err
	}

	query := `
		INSERT INTO quality_checks (id, project_id, type, result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		check.ID,
		check.ProjectID,
		check.Type,
		check.Result,
		check.CreatedAt,
		check.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during quality check creation",
				slog.String("error", err.Error()),
				slog.String("quality_check_id", check.ID.String()),
				slog.String("project_id", check.ProjectID.String()))
			return fmt.Errorf("%w: project with ID %s not found",
				store.ErrInvalidEntity, check.ProjectID)
		}

		log.Error("failed to create quality check",
			slog.String("error", err.Error()),
			slog.String("quality_check_id", check.ID.String()))
		return MapError(err)
	}

	log.Info("quality check created successfully",
		slog.String("quality_check_id", check.ID.String()),
		slog.String("project_id", check.ProjectID.String()),
		slog.String("type", string(check.Type)))
	return nil
}

// GetByID implements store.QualityCheckStore.GetByID
// Returns store.ErrQualityCheckNotFound if the result does not exist.
func (s *QualityCheckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QualityCheck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, project_id, type, result, created_at, updated_at
		FROM quality_checks
		WHERE id = $1
	`

	var check domain.QualityCheck
	var checkType string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&check.ID,
		&check.ProjectID,
		&checkType,
		&check.Result,
		&check.CreatedAt,
		&check.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("quality check not found", slog.String("quality_check_id", id.String()))
			return nil, store.ErrQualityCheckNotFound
		}
		log.Error("failed to get quality check by ID",
			slog.String("error", err.Error()),
			slog.String("quality_check_id", id.String()))
		return nil, err
	}

	check.Type = domain.QualityCheckType(checkType)

	return &check, nil
}

// WithTx returns a new QualityCheckStore that runs on the given transaction.
func (s *QualityCheckStore) WithTx(tx *sql.Tx) store.QualityCheckStore {
	return &QualityCheckStore{
		db:     tx,
		logger: s.logger,
	}
}
