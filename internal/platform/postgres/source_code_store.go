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

// SourceCodeStore implements the store.SourceCodeStore interface using a
// PostgreSQL database as the storage backend.
type SourceCodeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSourceCodeStore creates a new PostgreSQL implementation of the
// SourceCodeStore interface. If logger is nil, a default logger will be used.
func NewSourceCodeStore(db store.DBTX, logger *slog.Logger) *SourceCodeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SourceCodeStore{
		db:     db,
		logger: logger.With(slog.String("component", "source_code_store")),
	}
}

// Ensure SourceCodeStore implements store.SourceCodeStore interface
var _ store.SourceCodeStore = (*SourceCodeStore)(nil)

// Create implements store.SourceCodeStore.Create
// Returns store.ErrInvalidEntity if the project doesn't exist (foreign key
// violation).
func (s *SourceCodeStore) Create(ctx context.Context, code *domain.SourceCode) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := code.Validate(); err != nil {
		log.Warn("source code validation failed during create",
			slog.String("error", err.Error()),
			slog.String("source_code_id", code.ID.String()))
		return err
	}

	query := `
		INSERT INTO source_codes (id, project_id, file_name, language, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		code.ID,
		code.ProjectID,
		code.FileName,
		code.Language,
		code.Content,
		code.CreatedAt,
		code.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during source code creation",
				slog.String("error", err.Error()),
				slog.String("source_code_id", code.ID.String()),
				slog.String("project_id", code.ProjectID.String()))
			return fmt.Errorf("%w: project with ID %s not found",
				store.ErrInvalidEntity, code.ProjectID)
		}

		log.Error("failed to create source code",
			slog.String("error", err.Error()),
			slog.String("source_code_id", code.ID.String()))
		return MapError(err)
	}

	log.Info("source code created successfully",
		slog.String("source_code_id", code.ID.String()),
		slog.String("project_id", code.ProjectID.String()),
		slog.String("file_name", code.FileName))
	return nil
}

// GetByID implements store.SourceCodeStore.GetByID
// Returns store.ErrSourceCodeNotFound if the file does not exist.
func (s *SourceCodeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.SourceCode, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, project_id, file_name, language, content, created_at, updated_at
		FROM source_codes
		WHERE id = $1
	`

	var code domain.SourceCode
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&code.ID,
		&code.ProjectID,
		&code.FileName,
		&code.Language,
		&code.Content,
		&code.CreatedAt,
		&code.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("source code not found", slog.String("source_code_id", id.String()))
			return nil, store.ErrSourceCodeNotFound
		}
		log.Error("failed to get source code by ID",
			slog.String("error", err.Error()),
			slog.String("source_code_id", id.String()))
		return nil, err
	}

	return &code, nil
}

// FindByProject implements store.SourceCodeStore.FindByProject
// It retrieves the project's source files, newest first.
func (s *SourceCodeStore) FindByProject(
	ctx context.Context,
	projectID uuid.UUID,
	limit int,
) ([]*domain.SourceCode, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, project_id, file_name, language, content, created_at, updated_at
		FROM source_codes
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		log.Error("failed to query source codes by project",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var codes []*domain.SourceCode
	for rows.Next() {
		var code domain.SourceCode
		err := rows.Scan(
			&code.ID,
			&code.ProjectID,
			&code.FileName,
			&code.Language,
			&code.Content,
			&code.CreatedAt,
			&code.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan source code row", slog.String("error", err.Error()))
			return nil, err
		}
		codes = append(codes, &code)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if codes == nil {
		codes = []*domain.SourceCode{}
	}

	return codes, nil
}

// WithTx returns a new SourceCodeStore that runs on the given transaction.
func (s *SourceCodeStore) WithTx(tx *sql.Tx) store.SourceCodeStore {
	return &SourceCodeStore{
		db:     tx,
		logger: s.logger,
	}
}
