package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/platform/logger"
	"github.com/atelierhq/atelier-api/internal/store"
)

// ProjectStore implements the store.ProjectStore interface using a
// PostgreSQL database. The task engine only reads projects, so the store
// exposes lookups and nothing else.
type ProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProjectStore creates a new PostgreSQL implementation of the
// ProjectStore interface. If logger is nil, a default logger will be used.
func NewProjectStore(db store.DBTX, logger *slog.Logger) *ProjectStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ProjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "project_store")),
	}
}

// Ensure ProjectStore implements store.ProjectStore interface
var _ store.ProjectStore = (*ProjectStore)(nil)

// GetByID implements store.ProjectStore.GetByID
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *ProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var project domain.Project
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("project not found", slog.String("project_id", id.String()))
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project by ID",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return nil, err
	}

	return &project, nil
}

// WithTx returns a new ProjectStore that runs on the given transaction.
func (s *ProjectStore) WithTx(tx *sql.Tx) store.ProjectStore {
	return &ProjectStore{
		db:     tx,
		logger: s.logger,
	}
}

// TemplateStore implements the store.TemplateStore interface using a
// PostgreSQL database.
type TemplateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTemplateStore creates a new PostgreSQL implementation of the
// TemplateStore interface. If logger is nil, a default logger will be used.
func NewTemplateStore(db store.DBTX, logger *slog.Logger) *TemplateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TemplateStore{
		db:     db,
		logger: logger.With(slog.String("component", "template_store")),
	}
}

// Ensure TemplateStore implements store.TemplateStore interface
var _ store.TemplateStore = (*TemplateStore)(nil)

// GetByID implements store.TemplateStore.GetByID
// Returns store.ErrTemplateNotFound if the template does not exist.
func (s *TemplateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, content, created_at, updated_at
		FROM templates
		WHERE id = $1
	`

	var template domain.Template
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&template.ID,
		&template.Name,
		&template.Content,
		&template.CreatedAt,
		&template.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("template not found", slog.String("template_id", id.String()))
			return nil, store.ErrTemplateNotFound
		}
		log.Error("failed to get template by ID",
			slog.String("error", err.Error()),
			slog.String("template_id", id.String()))
		return nil, err
	}

	return &template, nil
}

// WithTx returns a new TemplateStore that runs on the given transaction.
func (s *TemplateStore) WithTx(tx *sql.Tx) store.TemplateStore {
	return &TemplateStore{
		db:     tx,
		logger: s.logger,
	}
}
