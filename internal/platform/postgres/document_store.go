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

// DocumentStore implements the store.DocumentStore interface using a
// PostgreSQL database as the storage backend.
type DocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDocumentStore creates a new PostgreSQL implementation of the
// DocumentStore interface. If logger is nil, a default logger will be used.
func NewDocumentStore(db store.DBTX, logger *slog.Logger) *DocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure DocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*DocumentStore)(nil)

// Create implements store.DocumentStore.Create
// It saves a new document to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the project doesn't exist (foreign key
// violation).
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()))
		return err
	}

	query := `
		INSERT INTO documents (id, project_id, type, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.ProjectID,
		doc.Type,
		doc.Content,
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during document creation",
				slog.String("error", err.Error()),
				slog.String("document_id", doc.ID.String()),
				slog.String("project_id", doc.ProjectID.String()))
			return fmt.Errorf("%w: project with ID %s not found",
				store.ErrInvalidEntity, doc.ProjectID)
		}

		log.Error("failed to create document",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()))
		return MapError(err)
	}

	log.Info("document created successfully",
		slog.String("document_id", doc.ID.String()),
		slog.String("project_id", doc.ProjectID.String()),
		slog.String("type", doc.Type))
	return nil
}

// GetByID implements store.DocumentStore.GetByID
// Returns store.ErrDocumentNotFound if the document does not exist.
func (s *DocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, project_id, type, content, created_at, updated_at
		FROM documents
		WHERE id = $1
	`

	var doc domain.Document
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.ProjectID,
		&doc.Type,
		&doc.Content,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("document not found", slog.String("document_id", id.String()))
			return nil, store.ErrDocumentNotFound
		}
		log.Error("failed to get document by ID",
			slog.String("error", err.Error()),
			slog.String("document_id", id.String()))
		return nil, err
	}

	return &doc, nil
}

// FindByProject implements store.DocumentStore.FindByProject
// It retrieves the project's documents, newest first. Returns an empty
// slice when the project has no documents.
func (s *DocumentStore) FindByProject(
	ctx context.Context,
	projectID uuid.UUID,
	limit int,
) ([]*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, project_id, type, content, created_at, updated_at
		FROM documents
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		log.Error("failed to query documents by project",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var docs []*domain.Document
	for rows.Next() {
		var doc domain.Document
		err := rows.Scan(
			&doc.ID,
			&doc.ProjectID,
			&doc.Type,
			&doc.Content,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan document row", slog.String("error", err.Error()))
			return nil, err
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if docs == nil {
		docs = []*domain.Document{}
	}

	return docs, nil
}

// WithTx returns a new DocumentStore that runs on the given transaction.
func (s *DocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return &DocumentStore{
		db:     tx,
		logger: s.logger,
	}
}
