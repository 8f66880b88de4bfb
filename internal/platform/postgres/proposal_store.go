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

// ProposalStore implements the store.ProposalStore interface using a
// PostgreSQL database as the storage backend.
type ProposalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProposalStore creates a new PostgreSQL implementation of the
// ProposalStore interface. If logger is nil, a default logger will be used.
func NewProposalStore(db store.DBTX, logger *slog.Logger) *ProposalStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ProposalStore{
		db:     db,
		logger: logger.With(slog.String("component", "proposal_store")),
	}
}

// Ensure ProposalStore implements store.ProposalStore interface
var _ store.ProposalStore = (*ProposalStore)(nil)

// Create implements store.ProposalStore.Create
// Returns store.ErrInvalidEntity if the project doesn't exist (foreign key
// violation).
func (s *ProposalStore) Create(ctx context.Context, proposal *domain.Proposal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := proposal.Validate(); err != nil {
		log.Warn("proposal validation failed during create",
			slog.String("error", err.Error()),
			slog.String("proposal_id", proposal.ID.String()))
		return err
	}

	query := `
		INSERT INTO proposals (id, project_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		proposal.ID,
		proposal.ProjectID,
		proposal.Content,
		proposal.CreatedAt,
		proposal.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during proposal creation",
				slog.String("error", err.Error()),
				slog.String("proposal_id", proposal.ID.String()),
				slog.String("project_id", proposal.ProjectID.String()))
			return fmt.Errorf("%w: project with ID %s not found",
				store.ErrInvalidEntity, proposal.ProjectID)
		}

		log.Error("failed to create proposal",
			slog.String("error", err.Error()),
			slog.String("proposal_id", proposal.ID.String()))
		return MapError(err)
	}

	log.Info("proposal created successfully",
		slog.String("proposal_id", proposal.ID.String()),
		slog.String("project_id", proposal.ProjectID.String()))
	return nil
}

// GetByID implements store.ProposalStore.GetByID
// Returns store.ErrProposalNotFound if the proposal does not exist.
func (s *ProposalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, project_id, content, created_at, updated_at
		FROM proposals
		WHERE id = $1
	`

	var proposal domain.Proposal
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&proposal.ID,
		&proposal.ProjectID,
		&proposal.Content,
		&proposal.CreatedAt,
		&proposal.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("proposal not found", slog.String("proposal_id", id.String()))
			return nil, store.ErrProposalNotFound
		}
		log.Error("failed to get proposal by ID",
			slog.String("error", err.Error()),
			slog.String("proposal_id", id.String()))
		return nil, err
	}

	return &proposal, nil
}

// WithTx returns a new ProposalStore that runs on the given transaction.
func (s *ProposalStore) WithTx(tx *sql.Tx) store.ProposalStore {
	return &ProposalStore{
		db:     tx,
		logger: s.logger,
	}
}
