package store

import (
	"context"
	"database/sql"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/google/uuid"
)

// DocumentStore defines the interface for document persistence.
type DocumentStore interface {
	// Create saves a new document. It handles domain validation internally.
	// Returns ErrInvalidEntity if the project reference does not exist.
	Create(ctx context.Context, doc *domain.Document) error

	// GetByID retrieves a document by its unique ID.
	// Returns ErrDocumentNotFound if the document does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)

	// FindByProject retrieves the project's documents, newest first.
	// Returns an empty slice when the project has no documents.
	FindByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.Document, error)

	// WithTx returns a new DocumentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DocumentStore
}

// SourceCodeStore defines the interface for generated source file persistence.
type SourceCodeStore interface {
	// Create saves a new source file. It handles domain validation internally.
	Create(ctx context.Context, code *domain.SourceCode) error

	// GetByID retrieves a source file by its unique ID.
	// Returns ErrSourceCodeNotFound if the file does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SourceCode, error)

	// FindByProject retrieves the project's source files, newest first.
	FindByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.SourceCode, error)

	// WithTx returns a new SourceCodeStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SourceCodeStore
}

// QualityCheckStore defines the interface for check-result persistence.
// Consistency checks and quality checks share the same table, distinguished
// by the row type.
type QualityCheckStore interface {
	// Create saves a new check result. It handles domain validation internally.
	Create(ctx context.Context, check *domain.QualityCheck) error

	// GetByID retrieves a check result by its unique ID.
	// Returns ErrQualityCheckNotFound if the result does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.QualityCheck, error)

	// WithTx returns a new QualityCheckStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) QualityCheckStore
}

// WorkEstimateStore defines the interface for work-estimate persistence.
type WorkEstimateStore interface {
	// Create saves a new estimate. It handles domain validation internally.
	Create(ctx context.Context, estimate *domain.WorkEstimate) error

	// GetByID retrieves an estimate by its unique ID.
	// Returns ErrWorkEstimateNotFound if the estimate does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkEstimate, error)

	// FindAll retrieves past estimates across all projects, newest first.
	// Used to fold historic totals into new estimates.
	FindAll(ctx context.Context, limit int) ([]*domain.WorkEstimate, error)

	// WithTx returns a new WorkEstimateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) WorkEstimateStore
}

// ProposalStore defines the interface for proposal persistence.
type ProposalStore interface {
	// Create saves a new proposal. It handles domain validation internally.
	Create(ctx context.Context, proposal *domain.Proposal) error

	// GetByID retrieves a proposal by its unique ID.
	// Returns ErrProposalNotFound if the proposal does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error)

	// WithTx returns a new ProposalStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProposalStore
}
