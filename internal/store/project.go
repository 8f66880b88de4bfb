package store

import (
	"context"
	"database/sql"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/google/uuid"
)

// ProjectStore defines read access to projects. Projects are created by the
// rest of the system; the task engine only validates parent references and
// gathers generation input.
type ProjectStore interface {
	// GetByID retrieves a project by its unique ID.
	// Returns ErrProjectNotFound if the project does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// WithTx returns a new ProjectStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProjectStore
}

// TemplateStore defines read access to proposal templates.
type TemplateStore interface {
	// GetByID retrieves a template by its unique ID.
	// Returns ErrTemplateNotFound if the template does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error)

	// WithTx returns a new TemplateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TemplateStore
}
