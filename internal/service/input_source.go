package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/store"
	"github.com/atelierhq/atelier-api/internal/task"
)

// InputSource exposes the read-only store lookups the generation engine
// gathers its prompt input from. It implements task.InputSource.
type InputSource struct {
	projects  store.ProjectStore
	documents store.DocumentStore
	codes     store.SourceCodeStore
	templates store.TemplateStore
	estimates store.WorkEstimateStore
}

var _ task.InputSource = (*InputSource)(nil)

// NewInputSource creates an InputSource over the given stores.
func NewInputSource(
	projects store.ProjectStore,
	documents store.DocumentStore,
	codes store.SourceCodeStore,
	templates store.TemplateStore,
	estimates store.WorkEstimateStore,
) *InputSource {
	return &InputSource{
		projects:  projects,
		documents: documents,
		codes:     codes,
		templates: templates,
		estimates: estimates,
	}
}

// GetProject implements task.InputSource.
func (s *InputSource) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// GetDocument implements task.InputSource.
func (s *InputSource) GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return s.documents.GetByID(ctx, id)
}

// GetSourceCode implements task.InputSource.
func (s *InputSource) GetSourceCode(ctx context.Context, id uuid.UUID) (*domain.SourceCode, error) {
	return s.codes.GetByID(ctx, id)
}

// GetTemplate implements task.InputSource.
func (s *InputSource) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	return s.templates.GetByID(ctx, id)
}

// ProjectDocuments implements task.InputSource.
func (s *InputSource) ProjectDocuments(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.Document, error) {
	return s.documents.FindByProject(ctx, projectID, limit)
}

// ProjectSourceCodes implements task.InputSource.
func (s *InputSource) ProjectSourceCodes(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.SourceCode, error) {
	return s.codes.FindByProject(ctx, projectID, limit)
}

// PastEstimates implements task.InputSource.
func (s *InputSource) PastEstimates(ctx context.Context, limit int) ([]*domain.WorkEstimate, error) {
	return s.estimates.FindAll(ctx, limit)
}
