package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/store"
	"github.com/atelierhq/atelier-api/internal/task"
)

// ArtifactWriter dispatches finished generation output to the artifact
// store for its kind. It implements task.ArtifactWriter.
type ArtifactWriter struct {
	documents store.DocumentStore
	codes     store.SourceCodeStore
	checks    store.QualityCheckStore
	estimates store.WorkEstimateStore
	proposals store.ProposalStore
	logger    *slog.Logger
}

var _ task.ArtifactWriter = (*ArtifactWriter)(nil)

// NewArtifactWriter creates an ArtifactWriter over the artifact stores.
func NewArtifactWriter(
	documents store.DocumentStore,
	codes store.SourceCodeStore,
	checks store.QualityCheckStore,
	estimates store.WorkEstimateStore,
	proposals store.ProposalStore,
	logger *slog.Logger,
) *ArtifactWriter {
	return &ArtifactWriter{
		documents: documents,
		codes:     codes,
		checks:    checks,
		estimates: estimates,
		proposals: proposals,
		logger:    logger.With("component", "artifact_writer"),
	}
}

// Write implements task.ArtifactWriter. The returned id becomes the task's
// result reference.
func (w *ArtifactWriter) Write(
	ctx context.Context,
	kind domain.TaskKind,
	projectID uuid.UUID,
	content task.ArtifactContent,
) (uuid.UUID, error) {
	switch kind {
	case domain.TaskKindDocument:
		doc, err := domain.NewDocument(projectID, content.DocumentType, content.Body)
		if err != nil {
			return uuid.Nil, fmt.Errorf("building document artifact: %w", err)
		}
		if err := w.documents.Create(ctx, doc); err != nil {
			return uuid.Nil, fmt.Errorf("saving document artifact: %w", err)
		}
		return doc.ID, nil

	case domain.TaskKindSourceCode:
		code, err := domain.NewSourceCode(projectID, content.FileName, content.Language, content.Body)
		if err != nil {
			return uuid.Nil, fmt.Errorf("building source code artifact: %w", err)
		}
		if err := w.codes.Create(ctx, code); err != nil {
			return uuid.Nil, fmt.Errorf("saving source code artifact: %w", err)
		}
		return code.ID, nil

	case domain.TaskKindConsistencyCheck, domain.TaskKindQualityCheck:
		check, err := domain.NewQualityCheck(projectID, content.CheckType, content.Body)
		if err != nil {
			return uuid.Nil, fmt.Errorf("building check artifact: %w", err)
		}
		if err := w.checks.Create(ctx, check); err != nil {
			return uuid.Nil, fmt.Errorf("saving check artifact: %w", err)
		}
		return check.ID, nil

	case domain.TaskKindWorkEstimate:
		estimate, err := domain.NewWorkEstimate(projectID, content.Body)
		if err != nil {
			return uuid.Nil, fmt.Errorf("building estimate artifact: %w", err)
		}
		if err := w.estimates.Create(ctx, estimate); err != nil {
			return uuid.Nil, fmt.Errorf("saving estimate artifact: %w", err)
		}
		return estimate.ID, nil

	case domain.TaskKindProposal:
		proposal, err := domain.NewProposal(projectID, content.Body)
		if err != nil {
			return uuid.Nil, fmt.Errorf("building proposal artifact: %w", err)
		}
		if err := w.proposals.Create(ctx, proposal); err != nil {
			return uuid.Nil, fmt.Errorf("saving proposal artifact: %w", err)
		}
		return proposal.ID, nil

	default:
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInvalidTaskKind, kind)
	}
}
