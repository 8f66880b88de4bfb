package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/generation"
)

// pastEstimateWindow bounds how many historic estimates feed the average
// used by work estimation.
const pastEstimateWindow = 10

// inputDocumentLimit bounds how many project documents are folded into a
// prompt for document and proposal generation.
const inputDocumentLimit = 20

// workInput is everything gather collects before the generation phase.
// ProjectID is resolved from the parent even when the parent is a document.
type workInput struct {
	projectID uuid.UUID
	system    string
	user      string
	template  *domain.Template
}

// GenerationWorkUnit executes one generation task end to end: gather input,
// flush the midpoint checkpoint, call the generator (degrading to fallback
// content on provider failure), persist the artifact and close out the task
// row. It implements Task and touches no row but its own.
type GenerationWorkUnit struct {
	taskID    uuid.UUID
	kind      domain.TaskKind
	parentRef uuid.UUID
	params    domain.TaskParams
	progress  ProgressStore
	inputs    InputSource
	artifacts ArtifactWriter
	generator generation.Generator
	logger    *slog.Logger
}

var _ Task = (*GenerationWorkUnit)(nil)

// NewGenerationWorkUnit builds a work unit for an already-persisted task
// row. The snapshot carries everything the unit needs; it never re-reads
// its own row.
func NewGenerationWorkUnit(
	snapshot *domain.GenerationTask,
	progress ProgressStore,
	inputs InputSource,
	artifacts ArtifactWriter,
	generator generation.Generator,
	logger *slog.Logger,
) (*GenerationWorkUnit, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("task snapshot cannot be nil")
	}
	if progress == nil {
		return nil, fmt.Errorf("progress store cannot be nil")
	}
	if inputs == nil {
		return nil, fmt.Errorf("input source cannot be nil")
	}
	if artifacts == nil {
		return nil, fmt.Errorf("artifact writer cannot be nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &GenerationWorkUnit{
		taskID:    snapshot.ID,
		kind:      snapshot.Kind,
		parentRef: snapshot.ParentRef,
		params:    snapshot.Params,
		progress:  progress,
		inputs:    inputs,
		artifacts: artifacts,
		generator: generator,
		logger:    logger.With("task_id", snapshot.ID, "task_kind", snapshot.Kind),
	}, nil
}

// ID implements Task.
func (w *GenerationWorkUnit) ID() uuid.UUID {
	return w.taskID
}

// Kind implements Task.
func (w *GenerationWorkUnit) Kind() domain.TaskKind {
	return w.kind
}

// Execute runs the generation pipeline. Only two outcomes exist for the
// task row: completed with a result reference, or failed with none. A
// provider failure is not a task failure; input gathering and artifact
// persistence failures are.
func (w *GenerationWorkUnit) Execute(ctx context.Context) error {
	input, err := w.gather(ctx)
	if err != nil {
		w.markFailed(ctx, fmt.Errorf("gathering input: %w", err))
		return fmt.Errorf("gathering input for task %s: %w", w.taskID, err)
	}

	// Midpoint checkpoint. A failed write here is logged and skipped; the
	// pipeline continues toward a terminal state either way.
	if err := w.progress.UpdateProgress(ctx, w.taskID, domain.ProgressGenerated); err != nil {
		w.logger.Warn("failed to flush progress checkpoint",
			"progress", domain.ProgressGenerated,
			"error", err)
	}

	content := w.generate(ctx, input)

	resultRef, err := w.artifacts.Write(ctx, w.kind, input.projectID, content)
	if err != nil {
		w.markFailed(ctx, fmt.Errorf("persisting artifact: %w", err))
		return fmt.Errorf("persisting artifact for task %s: %w", w.taskID, err)
	}

	if err := w.progress.Complete(ctx, w.taskID, resultRef); err != nil {
		return fmt.Errorf("completing task %s: %w", w.taskID, err)
	}

	w.logger.Info("task completed", "result_ref", resultRef)
	return nil
}

// gather collects generation input for the task kind. Errors here mean the
// referenced entities could not be read and the task will be failed.
func (w *GenerationWorkUnit) gather(ctx context.Context) (*workInput, error) {
	switch w.kind {
	case domain.TaskKindDocument:
		return w.gatherDocument(ctx)
	case domain.TaskKindSourceCode:
		return w.gatherSourceCode(ctx)
	case domain.TaskKindConsistencyCheck:
		return w.gatherConsistencyCheck(ctx)
	case domain.TaskKindQualityCheck:
		return w.gatherQualityCheck(ctx)
	case domain.TaskKindWorkEstimate:
		return w.gatherWorkEstimate(ctx)
	case domain.TaskKindProposal:
		return w.gatherProposal(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTaskKind, w.kind)
	}
}

func (w *GenerationWorkUnit) gatherDocument(ctx context.Context) (*workInput, error) {
	project, err := w.inputs.GetProject(ctx, w.parentRef)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", w.parentRef, err)
	}

	docs, err := w.inputs.ProjectDocuments(ctx, project.ID, inputDocumentLimit)
	if err != nil {
		return nil, fmt.Errorf("loading project documents: %w", err)
	}

	system, user := documentPrompts(project.Name, w.params.DocumentType, docs)
	return &workInput{projectID: project.ID, system: system, user: user}, nil
}

func (w *GenerationWorkUnit) gatherSourceCode(ctx context.Context) (*workInput, error) {
	parent, err := w.inputs.GetDocument(ctx, w.parentRef)
	if err != nil {
		return nil, fmt.Errorf("loading parent document %s: %w", w.parentRef, err)
	}

	system, user := sourceCodePrompts(w.params.Language, parent)
	return &workInput{projectID: parent.ProjectID, system: system, user: user}, nil
}

func (w *GenerationWorkUnit) gatherConsistencyCheck(ctx context.Context) (*workInput, error) {
	project, err := w.inputs.GetProject(ctx, w.parentRef)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", w.parentRef, err)
	}

	docs := make([]*domain.Document, 0, len(w.params.DocumentIDs))
	for _, id := range w.params.DocumentIDs {
		doc, err := w.inputs.GetDocument(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading document %s: %w", id, err)
		}
		docs = append(docs, doc)
	}

	system, user := consistencyPrompts(docs)
	return &workInput{projectID: project.ID, system: system, user: user}, nil
}

func (w *GenerationWorkUnit) gatherQualityCheck(ctx context.Context) (*workInput, error) {
	project, err := w.inputs.GetProject(ctx, w.parentRef)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", w.parentRef, err)
	}

	docs := make([]*domain.Document, 0, len(w.params.DocumentIDs))
	for _, id := range w.params.DocumentIDs {
		doc, err := w.inputs.GetDocument(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading document %s: %w", id, err)
		}
		docs = append(docs, doc)
	}

	codes := make([]*domain.SourceCode, 0, len(w.params.SourceCodeIDs))
	for _, id := range w.params.SourceCodeIDs {
		code, err := w.inputs.GetSourceCode(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading source code %s: %w", id, err)
		}
		codes = append(codes, code)
	}

	system, user := qualityPrompts(docs, codes)
	return &workInput{projectID: project.ID, system: system, user: user}, nil
}

func (w *GenerationWorkUnit) gatherWorkEstimate(ctx context.Context) (*workInput, error) {
	project, err := w.inputs.GetProject(ctx, w.parentRef)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", w.parentRef, err)
	}

	docs, err := w.inputs.ProjectDocuments(ctx, project.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("loading project documents: %w", err)
	}

	codes, err := w.inputs.ProjectSourceCodes(ctx, project.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("loading project source codes: %w", err)
	}

	past, err := w.inputs.PastEstimates(ctx, pastEstimateWindow)
	if err != nil {
		return nil, fmt.Errorf("loading past estimates: %w", err)
	}

	metrics := projectMetrics{
		DocumentCount:   len(docs),
		SourceCodeCount: len(codes),
	}
	for _, doc := range docs {
		metrics.TotalChars += len(doc.Content)
	}
	for _, code := range codes {
		metrics.TotalChars += len(code.Content)
	}
	metrics.AverageHours = averageEstimateHours(past)

	system, user := workEstimatePrompts(project.Name, metrics)
	return &workInput{projectID: project.ID, system: system, user: user}, nil
}

func (w *GenerationWorkUnit) gatherProposal(ctx context.Context) (*workInput, error) {
	project, err := w.inputs.GetProject(ctx, w.parentRef)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", w.parentRef, err)
	}

	template, err := w.inputs.GetTemplate(ctx, w.params.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("loading template %s: %w", w.params.TemplateID, err)
	}

	docs, err := w.inputs.ProjectDocuments(ctx, project.ID, inputDocumentLimit)
	if err != nil {
		return nil, fmt.Errorf("loading project documents: %w", err)
	}

	system, user := proposalKeyInfoPrompts(docs)
	return &workInput{projectID: project.ID, system: system, user: user, template: template}, nil
}

// generate produces artifact content from the gathered input. Provider
// failures degrade to deterministic fallback content, never to a failed
// task.
func (w *GenerationWorkUnit) generate(ctx context.Context, input *workInput) ArtifactContent {
	if w.kind == domain.TaskKindProposal {
		return ArtifactContent{Body: w.generateProposal(ctx, input)}
	}

	body, err := w.generator.Generate(ctx, input.system, input.user)
	if err != nil {
		w.logger.Warn("generation failed, substituting fallback content", "error", err)
		body = fallbackBody(w.kind)
	}

	content := ArtifactContent{Body: body}
	switch w.kind {
	case domain.TaskKindDocument:
		content.DocumentType = w.params.DocumentType
	case domain.TaskKindSourceCode:
		content.Language = w.params.Language
		content.FileName = generatedFileName(w.params.Language)
	case domain.TaskKindConsistencyCheck:
		content.CheckType = domain.QualityCheckTypeConsistency
	case domain.TaskKindQualityCheck:
		content.CheckType = qualityTargetType(w.params)
	}
	return content
}

// generateProposal runs the two-step proposal flow: extract key info, fill
// the template slot, then ask the generator to optimize the draft. Each
// step degrades independently when the provider fails.
func (w *GenerationWorkUnit) generateProposal(ctx context.Context, input *workInput) string {
	keyInfo, err := w.generator.Generate(ctx, input.system, input.user)
	if err != nil {
		w.logger.Warn("key info extraction failed, substituting fallback", "error", err)
		keyInfo = fallbackKeyInfo
	}

	draft := strings.Replace(input.template.Content, domain.TemplateKeyInfoSlot, keyInfo, 1)

	optimizeSystem, optimizeUser := proposalOptimizePrompts(draft)
	optimized, err := w.generator.Generate(ctx, optimizeSystem, optimizeUser)
	if err != nil {
		w.logger.Warn("proposal optimization failed, keeping unoptimized draft", "error", err)
		return draft
	}

	return optimized
}

// markFailed drives the row to its failed terminal state. A store failure
// here leaves the row stuck in_progress; there is nothing left to do but
// log it.
func (w *GenerationWorkUnit) markFailed(ctx context.Context, cause error) {
	w.logger.Error("task failed", "error", cause)

	if err := w.progress.Fail(ctx, w.taskID); err != nil {
		w.logger.Error("failed to mark task as failed", "error", err)
	}
}

// qualityTargetType picks the quality check row type from which target ids
// were submitted. Document review wins when both are present.
func qualityTargetType(params domain.TaskParams) domain.QualityCheckType {
	if len(params.DocumentIDs) > 0 {
		return domain.QualityCheckTypeDocument
	}
	return domain.QualityCheckTypeSourceCode
}

// averageEstimateHours pulls total_hours out of past estimate payloads and
// averages them. Estimates whose payload does not parse are skipped.
func averageEstimateHours(estimates []*domain.WorkEstimate) float64 {
	var sum float64
	var count int
	for _, est := range estimates {
		hours, ok := parseTotalHours(est.Estimate)
		if !ok {
			continue
		}
		sum += hours
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// parseTotalHours extracts total_hours from an estimate JSON payload.
func parseTotalHours(payload string) (float64, bool) {
	var parsed struct {
		TotalHours float64 `json:"total_hours"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return 0, false
	}
	if parsed.TotalHours <= 0 {
		return 0, false
	}
	return parsed.TotalHours, true
}
