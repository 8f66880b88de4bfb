package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskKind identifies what a generation task produces.
type TaskKind string

// Recognized generation task kinds.
const (
	TaskKindDocument         TaskKind = "document"
	TaskKindSourceCode       TaskKind = "source_code"
	TaskKindConsistencyCheck TaskKind = "consistency_check"
	TaskKindQualityCheck     TaskKind = "quality_check"
	TaskKindWorkEstimate     TaskKind = "work_estimate"
	TaskKindProposal         TaskKind = "proposal"
)

// TaskStatus represents the lifecycle state of a generation task.
type TaskStatus string

// Possible task status values. Queued exists for modeling completeness but
// tasks transition straight to in_progress at creation.
const (
	TaskStatusQueued     TaskStatus = "queued"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Progress checkpoints flushed by the generation engine.
const (
	ProgressStarted   = 0
	ProgressGenerated = 50
	ProgressDone      = 100
)

// Common validation errors for GenerationTask
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyParentRef     = errors.New("task parent reference cannot be empty")
	ErrInvalidTaskKind    = errors.New("invalid task kind")
	ErrInvalidTaskStatus  = errors.New("invalid task status")
	ErrInvalidProgress    = errors.New("task progress must be between 0 and 100")
	ErrProgressRegression = errors.New("task progress cannot decrease")
	ErrTaskTerminal       = errors.New("task is in a terminal state")
	ErrMissingResultRef   = errors.New("completed task requires a result reference")
)

// TaskParams carries the kind-specific submission parameters. Unused fields
// stay empty; Validate on the task checks the combination for the kind.
type TaskParams struct {
	DocumentType  string      `json:"document_type,omitempty"`
	Language      string      `json:"language,omitempty"`
	DocumentIDs   []uuid.UUID `json:"document_ids,omitempty"`
	SourceCodeIDs []uuid.UUID `json:"source_code_ids,omitempty"`
	TemplateID    uuid.UUID   `json:"template_id,omitempty"`
}

// GenerationTask represents one unit of asynchronous AI generation work.
// The persisted row is the only cross-process handle to the work: clients
// poll it for status and progress, and the finished artifact is linked
// through ResultRef.
type GenerationTask struct {
	ID        uuid.UUID  `json:"id"`
	Kind      TaskKind   `json:"kind"`
	ParentRef uuid.UUID  `json:"parent_ref"`
	Params    TaskParams `json:"params"`
	Status    TaskStatus `json:"status"`
	Progress  int        `json:"progress"`
	ResultRef *uuid.UUID `json:"result_ref,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewGenerationTask creates a new GenerationTask for the given kind and
// parent. The task starts directly in in_progress with progress 0; the
// queued state is never observable because work is launched at creation.
// Returns an error if validation fails.
func NewGenerationTask(kind TaskKind, parentRef uuid.UUID, params TaskParams) (*GenerationTask, error) {
	task := &GenerationTask{
		ID:        uuid.New(),
		Kind:      kind,
		ParentRef: parentRef,
		Params:    params,
		Status:    TaskStatusInProgress,
		Progress:  ProgressStarted,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the GenerationTask has valid data.
// Returns an error if any field fails validation.
func (t *GenerationTask) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.ParentRef == uuid.Nil {
		return ErrEmptyParentRef
	}

	if !isValidTaskKind(t.Kind) {
		return ErrInvalidTaskKind
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if t.Progress < 0 || t.Progress > 100 {
		return ErrInvalidProgress
	}

	if t.Status == TaskStatusCompleted && t.ResultRef == nil {
		return ErrMissingResultRef
	}

	if err := t.Params.validateForKind(t.Kind); err != nil {
		return err
	}

	return nil
}

// validateForKind checks the kind-specific parameter combination.
func (p TaskParams) validateForKind(kind TaskKind) error {
	switch kind {
	case TaskKindDocument:
		if p.DocumentType == "" {
			return fmt.Errorf("%w: document task requires a document type", ErrValidation)
		}
	case TaskKindSourceCode:
		if p.Language == "" {
			return fmt.Errorf("%w: source code task requires a target language", ErrValidation)
		}
	case TaskKindConsistencyCheck:
		if len(p.DocumentIDs) == 0 {
			return fmt.Errorf("%w: consistency check task requires document IDs", ErrValidation)
		}
	case TaskKindQualityCheck:
		if len(p.DocumentIDs) == 0 && len(p.SourceCodeIDs) == 0 {
			return fmt.Errorf("%w: quality check task requires document or source code IDs", ErrValidation)
		}
	case TaskKindProposal:
		if p.TemplateID == uuid.Nil {
			return fmt.Errorf("%w: proposal task requires a template ID", ErrValidation)
		}
	case TaskKindWorkEstimate:
		// No extra parameters.
	}
	return nil
}

// IsTerminal reports whether the task has reached a final state.
// Terminal states are absorbing: no transition ever leaves them.
func (t *GenerationTask) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// AdvanceProgress moves the task's progress forward while it is in flight.
// Progress is monotonic: a lower value than the current one is rejected.
// Returns an error if the task is already terminal.
func (t *GenerationTask) AdvanceProgress(progress int) error {
	if t.IsTerminal() {
		return ErrTaskTerminal
	}

	if progress < 0 || progress > 100 {
		return ErrInvalidProgress
	}

	if progress < t.Progress {
		return ErrProgressRegression
	}

	t.Progress = progress
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete marks the task as successfully finished, attaching the artifact
// reference and forcing progress to 100.
// Returns an error if the task is already terminal.
func (t *GenerationTask) Complete(resultRef uuid.UUID) error {
	if t.IsTerminal() {
		return ErrTaskTerminal
	}

	if resultRef == uuid.Nil {
		return ErrMissingResultRef
	}

	t.Status = TaskStatusCompleted
	t.Progress = ProgressDone
	t.ResultRef = &resultRef
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Fail marks the task as failed, forcing progress to 100 and leaving the
// result reference unset. Artifact persistence failure is the only path here.
// Returns an error if the task is already terminal.
func (t *GenerationTask) Fail() error {
	if t.IsTerminal() {
		return ErrTaskTerminal
	}

	t.Status = TaskStatusFailed
	t.Progress = ProgressDone
	t.ResultRef = nil
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidTaskKind checks if the given kind is a recognized TaskKind.
func isValidTaskKind(kind TaskKind) bool {
	switch kind {
	case TaskKindDocument, TaskKindSourceCode, TaskKindConsistencyCheck,
		TaskKindQualityCheck, TaskKindWorkEstimate, TaskKindProposal:
		return true
	default:
		return false
	}
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusQueued, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}
