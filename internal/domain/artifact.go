package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for artifacts
var (
	ErrEmptyArtifactID      = errors.New("artifact ID cannot be empty")
	ErrEmptyProjectRef      = errors.New("artifact project ID cannot be empty")
	ErrEmptyArtifactContent = errors.New("artifact content cannot be empty")
)

// Document is a generated project document (requirements, design, etc.).
// Content is structured JSON text produced by the generator.
type Document struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDocument creates a Document scoped to the given project.
func NewDocument(projectID uuid.UUID, docType, content string) (*Document, error) {
	doc := &Document{
		ID:        uuid.New(),
		ProjectID: projectID,
		Type:      docType,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the Document has valid data.
func (d *Document) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyArtifactID
	}
	if d.ProjectID == uuid.Nil {
		return ErrEmptyProjectRef
	}
	if d.Content == "" {
		return ErrEmptyArtifactContent
	}
	return nil
}

// SourceCode is a generated source file attached to a project.
type SourceCode struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	FileName  string    `json:"file_name"`
	Language  string    `json:"language"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSourceCode creates a SourceCode artifact. The file name is derived
// from the target language by the caller.
func NewSourceCode(projectID uuid.UUID, fileName, language, content string) (*SourceCode, error) {
	code := &SourceCode{
		ID:        uuid.New(),
		ProjectID: projectID,
		FileName:  fileName,
		Language:  language,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := code.Validate(); err != nil {
		return nil, err
	}

	return code, nil
}

// Validate checks if the SourceCode has valid data.
func (c *SourceCode) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyArtifactID
	}
	if c.ProjectID == uuid.Nil {
		return ErrEmptyProjectRef
	}
	if c.Content == "" {
		return ErrEmptyArtifactContent
	}
	return nil
}

// QualityCheckType distinguishes what a quality check row was run against.
type QualityCheckType string

// Quality check row types. Consistency checks share the table with
// document and source quality checks.
const (
	QualityCheckTypeConsistency QualityCheckType = "consistency"
	QualityCheckTypeDocument    QualityCheckType = "document"
	QualityCheckTypeSourceCode  QualityCheckType = "source_code"
)

// QualityCheck stores the structured result of a consistency or quality
// analysis. Result holds the generator's JSON output (score, issues,
// suggestions).
type QualityCheck struct {
	ID        uuid.UUID        `json:"id"`
	ProjectID uuid.UUID        `json:"project_id"`
	Type      QualityCheckType `json:"type"`
	Result    string           `json:"result"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewQualityCheck creates a QualityCheck artifact.
func NewQualityCheck(projectID uuid.UUID, checkType QualityCheckType, result string) (*QualityCheck, error) {
	check := &QualityCheck{
		ID:        uuid.New(),
		ProjectID: projectID,
		Type:      checkType,
		Result:    result,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := check.Validate(); err != nil {
		return nil, err
	}

	return check, nil
}

// Validate checks if the QualityCheck has valid data.
func (q *QualityCheck) Validate() error {
	if q.ID == uuid.Nil {
		return ErrEmptyArtifactID
	}
	if q.ProjectID == uuid.Nil {
		return ErrEmptyProjectRef
	}
	if q.Result == "" {
		return ErrEmptyArtifactContent
	}
	return nil
}

// WorkEstimate stores an effort estimate for a project. Estimate holds the
// generator's JSON output (total hours and per-phase breakdown).
type WorkEstimate struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Estimate  string    `json:"estimate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWorkEstimate creates a WorkEstimate artifact.
func NewWorkEstimate(projectID uuid.UUID, estimate string) (*WorkEstimate, error) {
	we := &WorkEstimate{
		ID:        uuid.New(),
		ProjectID: projectID,
		Estimate:  estimate,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := we.Validate(); err != nil {
		return nil, err
	}

	return we, nil
}

// Validate checks if the WorkEstimate has valid data.
func (w *WorkEstimate) Validate() error {
	if w.ID == uuid.Nil {
		return ErrEmptyArtifactID
	}
	if w.ProjectID == uuid.Nil {
		return ErrEmptyProjectRef
	}
	if w.Estimate == "" {
		return ErrEmptyArtifactContent
	}
	return nil
}

// Proposal is a generated proposal document built from a template and the
// project's accumulated deliverables.
type Proposal struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProposal creates a Proposal artifact.
func NewProposal(projectID uuid.UUID, content string) (*Proposal, error) {
	p := &Proposal{
		ID:        uuid.New(),
		ProjectID: projectID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Proposal has valid data.
func (p *Proposal) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyArtifactID
	}
	if p.ProjectID == uuid.Nil {
		return ErrEmptyProjectRef
	}
	if p.Content == "" {
		return ErrEmptyArtifactContent
	}
	return nil
}
