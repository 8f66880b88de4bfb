package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Project and Template
var (
	ErrEmptyProjectID    = errors.New("project ID cannot be empty")
	ErrEmptyProjectName  = errors.New("project name cannot be empty")
	ErrEmptyTemplateID   = errors.New("template ID cannot be empty")
	ErrEmptyTemplateBody = errors.New("template content cannot be empty")
)

// Project is the top-level entity generation tasks attach their output to.
type Project struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProject creates a new Project owned by the given user.
func NewProject(ownerID uuid.UUID, name string) (*Project, error) {
	project := &Project{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	return project, nil
}

// Validate checks if the Project has valid data.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProjectID
	}
	if p.Name == "" {
		return ErrEmptyProjectName
	}
	return nil
}

// TemplateKeyInfoSlot is the placeholder a proposal template carries for
// the AI-extracted key information.
const TemplateKeyInfoSlot = "{{key_info}}"

// Template is a proposal template. Content contains the key-info slot that
// proposal generation fills in.
type Template struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the Template has valid data.
func (t *Template) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTemplateID
	}
	if t.Content == "" {
		return ErrEmptyTemplateBody
	}
	return nil
}
