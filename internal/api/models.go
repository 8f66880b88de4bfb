package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT access token used for API authorization
	Token string `json:"token"`
}

// SubmitTaskRequest defines the payload for the task submission endpoint.
// Kind selects the generation pipeline; ParentRef names the resource the
// result will belong to (a document for source_code, a project otherwise).
// The remaining fields are kind-specific and validated server-side against
// the requested kind.
type SubmitTaskRequest struct {
	Kind      string    `json:"kind"       validate:"required,oneof=document source_code consistency_check quality_check work_estimate proposal"`
	ParentRef uuid.UUID `json:"parent_ref" validate:"required"`

	DocumentType  string      `json:"document_type,omitempty"`
	Language      string      `json:"language,omitempty"`
	DocumentIDs   []uuid.UUID `json:"document_ids,omitempty"`
	SourceCodeIDs []uuid.UUID `json:"source_code_ids,omitempty"`
	TemplateID    uuid.UUID   `json:"template_id,omitempty"`
}

// TaskResponse defines the representation of a generation task returned by
// the submission and polling endpoints.
type TaskResponse struct {
	TaskID    uuid.UUID  `json:"task_id"`
	Kind      string     `json:"kind"`
	Status    string     `json:"status"`
	Progress  int        `json:"progress"`
	ResultRef *uuid.UUID `json:"result_ref,omitempty"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}
