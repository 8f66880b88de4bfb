// Package service provides application-level services for task submission,
// artifact persistence, and authentication.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrTaskNotFound indicates that the requested generation task does not
	// exist. API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("generation task not found")

	// ErrParentNotFound indicates that the parent resource a task submission
	// refers to does not exist. API layer should map this to HTTP 404 Not Found.
	ErrParentNotFound = errors.New("parent resource not found")
)
