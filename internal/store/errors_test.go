package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"wrapped ErrNotFound", fmt.Errorf("lookup failed: %w", ErrNotFound), true},
		{"ErrTaskNotFound", ErrTaskNotFound, true},
		{"ErrProjectNotFound", ErrProjectNotFound, true},
		{"wrapped ErrDocumentNotFound", fmt.Errorf("fetch: %w", ErrDocumentNotFound), true},
		{"ErrDuplicate", ErrDuplicate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	underlying := errors.New("connection reset")
	err := NewStoreError("task", "create", "insert failed", underlying)

	assert.Contains(t, err.Error(), "create operation on task failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, underlying)

	bare := NewStoreError("task", "update", "no rows", nil)
	assert.Equal(t, "update operation on task failed: no rows", bare.Error())
}
