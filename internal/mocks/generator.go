package mocks

import (
	"context"
	"sync"

	"github.com/atelierhq/atelier-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Default response values
	Output string
	Err    error

	// Call tracking for verification
	mu            sync.Mutex
	calls         int
	systemPrompts []string
	userPrompts   []string
}

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.systemPrompts = append(m.systemPrompts, systemPrompt)
	m.userPrompts = append(m.userPrompts, userPrompt)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, systemPrompt, userPrompt)
	}
	return m.Output, m.Err
}

// Calls returns how many times Generate was invoked.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// UserPrompts returns a copy of the user prompts passed to Generate.
func (m *MockGenerator) UserPrompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.userPrompts...)
}

// Ensure MockGenerator implements the generation.Generator interface
var _ generation.Generator = (*MockGenerator)(nil)
