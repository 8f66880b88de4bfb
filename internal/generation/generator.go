package generation

import "context"

// Generator defines the single-call interface to a generative-AI backend.
// This interface serves as a boundary between the task engine and external
// AI/LLM services: one system instruction, one user payload, one text result.
// Implementations carry no retry logic; callers own fallback behavior.
type Generator interface {
	// Generate produces text from the given system instruction and user
	// payload. It returns the generated text or an error if the provider
	// call fails (see errors.go for specific types).
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}
