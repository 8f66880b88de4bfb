package gemini

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/atelierhq/atelier-api/internal/config"
	"github.com/atelierhq/atelier-api/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestNewGeneratorValidation(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewGenerator(context.Background(), nil, config.LLMConfig{
			GeminiAPIKey: "key",
			GeminiModel:  "gemini-2.0-flash",
		})
		assert.Error(t, err)
	})

	t.Run("missing API key", func(t *testing.T) {
		_, err := NewGenerator(context.Background(), logger, config.LLMConfig{
			GeminiModel: "gemini-2.0-flash",
		})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("missing model", func(t *testing.T) {
		_, err := NewGenerator(context.Background(), logger, config.LLMConfig{
			GeminiAPIKey: "key",
		})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}
