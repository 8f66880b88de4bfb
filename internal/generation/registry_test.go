package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	echo := GeneratorFunc(func(ctx context.Context, system, user string) (string, error) {
		return system + "|" + user, nil
	})

	t.Run("lookup returns registered backend", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register("gemini", echo)

		backend, err := registry.Lookup("gemini")
		require.NoError(t, err)

		out, err := backend.Generate(context.Background(), "sys", "usr")
		require.NoError(t, err)
		assert.Equal(t, "sys|usr", out)
	})

	t.Run("unknown provider", func(t *testing.T) {
		registry := NewRegistry()

		_, err := registry.Lookup("chatgpt")
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("providers are sorted", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register("ollama", echo)
		registry.Register("gemini", echo)

		assert.Equal(t, []string{"gemini", "ollama"}, registry.Providers())
	})
}
