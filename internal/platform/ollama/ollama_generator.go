// Package ollama implements the generation.Generator interface against a
// local or remote Ollama server. It exists as the self-hosted alternative
// to the Gemini backend; the two are interchangeable behind the provider
// registry.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/atelierhq/atelier-api/internal/config"
	"github.com/atelierhq/atelier-api/internal/generation"
	"github.com/ollama/ollama/api"
)

// Generator implements generation.Generator using the Ollama chat API.
type Generator struct {
	logger *slog.Logger
	client *api.Client
	model  string
}

// NewGenerator creates a new Ollama-backed Generator pointed at the
// configured host. Returns an error if the configuration is incomplete or
// the host URL is malformed.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.OllamaHost == "" {
		return nil, fmt.Errorf("%w: ollama host cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.OllamaModel == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	base, err := url.Parse(cfg.OllamaHost)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ollama host %q: %v",
			generation.ErrInvalidConfig, cfg.OllamaHost, err)
	}

	return &Generator{
		logger: logger.With("component", "ollama_generator"),
		client: api.NewClient(base, http.DefaultClient),
		model:  cfg.OllamaModel,
	}, nil
}

// Ensure Generator implements the generation.Generator interface
var _ generation.Generator = (*Generator)(nil)

// Generate sends the system instruction and user payload as a two-message
// chat and returns the accumulated response text. There is no internal
// retry; the caller owns fallback behavior.
func (g *Generator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if userPrompt == "" {
		return "", fmt.Errorf("%w: empty user prompt", generation.ErrGenerationFailed)
	}

	messages := make([]api.Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, api.Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, api.Message{Role: "user", Content: userPrompt})

	stream := false
	req := &api.ChatRequest{
		Model:    g.model,
		Messages: messages,
		Stream:   &stream,
	}

	g.logger.DebugContext(ctx, "making Ollama chat call",
		"model", g.model,
		"prompt_length", len(userPrompt))

	var sb strings.Builder
	err := g.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "Ollama chat call failed", "error", err)
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	text := sb.String()
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	g.logger.DebugContext(ctx, "Ollama chat call successful", "response_length", len(text))
	return text, nil
}
