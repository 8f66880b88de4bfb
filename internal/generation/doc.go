// Package generation provides interfaces and implementations for interacting
// with external AI/LLM services for content generation. It abstracts the
// details of provider API integration (Gemini, Ollama), allowing the task
// engine to generate deliverable content without coupling to specific
// external services.
package generation
