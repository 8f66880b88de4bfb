// Package gemini provides the Gemini-backed implementation of the
// generation.Generator interface. It wraps the google.golang.org/genai
// client behind the single-call contract the task engine depends on.
package gemini
