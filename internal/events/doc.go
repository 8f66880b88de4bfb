// Package events decouples task submission from task execution.
//
// The HTTP-facing service persists a generation task row and emits a
// TaskRequestEvent; a handler in the task package turns the event into a
// work unit and hands it to the runner. Neither side imports the other,
// which keeps the submission path free of engine dependencies.
package events
