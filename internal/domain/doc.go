// Package domain holds the core entities of the generation engine: tasks,
// the artifacts they produce, and the projects and users they belong to.
// Entities validate themselves and enforce their own state transitions.
package domain
