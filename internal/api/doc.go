// Package api exposes the HTTP surface: login, task submission, and task
// polling. Handlers translate requests into service calls and map service
// errors onto status codes without leaking internals.
package api
