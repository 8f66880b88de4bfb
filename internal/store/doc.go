// Package store defines the persistence interfaces the services depend on,
// keeping them independent of the concrete database layer.
package store
