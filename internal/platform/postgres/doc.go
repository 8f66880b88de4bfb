// Package postgres provides PostgreSQL implementations of the store
// interfaces. All stores operate over store.DBTX so the same code runs
// against a connection pool or an open transaction, and all of them map
// driver errors to the store package's sentinel errors.
package postgres
