// Package rooms defines the room record model and the Store interface to
// the collaboration backend that owns room persistence.
//
// # Overview
//
// A Room is the access-control and metadata record for one collaborative
// document. The realtime sync channel itself lives entirely in the
// backend; this package only creates, reads, updates and deletes room
// records.
//
// Two Store implementations are provided:
//
//   - Client: talks to a hosted collaboration backend over its REST API.
//   - PostgresStore: self-hosted room persistence backed by Postgres.
//
// # Errors
//
// Store operations fail with one of the typed errors in errors.go:
// NotFoundError, ConflictError, UnavailableError or ValidationError.
// Callers may retry only UnavailableError; the Client itself retries
// idempotent reads once on transient failure but never retries creates
// or deletes.
package rooms
