// Package documents orchestrates the lifecycle of collaborative
// documents: create, read, update, delete, and membership views.
//
// # Overview
//
// The service composes the room store, the directory resolver and the
// view invalidator. A room moves nonexistent -> active -> deleted;
// delete is terminal and later operations on the id report not-found.
//
// Operations never swallow a backend failure into an empty success:
// every failure surfaces as one of the typed errors in pkg/rooms. The
// only deliberately non-fatal step is view invalidation, which is
// logged and dropped because a stale listing heals on the next write.
//
// Nothing here serializes concurrent operations on the same room; the
// backend is the sole arbiter of concurrent update/delete outcomes.
package documents
