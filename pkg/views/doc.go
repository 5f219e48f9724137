// Package views signals external view layers that a room's derived view
// is stale.
//
// The document service raises an invalidation after every successful
// create, update and delete. The Redis implementation deletes the
// rendered-view keys that an external listing layer maintains; Nop is
// for deployments without one. Invalidation failures are logged by the
// caller and never fail the originating operation.
package views
