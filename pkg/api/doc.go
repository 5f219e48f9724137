// Package api implements the HTTP surface of the document service.
//
// # Overview
//
// The server exposes document lifecycle operations over REST. Every
// route requires an authenticated principal; the caller's email drives
// access resolution for the room behind each document.
//
// # Routes
//
//	POST   /api/documents                  create a document
//	GET    /api/documents/{id}             fetch a document and the caller's role
//	PATCH  /api/documents/{id}             rename a document
//	DELETE /api/documents/{id}             delete a document
//	GET    /api/documents/{id}/members     search shareable member emails
//	GET    /api/documents/{id}/users       list members with directory profiles
//
// # Error Mapping
//
// Store errors map onto HTTP status codes: not-found to 404, conflict
// to 409, validation to 400, access-denied to 403 and upstream
// unavailability to 503. Anything else is a 500.
package api
