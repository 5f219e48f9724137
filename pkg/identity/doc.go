// Package identity authenticates incoming requests against an OpenID
// Connect provider and carries the resulting principal through the
// request context. Handlers read the caller's stable user id and email
// from the context; they never touch raw tokens.
package identity
