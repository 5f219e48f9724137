package identity

import "context"

// Principal is the authenticated caller of a request. UserID is the
// provider's stable subject identifier; Email is the address access
// lists are keyed by.
type Principal struct {
	UserID string
	Email  string
	Name   string
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal attaches a principal to the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext retrieves the authenticated principal from the context
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}
