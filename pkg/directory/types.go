package directory

import "context"

// UserRecord represents a directory-sourced user. This service never
// stores user records, only resolves and re-orders them.
type UserRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Service is the narrow interface to the external identity directory.
// Both lookups return at most one record per matching input and make no
// ordering guarantee; Resolver restores caller order.
type Service interface {
	LookupByIDs(ctx context.Context, ids []string) ([]UserRecord, error)
	LookupByEmails(ctx context.Context, emails []string) ([]UserRecord, error)
}
