package directory

import (
	"context"
	"fmt"
)

// Resolver translates identifier sequences into ordered user records
type Resolver struct {
	dir Service
}

// NewResolver creates a resolver over the given directory service
func NewResolver(dir Service) *Resolver {
	return &Resolver{dir: dir}
}

// ResolveByIDs resolves user ids into records, output order equal to
// input order. Positions with no matching directory record hold nil.
// Duplicate ids each resolve independently to the same record.
func (r *Resolver) ResolveByIDs(ctx context.Context, ids []string) ([]*UserRecord, error) {
	if len(ids) == 0 {
		return []*UserRecord{}, nil
	}

	records, err := r.dir.LookupByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up users by id: %w", err)
	}

	return project(ids, records, func(u UserRecord) string { return u.ID }), nil
}

// ResolveByEmails resolves user emails into records with the same
// ordering contract as ResolveByIDs.
func (r *Resolver) ResolveByEmails(ctx context.Context, emails []string) ([]*UserRecord, error) {
	if len(emails) == 0 {
		return []*UserRecord{}, nil
	}

	records, err := r.dir.LookupByEmails(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to look up users by email: %w", err)
	}

	return project(emails, records, func(u UserRecord) string { return u.Email }), nil
}

// project builds a key -> record index over the unordered directory
// result, then emits one entry per input key in input order. O(n+m)
// instead of rescanning the result list per identifier.
func project(keys []string, records []UserRecord, keyOf func(UserRecord) string) []*UserRecord {
	index := make(map[string]*UserRecord, len(records))
	for i := range records {
		index[keyOf(records[i])] = &records[i]
	}

	ordered := make([]*UserRecord, len(keys))
	for i, key := range keys {
		ordered[i] = index[key]
	}
	return ordered
}
