package documents

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/quillhq/quill/pkg/access"
	"github.com/quillhq/quill/pkg/rooms"
)

// Member is a directory-hydrated view of one access-list entry with the
// user's derived role. Directory fields stay empty for emails the
// directory cannot resolve; the entry itself is never dropped.
type Member struct {
	Email  string      `json:"email"`
	Role   access.Role `json:"role"`
	ID     string      `json:"id,omitempty"`
	Name   string      `json:"name,omitempty"`
	Avatar string      `json:"avatar,omitempty"`
}

// SearchMembers filters a room's listed emails by case-insensitive
// substring match, excluding the given email. Users covered only by
// defaultAccesses are not listed and therefore never matched. Emails
// are returned in lexical order; an empty query returns all remaining
// entries.
func SearchMembers(room *rooms.Room, excludeEmail, query string) []string {
	emails := make([]string, 0, len(room.UsersAccesses))
	for email := range room.UsersAccesses {
		if email == excludeEmail {
			continue
		}
		emails = append(emails, email)
	}
	sort.Strings(emails)

	if query == "" {
		return emails
	}

	lowerQuery := strings.ToLower(query)
	matched := emails[:0]
	for _, email := range emails {
		if strings.Contains(strings.ToLower(email), lowerQuery) {
			matched = append(matched, email)
		}
	}
	return matched
}

// ListMembers fetches a room and returns its listed emails filtered by
// the query, excluding the caller.
func (s *Service) ListMembers(ctx context.Context, roomID, callerEmail, query string) ([]string, error) {
	start := time.Now()
	room, err := s.store.GetRoom(ctx, roomID)
	s.metrics.ObserveRoomOperation("get", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	return SearchMembers(room, callerEmail, query), nil
}

// ListUsers returns every listed member of a room hydrated with
// directory records and the role derived from their permission list.
// Output order follows the lexical email order of the access list.
func (s *Service) ListUsers(ctx context.Context, roomID string) ([]Member, error) {
	start := time.Now()
	room, err := s.store.GetRoom(ctx, roomID)
	s.metrics.ObserveRoomOperation("get", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(room.UsersAccesses))
	for email := range room.UsersAccesses {
		emails = append(emails, email)
	}
	sort.Strings(emails)

	start = time.Now()
	records, err := s.resolver.ResolveByEmails(ctx, emails)
	s.metrics.ObserveDirectoryLookup("emails", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	members := make([]Member, len(emails))
	for i, email := range emails {
		member := Member{
			Email: email,
			Role:  access.ResolveRole(room.UsersAccesses[email]),
		}
		if record := records[i]; record != nil {
			member.ID = record.ID
			member.Name = record.Name
			member.Avatar = record.Avatar
		}
		members[i] = member
	}
	return members, nil
}
