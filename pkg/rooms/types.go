package rooms

import (
	"context"
	"time"

	"github.com/quillhq/quill/pkg/access"
)

// Metadata keys that every room carries. CreatorID and CreatorEmail are
// immutable after creation; only Title may change.
const (
	MetaCreatorID    = "creatorId"
	MetaCreatorEmail = "creatorEmail"
	MetaTitle        = "title"
)

// DefaultTitle is assigned to newly created documents
const DefaultTitle = "Untitled"

// Room represents a collaborative document's access and metadata record
type Room struct {
	ID              string                 `json:"id"`
	Metadata        map[string]string      `json:"metadata"`
	UsersAccesses   map[string]access.List `json:"usersAccesses"`
	DefaultAccesses access.List            `json:"defaultAccesses"`
	CreatedAt       time.Time              `json:"createdAt,omitempty"`
	UpdatedAt       time.Time              `json:"updatedAt,omitempty"`
}

// Title returns the room's display title
func (r *Room) Title() string {
	return r.Metadata[MetaTitle]
}

// CreatorEmail returns the email recorded at creation time
func (r *Room) CreatorEmail() string {
	return r.Metadata[MetaCreatorEmail]
}

// RoleFor derives the effective role for an email. Users absent from the
// access list fall back to the room's default accesses.
func (r *Room) RoleFor(email string) (access.Role, bool) {
	if perms, ok := r.UsersAccesses[email]; ok {
		return access.ResolveRole(perms), true
	}
	if len(r.DefaultAccesses) > 0 {
		return access.ResolveRole(r.DefaultAccesses), true
	}
	return "", false
}

// CreateRoomParams holds the full initial state of a new room
type CreateRoomParams struct {
	ID              string                 `json:"id"`
	Metadata        map[string]string      `json:"metadata"`
	UsersAccesses   map[string]access.List `json:"usersAccesses"`
	DefaultAccesses access.List            `json:"defaultAccesses"`
}

// RoomUpdate describes a partial mutation of a room. Only the supplied
// metadata keys are merged; nil fields are left untouched upstream.
type RoomUpdate struct {
	Metadata        map[string]string      `json:"metadata,omitempty"`
	UsersAccesses   map[string]access.List `json:"usersAccesses,omitempty"`
	DefaultAccesses *access.List           `json:"defaultAccesses,omitempty"`
}

// Store is the narrow interface to the collaboration backend's room
// persistence. All calls are side-effecting against external state and
// must honor context cancellation.
type Store interface {
	CreateRoom(ctx context.Context, params CreateRoomParams) (*Room, error)
	GetRoom(ctx context.Context, roomID string) (*Room, error)
	UpdateRoom(ctx context.Context, roomID string, update RoomUpdate) (*Room, error)
	DeleteRoom(ctx context.Context, roomID string) error
}
