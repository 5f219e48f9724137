package api

import (
	"time"

	"github.com/quillhq/quill/pkg/access"
	"github.com/quillhq/quill/pkg/documents"
	"github.com/quillhq/quill/pkg/rooms"
)

// DocumentResponse is the wire representation of a document room
type DocumentResponse struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	CreatorID    string      `json:"creatorId,omitempty"`
	CreatorEmail string      `json:"creatorEmail,omitempty"`
	Role         access.Role `json:"role,omitempty"`
	CreatedAt    time.Time   `json:"createdAt,omitempty"`
	UpdatedAt    time.Time   `json:"updatedAt,omitempty"`
}

// newDocumentResponse maps a room to its wire form
func newDocumentResponse(room *rooms.Room, role access.Role) DocumentResponse {
	return DocumentResponse{
		ID:           room.ID,
		Title:        room.Title(),
		CreatorID:    room.Metadata[rooms.MetaCreatorID],
		CreatorEmail: room.CreatorEmail(),
		Role:         role,
		CreatedAt:    room.CreatedAt,
		UpdatedAt:    room.UpdatedAt,
	}
}

// UpdateTitleRequest is the body of PATCH /api/documents/{id}
type UpdateTitleRequest struct {
	Title string `json:"title"`
}

// MembersResponse is the body of GET /api/documents/{id}/members
type MembersResponse struct {
	Emails []string `json:"emails"`
}

// UsersResponse is the body of GET /api/documents/{id}/users
type UsersResponse struct {
	Users []documents.Member `json:"users"`
}
