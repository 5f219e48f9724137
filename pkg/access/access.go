package access

// Permission represents an opaque capability token stored per user per room
type Permission string

const (
	// PermissionWrite grants full edit access to a room
	PermissionWrite Permission = "room:write"
	// PermissionRead grants read-only access to a room
	PermissionRead Permission = "room:read"
	// PermissionPresenceWrite grants presence updates without document edits
	PermissionPresenceWrite Permission = "room:presence:write"
)

// Role represents the derived access classification for a user
type Role string

const (
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// List is an ordered sequence of permission strings as stored on a room
type List []Permission

// ResolveRole derives a role from a permission list. The result is
// RoleEditor iff the list contains PermissionWrite; order and duplicates
// are irrelevant. A nil or empty list resolves to RoleViewer.
func ResolveRole(perms List) Role {
	for _, p := range perms {
		if p == PermissionWrite {
			return RoleEditor
		}
	}
	return RoleViewer
}

// CanWrite reports whether the permission list allows document edits
func (l List) CanWrite() bool {
	return ResolveRole(l) == RoleEditor
}

// EditorAccess returns the permission list granted to editors
func EditorAccess() List {
	return List{PermissionWrite}
}

// ViewerAccess returns the permission list granted to viewers
func ViewerAccess() List {
	return List{PermissionRead, PermissionPresenceWrite}
}
