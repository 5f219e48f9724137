// Package access derives editor/viewer roles from room permission lists.
//
// A room's access list stores opaque permission strings per user email.
// The only token this package interprets is PermissionWrite ("room:write");
// any list containing it resolves to RoleEditor, everything else resolves
// to RoleViewer.
package access
