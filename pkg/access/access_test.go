package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRole(t *testing.T) {
	t.Run("write permission resolves to editor", func(t *testing.T) {
		assert.Equal(t, RoleEditor, ResolveRole(List{PermissionWrite}))
	})

	t.Run("order independent", func(t *testing.T) {
		assert.Equal(t, RoleEditor, ResolveRole(List{PermissionRead, PermissionWrite}))
		assert.Equal(t, RoleEditor, ResolveRole(List{PermissionWrite, PermissionRead}))
	})

	t.Run("read only resolves to viewer", func(t *testing.T) {
		assert.Equal(t, RoleViewer, ResolveRole(List{PermissionRead, PermissionPresenceWrite}))
	})

	t.Run("empty list resolves to viewer", func(t *testing.T) {
		assert.Equal(t, RoleViewer, ResolveRole(List{}))
	})

	t.Run("nil list resolves to viewer", func(t *testing.T) {
		assert.Equal(t, RoleViewer, ResolveRole(nil))
	})

	t.Run("unknown tokens resolve to viewer", func(t *testing.T) {
		assert.Equal(t, RoleViewer, ResolveRole(List{"room:admin", "something:else"}))
	})

	t.Run("duplicate write tokens resolve to editor", func(t *testing.T) {
		assert.Equal(t, RoleEditor, ResolveRole(List{PermissionWrite, PermissionWrite}))
	})
}

func TestCanWrite(t *testing.T) {
	assert.True(t, EditorAccess().CanWrite())
	assert.False(t, ViewerAccess().CanWrite())
	assert.False(t, List(nil).CanWrite())
}
