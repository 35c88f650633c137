package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("Admin"))
	assert.Equal(t, RoleEditor, ParseRole(" editor "))
	assert.Equal(t, RoleViewer, ParseRole("viewer"))
	assert.Zero(t, ParseRole("root"))

	for _, r := range []int{RoleAdmin, RoleEditor, RoleViewer} {
		assert.Equal(t, r, ParseRole(RoleName(r)))
	}
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, CanEdit(RoleAdmin))
	assert.True(t, CanEdit(RoleEditor))
	assert.False(t, CanEdit(RoleViewer))
	assert.True(t, IsReadOnly(RoleViewer))
	assert.False(t, IsReadOnly(RoleEditor))
}
