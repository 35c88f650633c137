package authz

import "strings"

const (
	RoleEditor = 20
	RoleViewer = 30
	RoleAdmin  = 50
)

// ParseRole maps a configured role name to its id; unknown names yield 0.
func ParseRole(name string) int {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin":
		return RoleAdmin
	case "editor":
		return RoleEditor
	case "viewer":
		return RoleViewer
	}
	return 0
}

func RoleName(roleID int) string {
	switch roleID {
	case RoleAdmin:
		return "admin"
	case RoleEditor:
		return "editor"
	case RoleViewer:
		return "viewer"
	}
	return ""
}

// CanEdit reports whether the role may create or update content.
func CanEdit(roleID int) bool {
	return roleID == RoleEditor || roleID == RoleAdmin
}

func IsReadOnly(roleID int) bool {
	return roleID == RoleViewer
}
