package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ydadvisory/internal/authz"
)

// RoleKey is where Auth leaves the caller's role id on the gin context.
const RoleKey = "role_id"

func roleOf(c *gin.Context) (int, bool) {
	v, ok := c.Get(RoleKey)
	if !ok {
		return 0, false
	}
	id, _ := v.(int)
	return id, true
}

// RequireRoles lets the request through only for the listed roles. It must
// run after Auth; a request with no role at all is answered 401, a role
// outside the list 403 with the roles that would have been accepted.
func RequireRoles(allowed ...int) gin.HandlerFunc {
	names := make([]string, 0, len(allowed))
	for _, r := range allowed {
		names = append(names, authz.RoleName(r))
	}
	need := strings.Join(names, " or ")

	return func(c *gin.Context) {
		roleID, ok := roleOf(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		for _, r := range allowed {
			if r == roleID {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "requires " + need})
	}
}

// ReadOnlyGuard turns viewers away from anything but GET, HEAD and OPTIONS.
func ReadOnlyGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleID, _ := roleOf(c)
		if !authz.IsReadOnly(roleID) {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "read-only role"})
		}
	}
}
