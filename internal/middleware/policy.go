package middleware

import (
	"net/http"

	"fleetpoints/internal/apierror"

	"github.com/gin-gonic/gin"
)

// Permissions gate the admin surface. The driver role holds none of them;
// drivers only reach routes with no permission requirement.
const (
	PermManageDrivers = "drivers:manage"
	PermManageRewards = "rewards:manage"
	PermImportPoints  = "points:import"
	PermGrantPoints   = "points:grant"
)

var rolePermissions = map[string]map[string]bool{
	"admin": {
		PermManageDrivers: true,
		PermManageRewards: true,
		PermImportPoints:  true,
		PermGrantPoints:   true,
	},
	"driver": {},
}

// CanAccess reports whether a role holds a permission. Unknown roles hold
// nothing.
func CanAccess(role, permission string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[permission]
}

// RequirePermission rejects requests whose JWT role lacks the permission.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !CanAccess(claims.Role, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Insufficient permissions"))
			return
		}
		c.Next()
	}
}
