package middleware

import (
	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// RequireRole must run after Auth. It refuses inactive accounts and any
// role not listed.
func RequireRole(roles ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil {
			abort(c, apperror.Unauthenticated("Authentication required"))
			return
		}
		if !actor.IsActive {
			denied := apperror.Forbidden("Account is deactivated")
			denied.Reason = string(access.ReasonNotActive)
			abort(c, denied)
			return
		}

		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		abort(c, apperror.Forbidden("Admin privileges required"))
	}
}

// AdminOnly is RequireRole(ADMIN).
func AdminOnly() gin.HandlerFunc {
	return RequireRole(access.RoleAdmin)
}
