package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dormwash/internal/domain"
	"dormwash/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has one of the specified roles
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if !allowed[role.(string)] {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

// StaffOnly middleware requires staff or admin role
func StaffOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleStaff, domain.RoleAdmin)
}
