package rmiddleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/internal/middleware"
)

// RoleMiddleware allows the request through only when the authenticated user's
// role matches one of requiredRoles. Must run after middleware.AuthMiddleware.
func RoleMiddleware(db *gorm.DB, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.GetUserIDFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		var role string
		if err := db.Table("users").Select("role").Where("id = ?", userID).Scan(&role).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user role"})
			return
		}

		for _, required := range requiredRoles {
			if strings.EqualFold(role, required) {
				c.Set("user_role", role)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":    "Forbidden",
			"message":  "You don't have permission to access this resource",
			"required": requiredRoles,
		})
	}
}

// AdminMiddleware is a convenience middleware for admin-only access.
func AdminMiddleware(db *gorm.DB) gin.HandlerFunc {
	return RoleMiddleware(db, "admin")
}

// OwnerOrAdminMiddleware gates field management to field owners and admins.
func OwnerOrAdminMiddleware(db *gorm.DB) gin.HandlerFunc {
	return RoleMiddleware(db, "owner", "admin")
}
