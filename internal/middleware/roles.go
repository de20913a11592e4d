package middleware

import (
	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const ContextKeyUserRole = "user_role"

// RequireRoles gates a route to users whose role is in the allowed set.
// Must run after Auth.
func RequireRoles(db *gorm.DB, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			response.Unauthorized(c)
			return
		}

		role, err := resolveUserRole(c, db, userID)
		if err != nil {
			response.Unauthorized(c)
			return
		}
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// CurrentUserRole returns the resolved role of the authenticated user, loading
// it once per request.
func CurrentUserRole(c *gin.Context, db *gorm.DB) string {
	role, err := resolveUserRole(c, db, CurrentUserID(c))
	if err != nil {
		return ""
	}
	return role
}

func resolveUserRole(c *gin.Context, db *gorm.DB, userID string) (string, error) {
	if v, ok := c.Get(ContextKeyUserRole); ok {
		if role, ok := v.(string); ok && role != "" {
			return role, nil
		}
	}

	var user models.UserModel
	if err := db.Select("role").Where("id = ?", userID).First(&user).Error; err != nil {
		return "", err
	}
	c.Set(ContextKeyUserRole, user.Role)
	return user.Role, nil
}
