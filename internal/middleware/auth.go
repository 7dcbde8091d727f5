package middleware

import (
	"net/http"
	"strings"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// AuthMiddleware validates the bearer token and attaches the session claims
// to the request context. Handlers read the session through GetSession.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing authorization token",
			})
			return
		}

		claims, err := utils.ParseJWT(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(sessionKey, claims)
		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// RoleMiddleware gates a route group to the given roles. Admin roles always
// pass.
func RoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "User not authenticated",
			})
			return
		}

		hasRole := false
		for _, role := range roles {
			if session.Role == models.RoleAdmin || session.Role == models.RoleSuperAdmin {
				hasRole = true
				break
			}
			if session.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Forbidden - insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// GetSession returns the authenticated session claims, or nil when the
// request is unauthenticated.
func GetSession(c *gin.Context) *utils.Claims {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}
