package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theunofficial-blog/core/internal/models"
	"github.com/theunofficial-blog/core/internal/pkg/jwt"
	"github.com/theunofficial-blog/core/internal/pkg/response"
)

const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// Auth rejects requests without a valid session token.
func Auth(signer *jwt.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "Authentication required")
			return
		}

		claims, err := signer.Parse(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth populates the user context when a valid token is present.
// It never rejects: anonymous and bad-token requests proceed without a
// user identity. Used on read routes whose visibility widens when
// authenticated.
func OptionalAuth(signer *jwt.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := signer.Parse(token); err == nil {
				c.Set(CtxUserID, claims.UserID)
				c.Set(CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}

// OwnerOnly requires the owner role. Must run after Auth.
func OwnerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != models.RoleOwner {
			response.Forbidden(c, "Owner access required")
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the context.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
