package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lifedesigner21/whole-pod-sub000/internal/auth"
	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
)

// Context keys set by JWTAuthMiddleware
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)

// JWTAuthMiddleware validates the Bearer token and stores the caller's id and
// role on the request context.
func JWTAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1], jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated caller has one of the
// given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
		c.Abort()
	}
}

// SessionFrom rebuilds the caller's session from the request context. Services
// take this value explicitly; nothing reads auth state ambiently.
func SessionFrom(c *gin.Context) model.Session {
	return model.Session{
		UserID: c.GetString(UserIDKey),
		Role:   c.GetString(RoleKey),
	}
}
