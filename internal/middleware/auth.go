package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaffIDKey is the gin context key holding the authenticated staff user ID.
const StaffIDKey = "staffID"

// TokenValidator resolves a bearer token to a staff user ID.
type TokenValidator interface {
	ValidateToken(token string) (int64, error)
}

// AuthMiddleware rejects requests without a valid staff bearer token.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid token format (must be Bearer)")
			return
		}

		// 2. --- Validate Token ---
		staffID, err := tokens.ValidateToken(parts[1])
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		// 3. --- Success ---
		c.Set(StaffIDKey, staffID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": message, "message": message})
}
