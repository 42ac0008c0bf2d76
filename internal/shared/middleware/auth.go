package middleware

import (
	"strings"

	"school-library-backend/internal/shared/response"
	"school-library-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// CallerKey holds the authenticated librarian; it is logged, never used for decisions
const CallerKey = "caller"

// AuthMiddleware - verifies the Bearer access token
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		// 2. "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify
		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(CallerKey, claims.Username)
		c.Next()
	}
}
