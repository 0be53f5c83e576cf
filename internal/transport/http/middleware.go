package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"union-quiz-service/internal/auth"
)

// Context keys set by AuthRequired for downstream handlers.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// AuthRequired rejects requests without a valid bearer token and stores the
// verified identity on the request context.
func AuthRequired(tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := tokens.VerifyToken(strings.TrimPrefix(header, prefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route group on a single role check. Authorization is
// decided here, once, at the boundary; handlers never re-derive it.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
