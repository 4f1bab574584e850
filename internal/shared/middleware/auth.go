package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"royalty-backend/internal/shared/response"
	"royalty-backend/pkg/jwt"
)

const (
	ContextSubject = "subject"
	ContextScope   = "scope"
)

// AuthMiddleware validates the bearer access token and stores its subject
// and scope on the gin context.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(ContextRequestID)).Msg("Rejected access token")
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextSubject, claims.Subject)
		c.Set(ContextScope, claims.Scope)
		c.Next()
	}
}

// RequireScope rejects requests whose token scope does not list scope.
// The "admin" scope passes every check. Scopes are space separated.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		granted := strings.Fields(c.GetString(ContextScope))
		for _, s := range granted {
			if s == scope || s == "admin" {
				c.Next()
				return
			}
		}

		response.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Access denied: "+scope+" scope required")
		c.Abort()
	}
}
