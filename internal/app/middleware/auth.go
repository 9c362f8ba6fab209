package middleware

import (
	"net/http"
	"strings"

	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/service/auth"

	"github.com/gin-gonic/gin"
)

func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(consts.SessionCookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireSession rejects requests without a valid session token. The token
// is read from the session cookie first, then from a Bearer header.
func RequireSession(authService auth.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			logger.CtxWarn(c.Request.Context(), log_messages.MissingSessionToken)
			abortUnauthorized(c)
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), log_messages.InvalidSessionToken)
			abortUnauthorized(c)
			return
		}

		c.Set(consts.ContextUserKey, claims.Subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
}
