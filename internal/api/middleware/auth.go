package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/olla-del-barrio/dish-sync/internal/api/shared/errors"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
)

// TOKEN_QUERY_PARAM is the query parameter older cron callers pass the service token in
const TOKEN_QUERY_PARAM = "token"

// ServiceTokenAuth returns a gin middleware that requires the static service token,
// sent as "Authorization: Bearer <token>" or in the token query parameter.
// An empty token disables the check.
func ServiceTokenAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		provided, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			provided = c.Query(TOKEN_QUERY_PARAM)
		}

		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Bool("token_provided", provided != ""),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError("Invalid or missing service token"))
			return
		}

		c.Next()
	}
}

// BearerToken extracts the credentials of a Bearer Authorization header
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
