package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/response"
)

// CallerKey is the gin context key holding the authenticated *internal.Caller.
const CallerKey = "caller"

func AuthMiddleware(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			caller, err := provider.Authenticate(c.Request.Context(), token)
			if err == nil {
				c.Set(CallerKey, caller)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.NewAppError(http.StatusUnauthorized, "Unauthorized"))
	}
}

// CallerFrom returns the caller set by AuthMiddleware.
func CallerFrom(c *gin.Context) *internal.Caller {
	return c.MustGet(CallerKey).(*internal.Caller)
}
