package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"telegram-bot-client/pkg/response"
)

// APIKeyHeader carries the relay API key.
const APIKeyHeader = "X-API-Key"

// Auth rejects requests without the configured API key.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.apiKey == "" {
			c.Next()
			return
		}
		got := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(m.apiKey)) != 1 {
			m.l.Warnf(c.Request.Context(), "middleware: rejected request to %s: bad api key", c.FullPath())
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}
