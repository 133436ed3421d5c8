package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"telegram-bot-client/pkg/log"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing the caller's if it sent
// one, and attaches it to the request context for logging.
func (m Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		ctx := log.WithFields(c.Request.Context(), "request_id", id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
