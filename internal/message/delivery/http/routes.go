package http

import (
	"github.com/gin-gonic/gin"

	"telegram-bot-client/internal/middleware"
)

// RegisterRoutes maps the relay endpoints. Both are behind Auth.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	messages := rg.Group("/messages")
	{
		messages.POST("", mw.Auth(), h.Send)
		messages.POST("/forward", mw.Auth(), h.Forward)
	}
}
