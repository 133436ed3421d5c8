package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"telegram-bot-client/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthVersion = "1.0.0"
	ServiceName   = "telegram-bot-client"

	readyTimeout = 5 * time.Second
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck reports ready once the Bot API accepts the token.
// @Summary Readiness Check
// @Description Check that Telegram is reachable with the configured token
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Failure 503 {object} response.Resp "Telegram not reachable"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	data := gin.H{
		"status":  "ready",
		"version": HealthVersion,
		"service": ServiceName,
	}

	if srv.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		me, err := srv.pinger.GetMe(ctx)
		if err != nil {
			srv.l.Warnf(ctx, "httpserver: ready check: %v", err)
			response.ErrorWithStatus(c, http.StatusServiceUnavailable, http.StatusServiceUnavailable, "telegram is not reachable")
			return
		}
		data["bot"] = me.Username
	}

	response.OK(c, data)
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": HealthVersion,
		"service": ServiceName,
	})
}
