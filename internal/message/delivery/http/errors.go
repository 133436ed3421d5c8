package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"telegram-bot-client/pkg/response"
	"telegram-bot-client/pkg/telegram"
)

// Application error codes for upstream failures.
const (
	ErrCodeTelegramUnreachable = 504
)

// writeError maps client errors to HTTP: local validation is the caller's
// fault, a Telegram rejection is a bad gateway (or 429 under flood control)
// and an incomplete call is a gateway timeout.
func (h *handler) writeError(c *gin.Context, err error) {
	var (
		verr *telegram.ValidationError
		rerr *telegram.RemoteError
	)
	switch {
	case errors.As(err, &verr):
		response.Error(c, err, map[string]any{"field": verr.Field})
	case errors.As(err, &rerr):
		if rerr.IsFlood() {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rerr.RetryAfter.Seconds()))))
			response.ErrorWithStatus(c, http.StatusTooManyRequests, rerr.Code, rerr.Description)
			return
		}
		response.ErrorWithStatus(c, http.StatusBadGateway, rerr.Code, rerr.Description)
	case errors.Is(err, telegram.ErrTransportFailure):
		response.ErrorWithStatus(c, http.StatusGatewayTimeout, ErrCodeTelegramUnreachable, "telegram is unreachable")
	default:
		response.InternalError(c, err)
	}
}
