package http

import (
	"github.com/gin-gonic/gin"

	"telegram-bot-client/pkg/response"
)

// Send godoc
// @Summary     Send a text message
// @Description Sends text, optionally formatted and with reply markup, and returns the message as Telegram stored it.
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body body sendReq true "Message"
// @Success     200 {object} messageResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     429 {object} response.Resp "Flood control"
// @Failure     502 {object} response.Resp "Rejected by Telegram"
// @Failure     504 {object} response.Resp "Telegram unreachable"
// @Router      /api/v1/messages [POST]
func (h *handler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	input, err := h.processSendReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Send(ctx, input)
	if err != nil {
		h.l.Warnf(ctx, "uc.Send: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, h.newSendResp(output))
}

// Forward godoc
// @Summary     Forward a message
// @Description Forwards an existing message into another chat.
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body body forwardReq true "Forward"
// @Success     200 {object} messageResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     502 {object} response.Resp "Rejected by Telegram"
// @Failure     504 {object} response.Resp "Telegram unreachable"
// @Router      /api/v1/messages/forward [POST]
func (h *handler) Forward(c *gin.Context) {
	ctx := c.Request.Context()

	input, err := h.processForwardReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Forward(ctx, input)
	if err != nil {
		h.l.Warnf(ctx, "uc.Forward: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, h.newForwardResp(output))
}
