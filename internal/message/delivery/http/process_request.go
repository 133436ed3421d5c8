package http

import (
	"github.com/gin-gonic/gin"

	"telegram-bot-client/internal/message"
)

// processSendReq binds the send request body and converts it to a use case input.
func (h *handler) processSendReq(c *gin.Context) (message.SendInput, error) {
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return message.SendInput{}, err
	}
	return req.toInput()
}

// processForwardReq binds the forward request body and converts it to a use case input.
func (h *handler) processForwardReq(c *gin.Context) (message.ForwardInput, error) {
	var req forwardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return message.ForwardInput{}, err
	}
	return req.toInput()
}
