package http

import (
	"telegram-bot-client/internal/message"
	"telegram-bot-client/pkg/log"
)

type handler struct {
	l  log.Logger
	uc message.UseCase
}

// New creates a new HTTP handler for the message relay.
func New(l log.Logger, uc message.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
