package usecase

import (
	"telegram-bot-client/internal/message"
	"telegram-bot-client/pkg/log"
)

// implUseCase is the private implementation of message.UseCase.
type implUseCase struct {
	bot message.Bot
	l   log.Logger
}

// New creates a new message UseCase implementation.
func New(bot message.Bot, l log.Logger) *implUseCase {
	return &implUseCase{
		bot: bot,
		l:   l,
	}
}
