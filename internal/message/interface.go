package message

import (
	"context"

	"telegram-bot-client/pkg/telegram"
)

//go:generate mockery --name UseCase
type UseCase interface {
	Send(ctx context.Context, input SendInput) (SendOutput, error)
	Forward(ctx context.Context, input ForwardInput) (ForwardOutput, error)
}

// Bot is the part of *telegram.Bot the relay needs.
type Bot interface {
	SendMessage(ctx context.Context, chatID telegram.ChatID, text string, opts *telegram.SendOptions) (*telegram.Message, error)
	ForwardMessage(ctx context.Context, chatID, fromChatID telegram.ChatID, messageID int64, opts *telegram.ForwardOptions) (*telegram.Message, error)
}
