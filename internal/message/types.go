package message

import "telegram-bot-client/pkg/telegram"

// --- UseCase Inputs ---

type SendInput struct {
	ChatID                telegram.ChatID
	Text                  string
	ParseMode             telegram.ParseMode
	DisableNotification   bool
	DisableWebPagePreview bool
	ReplyToMessageID      int64
	ReplyMarkup           telegram.ReplyMarkup
}

type ForwardInput struct {
	ChatID              telegram.ChatID
	FromChatID          telegram.ChatID
	MessageID           int64
	DisableNotification bool
}

// --- UseCase Outputs ---

// SendOutput carries the message as Telegram stored it. MigratedTo is set
// when the target group had been upgraded and the message went to the new
// supergroup instead.
type SendOutput struct {
	Message    telegram.Message
	MigratedTo int64
}

type ForwardOutput struct {
	Message    telegram.Message
	MigratedTo int64
}
