package usecase

import (
	"context"
	"errors"

	"telegram-bot-client/internal/message"
	"telegram-bot-client/pkg/log"
	"telegram-bot-client/pkg/telegram"
)

// Send delivers a text message. When Telegram reports that the group was
// upgraded to a supergroup, the message is sent once more to the new chat.
func (uc *implUseCase) Send(ctx context.Context, input message.SendInput) (message.SendOutput, error) {
	ctx = log.WithFields(ctx, "chat_id", input.ChatID.String())
	opts := &telegram.SendOptions{
		ParseMode:             input.ParseMode,
		DisableNotification:   input.DisableNotification,
		DisableWebPagePreview: input.DisableWebPagePreview,
		ReplyToMessageID:      input.ReplyToMessageID,
		ReplyMarkup:           input.ReplyMarkup,
	}

	msg, err := uc.bot.SendMessage(ctx, input.ChatID, input.Text, opts)
	if newChat, ok := migrated(err); ok {
		uc.l.Infof(ctx, "message usecase: chat migrated to %d, resending", newChat)
		msg, err = uc.bot.SendMessage(ctx, telegram.ID(newChat), input.Text, opts)
		if err == nil {
			return message.SendOutput{Message: *msg, MigratedTo: newChat}, nil
		}
	}
	if err != nil {
		uc.l.Errorf(ctx, "message usecase: send failed: %v", err)
		return message.SendOutput{}, err
	}

	return message.SendOutput{Message: *msg}, nil
}

func migrated(err error) (int64, bool) {
	var rerr *telegram.RemoteError
	if errors.As(err, &rerr) && rerr.MigrateToChatID != 0 {
		return rerr.MigrateToChatID, true
	}
	return 0, false
}
