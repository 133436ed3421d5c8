package usecase

import (
	"context"

	"telegram-bot-client/internal/message"
	"telegram-bot-client/pkg/log"
	"telegram-bot-client/pkg/telegram"
)

// Forward copies an existing message into another chat.
func (uc *implUseCase) Forward(ctx context.Context, input message.ForwardInput) (message.ForwardOutput, error) {
	ctx = log.WithFields(ctx, "chat_id", input.ChatID.String(), "from_chat_id", input.FromChatID.String())
	opts := &telegram.ForwardOptions{DisableNotification: input.DisableNotification}

	msg, err := uc.bot.ForwardMessage(ctx, input.ChatID, input.FromChatID, input.MessageID, opts)
	if newChat, ok := migrated(err); ok {
		uc.l.Infof(ctx, "message usecase: chat migrated to %d, forwarding again", newChat)
		msg, err = uc.bot.ForwardMessage(ctx, telegram.ID(newChat), input.FromChatID, input.MessageID, opts)
		if err == nil {
			return message.ForwardOutput{Message: *msg, MigratedTo: newChat}, nil
		}
	}
	if err != nil {
		uc.l.Errorf(ctx, "message usecase: forward of %d failed: %v", input.MessageID, err)
		return message.ForwardOutput{}, err
	}

	return message.ForwardOutput{Message: *msg}, nil
}
