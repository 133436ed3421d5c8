package poller

import (
	"context"

	"telegram-bot-client/pkg/log"
	"telegram-bot-client/pkg/telegram"
)

// Handler processes one update. Errors are logged and do not stop polling.
type Handler interface {
	HandleUpdate(ctx context.Context, u telegram.Update) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, u telegram.Update) error

func (f HandlerFunc) HandleUpdate(ctx context.Context, u telegram.Update) error {
	return f(ctx, u)
}

// LogHandler returns a Handler that only logs what arrived.
func LogHandler(l log.Logger) Handler {
	return HandlerFunc(func(ctx context.Context, u telegram.Update) error {
		switch {
		case u.Message != nil:
			l.Infof(ctx, "poller: update %d: message %d in chat %d: %q", u.UpdateID, u.Message.MessageID, u.Message.ChatID(), u.Message.Text.String)
		case u.CallbackQuery != nil:
			l.Infof(ctx, "poller: update %d: callback %q", u.UpdateID, u.CallbackQuery.Data)
		default:
			l.Debugf(ctx, "poller: update %d", u.UpdateID)
		}
		return nil
	})
}
