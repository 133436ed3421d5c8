package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"telegram-bot-client/internal/message"
	"telegram-bot-client/pkg/log"
	"telegram-bot-client/pkg/telegram"
	"telegram-bot-client/pkg/telegram/telegramtest"
)

type call struct {
	chatID telegram.ChatID
	text   string
}

// migratingBot answers the first call for a chat listed in moved with a
// migration error, like Telegram does for upgraded groups.
type migratingBot struct {
	moved map[int64]int64
	calls []call
}

func (b *migratingBot) reply(chatID telegram.ChatID, text string) (*telegram.Message, error) {
	b.calls = append(b.calls, call{chatID, text})
	if to, ok := b.moved[chatID.ID]; ok {
		return nil, &telegram.RemoteError{
			Code:            400,
			Description:     "Bad Request: group chat was upgraded to a supergroup chat",
			MigrateToChatID: to,
		}
	}
	return &telegram.Message{MessageID: int64(len(b.calls)), Chat: &telegram.Chat{ID: chatID.ID}, Text: null.StringFrom(text)}, nil
}

func (b *migratingBot) SendMessage(_ context.Context, chatID telegram.ChatID, text string, _ *telegram.SendOptions) (*telegram.Message, error) {
	return b.reply(chatID, text)
}

func (b *migratingBot) ForwardMessage(_ context.Context, chatID, _ telegram.ChatID, _ int64, _ *telegram.ForwardOptions) (*telegram.Message, error) {
	return b.reply(chatID, "forwarded")
}

func TestSend(t *testing.T) {
	srv := telegramtest.NewServer()
	defer srv.Close()
	srv.AddChat(telegram.Chat{ID: 10, Type: "private"})

	uc := New(srv.Bot(), log.NewNop())
	ctx := context.Background()

	t.Run("markdown", func(t *testing.T) {
		out, err := uc.Send(ctx, message.SendInput{ChatID: telegram.ID(10), Text: "*X*", ParseMode: telegram.ParseModeMarkdown})
		require.NoError(t, err)
		assert.Equal(t, "X", out.Message.Text.String)
		assert.Zero(t, out.MigratedTo)
	})

	t.Run("markup is passed through", func(t *testing.T) {
		_, err := uc.Send(ctx, message.SendInput{ChatID: telegram.ID(10), Text: "pick", ReplyMarkup: telegram.NewReplyKeyboard([]string{"A", "B"})})
		require.NoError(t, err)

		reqs := srv.Requests()
		assert.Contains(t, string(reqs[len(reqs)-1].Body), `"keyboard":[[{"text":"A"},{"text":"B"}]]`)
	})

	t.Run("errors are returned as is", func(t *testing.T) {
		_, err := uc.Send(ctx, message.SendInput{ChatID: telegram.ID(99), Text: "hi"})
		assert.ErrorIs(t, err, telegram.ErrRemoteRejection)

		_, err = uc.Send(ctx, message.SendInput{ChatID: telegram.ID(10)})
		assert.ErrorIs(t, err, telegram.ErrValidation)
	})
}

func TestSendMigrated(t *testing.T) {
	bot := &migratingBot{moved: map[int64]int64{-1: -1001}}
	uc := New(bot, log.NewNop())

	out, err := uc.Send(context.Background(), message.SendInput{ChatID: telegram.ID(-1), Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, int64(-1001), out.MigratedTo)
	assert.Equal(t, int64(-1001), out.Message.ChatID())
	assert.Equal(t, []call{{telegram.ID(-1), "hello"}, {telegram.ID(-1001), "hello"}}, bot.calls)
}

func TestForward(t *testing.T) {
	srv := telegramtest.NewServer()
	defer srv.Close()
	srv.AddChat(telegram.Chat{ID: 10, Type: "private"})
	srv.AddChat(telegram.Chat{ID: 20, Type: "private"})

	uc := New(srv.Bot(), log.NewNop())
	ctx := context.Background()

	sent, err := uc.Send(ctx, message.SendInput{ChatID: telegram.ID(10), Text: "original"})
	require.NoError(t, err)

	out, err := uc.Forward(ctx, message.ForwardInput{ChatID: telegram.ID(20), FromChatID: telegram.ID(10), MessageID: sent.Message.MessageID})
	require.NoError(t, err)
	assert.Equal(t, "original", out.Message.Text.String)
	assert.Equal(t, int64(20), out.Message.ChatID())

	t.Run("migrated", func(t *testing.T) {
		bot := &migratingBot{moved: map[int64]int64{20: 2000}}
		out, err := New(bot, log.NewNop()).Forward(ctx, message.ForwardInput{ChatID: telegram.ID(20), FromChatID: telegram.ID(10), MessageID: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2000), out.MigratedTo)
	})
}
