package poller

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/guregu/null.v3"

	"telegram-bot-client/pkg/log"
	"telegram-bot-client/pkg/telegram"
	"telegram-bot-client/pkg/telegram/telegramtest"
)

var alice = telegram.User{ID: 10, FirstName: "Alice"}

// collector records handled updates and signals once n have arrived.
type collector struct {
	mu   sync.Mutex
	got  []telegram.Update
	n    int
	done chan struct{}
	err  error
}

func newCollector(n int) *collector {
	return &collector{n: n, done: make(chan struct{})}
}

func (c *collector) HandleUpdate(_ context.Context, u telegram.Update) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, u)
	if len(c.got) == c.n {
		close(c.done)
	}
	return c.err
}

func (c *collector) texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.got))
	for i, u := range c.got {
		out[i] = u.Message.Text.String
	}
	return out
}

func run(t *testing.T, p *Poller, done <-chan struct{}, within time.Duration) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(within):
		t.Fatal("updates were not handled in time")
	}
	cancel()
	require.NoError(t, <-errc)
}

func setup(t *testing.T) *telegramtest.Server {
	t.Helper()
	srv := telegramtest.NewServer()
	t.Cleanup(srv.Close)
	srv.AddChat(telegram.Chat{ID: 1, Type: "private", FirstName: "Alice"})
	return srv
}

func TestRun(t *testing.T) {
	srv := setup(t)
	last := int64(0)
	for _, text := range []string{"one", "two", "three"} {
		last = srv.Push(1, alice, text)
	}

	h := newCollector(4)
	h.err = errors.New("handler errors do not stop polling")
	p := New(srv.Bot(), h, log.NewNop(), Config{Timeout: 1, Limit: 2})

	go func() {
		time.Sleep(100 * time.Millisecond)
		srv.Push(1, alice, "four")
	}()
	run(t, p, h.done, 5*time.Second)

	assert.Equal(t, []string{"one", "two", "three", "four"}, h.texts())
	assert.Equal(t, last+2, p.Offset())
}

func TestRunFloodControl(t *testing.T) {
	srv := setup(t)
	srv.Fail(telegram.MethodGetUpdates, http.StatusTooManyRequests, "Too Many Requests: retry after 1", 1)
	srv.Push(1, alice, "late")

	h := newCollector(1)
	p := New(srv.Bot(), h, log.NewNop(), Config{Timeout: 1, Backoff: time.Hour})

	start := time.Now()
	run(t, p, h.done, 5*time.Second)
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestRunBackoff(t *testing.T) {
	srv := setup(t)
	srv.Fail(telegram.MethodGetUpdates, http.StatusInternalServerError, "Internal Server Error", 0)
	srv.Fail(telegram.MethodGetUpdates, http.StatusBadGateway, "Bad Gateway", 0)
	srv.Push(1, alice, "eventually")

	h := newCollector(1)
	p := New(srv.Bot(), h, log.NewNop(), Config{Timeout: 1, Backoff: 10 * time.Millisecond, MaxBackoff: 20 * time.Millisecond})
	run(t, p, h.done, 5*time.Second)

	var polls int
	for _, r := range srv.Requests() {
		if r.Method == telegram.MethodGetUpdates {
			polls++
		}
	}
	assert.GreaterOrEqual(t, polls, 3)
}

func TestRunDeleteWebhook(t *testing.T) {
	srv := setup(t)
	bot := srv.Bot()
	require.NoError(t, bot.SetWebhook(context.Background(), "https://example.com/hook"))
	srv.Push(1, alice, "hi")

	h := newCollector(1)
	p := New(bot, h, log.NewNop(), Config{Timeout: 1, DeleteWebhook: true})
	run(t, p, h.done, 5*time.Second)
	assert.Empty(t, srv.Webhook())

	t.Run("failure stops the poller", func(t *testing.T) {
		srv.Fail(telegram.MethodDeleteWebhook, http.StatusUnauthorized, "Unauthorized", 0)
		err := p.Run(context.Background())
		assert.ErrorIs(t, err, telegram.ErrRemoteRejection)
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := setup(t)
	p := New(srv.Bot(), newCollector(1), log.NewNop(), Config{Timeout: 30})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	require.NoError(t, p.Run(ctx))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Zero(t, p.Offset())
}

func TestLogHandler(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := LogHandler(log.New(core))
	ctx := context.Background()

	require.NoError(t, h.HandleUpdate(ctx, telegram.Update{UpdateID: 1, Message: &telegram.Message{
		MessageID: 5,
		Chat:      &telegram.Chat{ID: 1, Type: "private"},
		Text:      null.StringFrom("Привет"),
	}}))
	require.NoError(t, h.HandleUpdate(ctx, telegram.Update{UpdateID: 2, CallbackQuery: &telegram.CallbackQuery{ID: "q", Data: "yes"}}))
	require.NoError(t, h.HandleUpdate(ctx, telegram.Update{UpdateID: 3}))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, `poller: update 1: message 5 in chat 1: "Привет"`, entries[0].Message)
	assert.Equal(t, `poller: update 2: callback "yes"`, entries[1].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
}
