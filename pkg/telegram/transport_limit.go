package telegram

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// Flood-control limits published by Telegram.
const (
	DefaultGlobalRate  = 30
	DefaultPerChatRate = 1
)

// LimitConfig configures a LimitedTransport. Rates are requests per second.
type LimitConfig struct {
	GlobalRate  float64
	GlobalBurst int
	ChatRate    float64
	ChatBurst   int
	MaxChats    int
	ChatTTL     time.Duration
}

func (c LimitConfig) withDefaults() LimitConfig {
	if c.GlobalRate <= 0 {
		c.GlobalRate = DefaultGlobalRate
	}
	if c.GlobalBurst <= 0 {
		c.GlobalBurst = int(c.GlobalRate)
	}
	if c.ChatRate <= 0 {
		c.ChatRate = DefaultPerChatRate
	}
	if c.ChatBurst <= 0 {
		c.ChatBurst = 1
	}
	if c.MaxChats <= 0 {
		c.MaxChats = 1000
	}
	if c.ChatTTL <= 0 {
		c.ChatTTL = 5 * time.Minute
	}
	return c
}

// LimitedTransport delays outgoing messages so a bot stays under Telegram's
// flood-control limits: one global bucket plus one bucket per target chat.
// Methods that address no chat only wait on the global bucket, and
// getUpdates is never limited.
type LimitedTransport struct {
	next   Transport
	global *rate.Limiter

	mu        sync.Mutex
	chats     *expirable.LRU[string, *rate.Limiter]
	chatRate  rate.Limit
	chatBurst int
}

// NewLimitedTransport wraps next with flood-control limiting.
func NewLimitedTransport(next Transport, cfg LimitConfig) *LimitedTransport {
	cfg = cfg.withDefaults()
	return &LimitedTransport{
		next:      next,
		global:    rate.NewLimiter(rate.Limit(cfg.GlobalRate), cfg.GlobalBurst),
		chats:     expirable.NewLRU[string, *rate.Limiter](cfg.MaxChats, nil, cfg.ChatTTL),
		chatRate:  rate.Limit(cfg.ChatRate),
		chatBurst: cfg.ChatBurst,
	}
}

// Call implements Transport. A wait cut short by ctx is a *TransportError.
func (t *LimitedTransport) Call(ctx context.Context, method string, payload []byte) ([]byte, error) {
	if method == MethodGetUpdates {
		return t.next.Call(ctx, method, payload)
	}

	if chat := chatKey(payload); chat != "" {
		if err := t.chat(chat).Wait(ctx); err != nil {
			return nil, &TransportError{Method: method, Err: limitErr(ctx, err)}
		}
	}
	if err := t.global.Wait(ctx); err != nil {
		return nil, &TransportError{Method: method, Err: limitErr(ctx, err)}
	}
	return t.next.Call(ctx, method, payload)
}

func (t *LimitedTransport) chat(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	limiter, ok := t.chats.Get(key)
	if !ok {
		limiter = rate.NewLimiter(t.chatRate, t.chatBurst)
		t.chats.Add(key, limiter)
	}
	return limiter
}

// limitErr prefers the context error: rate.Limiter reports a wait that
// would overrun the deadline before the deadline actually passes.
func limitErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// chatKey returns the chat_id field of a request payload, or "" if absent.
func chatKey(payload []byte) string {
	var req struct {
		ChatID *ChatID `json:"chat_id"`
	}
	if err := json.Unmarshal(payload, &req); err != nil || req.ChatID == nil {
		return ""
	}
	return req.ChatID.String()
}
