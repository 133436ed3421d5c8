package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-bot-client/pkg/log"
)

// DefaultPollMargin is added to the long-poll timeout to bound a getUpdates
// call when the server is slow to answer.
const DefaultPollMargin = 10 * time.Second

// Bot is the Telegram Bot API client. It holds no per-call state and is safe
// for concurrent use.
type Bot struct {
	transport  Transport
	l          log.Logger
	pollMargin time.Duration
}

// Option configures a Bot.
type Option func(*Bot)

// WithLogger sets the logger used for call tracing.
func WithLogger(l log.Logger) Option {
	return func(b *Bot) {
		if l != nil {
			b.l = l
		}
	}
}

// WithPollMargin overrides DefaultPollMargin.
func WithPollMargin(d time.Duration) Option {
	return func(b *Bot) {
		if d > 0 {
			b.pollMargin = d
		}
	}
}

// New creates a Bot that issues calls through transport.
func New(transport Transport, opts ...Option) *Bot {
	b := &Bot{
		transport:  transport,
		l:          log.NewNop(),
		pollMargin: DefaultPollMargin,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBot creates a Bot talking to the public Bot API over HTTP.
func NewBot(token string, opts ...Option) *Bot {
	return New(NewHTTPTransport(token), opts...)
}

// SendMessage sends text to chatID and returns the message as Telegram
// stored it. With a parse mode set, the returned text is the rendered
// content with formatting markers removed.
func (b *Bot) SendMessage(ctx context.Context, chatID ChatID, text string, opts *SendOptions) (*Message, error) {
	req, err := newSendMessageRequest(chatID, text, opts)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := b.call(ctx, MethodSendMessage, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ForwardMessage copies message messageID from fromChatID into chatID.
func (b *Bot) ForwardMessage(ctx context.Context, chatID, fromChatID ChatID, messageID int64, opts *ForwardOptions) (*Message, error) {
	req, err := newForwardMessageRequest(chatID, fromChatID, messageID, opts)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := b.call(ctx, MethodForwardMessage, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetUpdates long-polls for updates with an id of at least opts.Offset.
// It returns an empty slice when the timeout elapses with nothing new.
// The call never outlives opts.Timeout plus the poll margin.
// Advancing the offset is up to the caller.
func (b *Bot) GetUpdates(ctx context.Context, opts GetUpdatesOptions) ([]Update, error) {
	req, err := newGetUpdatesRequest(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(opts.Timeout)*time.Second+b.pollMargin)
	defer cancel()

	var updates []Update
	if err := b.call(ctx, MethodGetUpdates, req, &updates); err != nil {
		return nil, err
	}
	if updates == nil {
		updates = []Update{}
	}
	return updates, nil
}

// GetMe returns the bot's own user. Useful to check the token.
func (b *Bot) GetMe(ctx context.Context) (*User, error) {
	var u User
	if err := b.call(ctx, MethodGetMe, struct{}{}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetWebhook registers url to receive updates. getUpdates is refused while
// a webhook is set.
func (b *Bot) SetWebhook(ctx context.Context, url string) error {
	if url == "" {
		return invalid("url", "must not be empty")
	}
	return b.call(ctx, MethodSetWebhook, setWebhookRequest{URL: url}, nil)
}

// DeleteWebhook removes the webhook so updates can be polled again.
func (b *Bot) DeleteWebhook(ctx context.Context, dropPendingUpdates bool) error {
	return b.call(ctx, MethodDeleteWebhook, deleteWebhookRequest{DropPendingUpdates: dropPendingUpdates}, nil)
}

// call performs one request/response cycle and classifies the outcome.
// result may be nil when the method answers with a bare true.
func (b *Bot) call(ctx context.Context, method string, payload any, result any) error {
	body, err := marshalJSON(payload)
	if err != nil {
		return &TransportError{Method: method, Err: fmt.Errorf("encode request: %w", err)}
	}
	if err := ctx.Err(); err != nil {
		return &TransportError{Method: method, Err: err}
	}

	start := time.Now()
	raw, err := b.transport.Call(ctx, method, body)
	if ctxErr := ctx.Err(); ctxErr != nil {
		b.l.Debugf(ctx, "telegram bot: %s abandoned after %s: %v", method, time.Since(start), ctxErr)
		return &TransportError{Method: method, Err: ctxErr}
	}
	if err != nil {
		b.l.Warnf(ctx, "telegram bot: %s failed: %v", method, err)
		if errors.Is(err, ErrTransportFailure) || errors.Is(err, ErrRemoteRejection) {
			return err
		}
		return &TransportError{Method: method, Err: err}
	}

	resp, err := decodeEnvelope(raw)
	if err != nil {
		b.l.Warnf(ctx, "telegram bot: %s returned a malformed envelope: %v", method, err)
		return &TransportError{Method: method, Err: err}
	}
	if !resp.OK {
		rerr := newRemoteError(method, resp)
		b.l.Warnf(ctx, "telegram bot: %s rejected: %v", method, rerr)
		return rerr
	}

	b.l.Debugf(ctx, "telegram bot: %s ok in %s", method, time.Since(start))
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return &TransportError{Method: method, Err: fmt.Errorf("decode result: %w", err)}
	}
	return nil
}

// decodeEnvelope accepts only bodies shaped like a Bot API reply. Proxies
// and load balancers answer with JSON too, and those are not rejections.
func decodeEnvelope(raw []byte) (*APIResponse, error) {
	var env struct {
		APIResponse
		OK *bool `json:"ok"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.OK == nil {
		return nil, errors.New("decode response: missing ok")
	}
	resp := env.APIResponse
	resp.OK = *env.OK
	if !resp.OK && resp.ErrorCode == 0 && resp.Description == "" {
		return nil, errors.New("decode response: rejection without error_code or description")
	}
	return &resp, nil
}
