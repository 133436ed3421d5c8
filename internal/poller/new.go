package poller

import (
	"context"
	"time"

	"telegram-bot-client/pkg/log"
	"telegram-bot-client/pkg/telegram"
)

const (
	DefaultBackoff    = time.Second
	DefaultMaxBackoff = 30 * time.Second
)

// Updater is the part of *telegram.Bot the poller drives.
type Updater interface {
	GetUpdates(ctx context.Context, opts telegram.GetUpdatesOptions) ([]telegram.Update, error)
	DeleteWebhook(ctx context.Context, dropPending bool) error
}

// Config controls a Poller.
type Config struct {
	Timeout        int
	Limit          int
	AllowedUpdates []string
	// DeleteWebhook removes a registered webhook before the first poll,
	// since getUpdates is refused while one is set.
	DeleteWebhook bool
	Backoff       time.Duration
	MaxBackoff    time.Duration
}

// Poller long-polls getUpdates and hands every update to a Handler in order.
type Poller struct {
	bot Updater
	h   Handler
	l   log.Logger
	cfg Config

	offset int64
}

// New creates a Poller.
func New(bot Updater, h Handler, l log.Logger, cfg Config) *Poller {
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.MaxBackoff < cfg.Backoff {
		cfg.MaxBackoff = max(DefaultMaxBackoff, cfg.Backoff)
	}
	return &Poller{
		bot: bot,
		h:   h,
		l:   l,
		cfg: cfg,
	}
}
