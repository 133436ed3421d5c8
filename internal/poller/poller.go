package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telegram-bot-client/pkg/telegram"
)

// Run polls until ctx is done. It returns nil on cancellation and an error
// only when the webhook could not be removed.
func (p *Poller) Run(ctx context.Context) error {
	if p.cfg.DeleteWebhook {
		if err := p.bot.DeleteWebhook(ctx, false); err != nil {
			return fmt.Errorf("poller: delete webhook: %w", err)
		}
	}

	p.l.Infof(ctx, "poller: started: timeout=%ds limit=%d", p.cfg.Timeout, p.cfg.Limit)
	defer p.l.Infof(ctx, "poller: stopped at offset %d", p.offset)

	backoff := p.cfg.Backoff
	for ctx.Err() == nil {
		updates, err := p.bot.GetUpdates(ctx, telegram.GetUpdatesOptions{
			Offset:         p.offset,
			Limit:          p.cfg.Limit,
			Timeout:        p.cfg.Timeout,
			AllowedUpdates: p.cfg.AllowedUpdates,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			delay := backoff
			var rerr *telegram.RemoteError
			if errors.As(err, &rerr) && rerr.IsFlood() {
				delay = rerr.RetryAfter
			} else {
				backoff = min(backoff*2, p.cfg.MaxBackoff)
			}
			p.l.Warnf(ctx, "poller: getUpdates: %v (retrying in %s)", err, delay)
			if !sleep(ctx, delay) {
				return nil
			}
			continue
		}
		backoff = p.cfg.Backoff

		for _, u := range updates {
			if err := p.h.HandleUpdate(ctx, u); err != nil {
				p.l.Errorf(ctx, "poller: update %d: %v", u.UpdateID, err)
			}
			if next := u.UpdateID + 1; next > p.offset {
				p.offset = next
			}
		}
	}
	return nil
}

// Offset is the next update id the poller will ask for.
func (p *Poller) Offset() int64 {
	return p.offset
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
