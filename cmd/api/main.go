package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"telegram-bot-client/config"
	_ "telegram-bot-client/docs"
	"telegram-bot-client/internal/httpserver"
	"telegram-bot-client/internal/poller"
	"telegram-bot-client/pkg/log"
	"telegram-bot-client/pkg/telegram"
)

// @title       Telegram Bot Client API
// @description Relays messages through the Telegram Bot API.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Telegram bot client...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorf(ctx, "Stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	// 3. Bot API client: HTTP, optional flood control, metrics
	var transport telegram.Transport = telegram.NewHTTPTransport(cfg.Telegram.BotToken,
		telegram.WithAPIURL(cfg.Telegram.APIURL),
		telegram.WithRequestTimeout(cfg.Telegram.RequestTimeout),
	)
	if cfg.RateLimit.Enabled {
		transport = telegram.NewLimitedTransport(transport, telegram.LimitConfig{
			GlobalRate:  cfg.RateLimit.GlobalRate,
			GlobalBurst: cfg.RateLimit.GlobalBurst,
			ChatRate:    cfg.RateLimit.ChatRate,
			ChatBurst:   cfg.RateLimit.ChatBurst,
			MaxChats:    cfg.RateLimit.MaxChats,
			ChatTTL:     cfg.RateLimit.ChatTTL,
		})
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		instrumented, err := telegram.NewInstrumentedTransport(transport, reg)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		transport, gatherer = instrumented, reg
	}

	bot := telegram.New(transport,
		telegram.WithLogger(logger),
		telegram.WithPollMargin(cfg.Telegram.PollMargin),
	)

	me, err := bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	logger.Infof(ctx, "Authorized as @%s (id %d)", me.Username, me.ID)

	// 4. Incoming updates
	var p *poller.Poller
	if cfg.Poller.Enabled {
		p = poller.New(bot, poller.LogHandler(logger), logger, poller.Config{
			Timeout:        cfg.Poller.Timeout,
			Limit:          cfg.Poller.Limit,
			AllowedUpdates: cfg.Poller.AllowedUpdates,
			DeleteWebhook:  cfg.Poller.DeleteWebhook,
			Backoff:        cfg.Poller.Backoff,
			MaxBackoff:     cfg.Poller.MaxBackoff,
		})
	}

	// 5. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		APIKey:      cfg.HTTPServer.APIKey,
		Gatherer:    gatherer,
		MetricsPath: cfg.Metrics.Path,
		Bot:         bot,
		Pinger:      bot,
	})
	if err != nil {
		return fmt.Errorf("httpserver: %w", err)
	}

	// 6. Run
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(gctx) })
	if p != nil {
		g.Go(func() error { return p.Run(gctx) })
	}
	return g.Wait()
}
