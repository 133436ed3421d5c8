package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"telegram-bot-client/internal/message"
	"telegram-bot-client/pkg/log"
	"telegram-bot-client/pkg/telegram"
)

// Pinger checks that the Bot API accepts our token. *telegram.Bot satisfies it.
type Pinger interface {
	GetMe(ctx context.Context) (*telegram.User, error)
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	apiKey      string

	// Metrics
	gatherer    prometheus.Gatherer
	metricsPath string

	// Message relay
	bot    message.Bot
	pinger Pinger
}

// Config is the dependency bag passed to New().
type Config struct {
	Port        int
	Mode        string
	Environment string
	// APIKey guards the relay routes. Empty disables the check.
	APIKey string

	// Gatherer is served on MetricsPath. Nil disables /metrics.
	Gatherer    prometheus.Gatherer
	MetricsPath string

	Bot    message.Bot
	Pinger Pinger
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:           logger,
		gin:         gin.New(),
		port:        cfg.Port,
		mode:        cfg.Mode,
		environment: cfg.Environment,
		apiKey:      cfg.APIKey,
		gatherer:    cfg.Gatherer,
		metricsPath: cfg.MetricsPath,
		bot:         cfg.Bot,
		pinger:      cfg.Pinger,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.bot == nil {
		return errors.New("bot is required")
	}
	if srv.gatherer != nil && srv.metricsPath == "" {
		srv.metricsPath = "/metrics"
	}
	return nil
}
