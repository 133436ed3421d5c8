package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	messageHTTP "telegram-bot-client/internal/message/delivery/http"
	messageUC "telegram-bot-client/internal/message/usecase"
	"telegram-bot-client/internal/middleware"
)

const (
	environmentProduction = "production"
	shutdownTimeout       = 10 * time.Second
)

func (srv *HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv *HTTPServer) registerMiddlewares() {
	mw := middleware.New(srv.l, srv.apiKey)
	srv.gin.Use(gin.Recovery(), mw.RequestID())

	ctx := context.Background()
	if srv.environment == environmentProduction {
		srv.l.Infof(ctx, "httpserver: mode: production")
	} else {
		srv.l.Infof(ctx, "httpserver: mode: %s", srv.environment)
	}
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	if srv.gatherer != nil {
		srv.gin.GET(srv.metricsPath, gin.WrapH(promhttp.HandlerFor(srv.gatherer, promhttp.HandlerOpts{})))
	}
}

// registerDomainRoutes registers all domain routes.
func (srv *HTTPServer) registerDomainRoutes() {
	mw := middleware.New(srv.l, srv.apiKey)
	api := srv.gin.Group("/api/v1")

	// Message relay: /api/v1/messages
	uc := messageUC.New(srv.bot, srv.l)
	h := messageHTTP.New(srv.l, uc)
	messageHTTP.RegisterRoutes(api, h, mw)
}

// Handler exposes the gin engine, mostly for tests.
func (srv *HTTPServer) Handler() http.Handler {
	return srv.gin
}

// Run serves until ctx is done, then shuts down gracefully.
func (srv *HTTPServer) Run(ctx context.Context) error {
	hs := &http.Server{
		Addr:              fmt.Sprintf(":%d", srv.port),
		Handler:           srv.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		srv.l.Infof(ctx, "httpserver: listening on %s", hs.Addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("httpserver: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpserver: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpserver: %w", err)
	}
	return nil
}
