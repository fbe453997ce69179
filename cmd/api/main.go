package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/docuvault/redactsvc/internal/adapters/http"
	"github.com/docuvault/redactsvc/internal/bootstrap"
	"github.com/docuvault/redactsvc/internal/config"
	"github.com/docuvault/redactsvc/internal/observability/logging"
	"github.com/docuvault/redactsvc/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("api", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, nil)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	router := httpadapter.NewRouter(
		app.UploadUC,
		app.ReadUC,
		app.ReviewUC,
		app.RedactUC,
		app.ProfilesUC,
		httpadapter.Options{
			Metrics:             httpMetrics,
			JWTSecret:           cfg.OperatorJWTSecret,
			RateLimitRPS:        cfg.RateLimitRPS,
			RateLimitBurst:      cfg.RateLimitBurst,
			FeedbackExportLimit: cfg.FeedbackExportLimit,
		},
	).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api shutdown failed", "error", err)
	}
}
