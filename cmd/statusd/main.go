package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/schoolcancelled/school-status-etl/internal/adapter/alertbus"
	"github.com/schoolcancelled/school-status-etl/internal/adapter/district"
	httpadapter "github.com/schoolcancelled/school-status-etl/internal/adapter/http"
	"github.com/schoolcancelled/school-status-etl/internal/config"
	"github.com/schoolcancelled/school-status-etl/internal/observability"
	"github.com/schoolcancelled/school-status-etl/internal/status"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := district.NewClient(cfg, logger)

	// Alert bus is feature-flagged via ALERT_BUS_ENABLED / ALERT_KAFKA_BROKERS.
	var publisher status.AlertPublisher
	var alertWriter *alertbus.Writer
	if cfg.AlertBusEnabled {
		alertWriter = alertbus.NewWriter(cfg, logger)
		publisher = alertWriter
		logger.Info("alert bus enabled", "brokers", cfg.AlertBrokers, "topic", cfg.AlertTopic)
	} else {
		logger.Info("alert bus disabled")
	}

	svc := status.New(fetcher, status.Options{
		CacheTTL:       cfg.CacheTTL,
		AlertMinLength: cfg.AlertMinLength,
		ExcerptMax:     cfg.ExcerptMax,
		Source:         cfg.SourceURL,
		Publisher:      publisher,
	}, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the cache so the first reader does not pay the fetch latency.
	go func() {
		if _, err := svc.Status(ctx); err != nil {
			logger.Warn("initial status refresh failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if alertWriter != nil {
		if err := alertWriter.Close(); err != nil {
			logger.Error("alert writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
