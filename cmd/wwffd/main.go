package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/oherrala/wwff-directory/internal/adapter/httpapi"
	kafkaadapter "github.com/oherrala/wwff-directory/internal/adapter/kafka"
	"github.com/oherrala/wwff-directory/internal/config"
	"github.com/oherrala/wwff-directory/internal/directory"
	"github.com/oherrala/wwff-directory/internal/fetch"
	"github.com/oherrala/wwff-directory/internal/ingest"
	"github.com/oherrala/wwff-directory/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	builder := ingest.NewBuilder(logger, metrics)
	downloader := fetch.NewDownloader(cfg.DirectoryURL, cfg.FetchTimeout, cfg.FetchMinInterval, builder, logger, metrics)

	// Initial load: local file when configured, otherwise first download.
	var handle *directory.Handle
	if cfg.DirectoryFile != "" {
		handle, err = directory.OpenPath(cfg.DirectoryFile, builder, downloader, logger, metrics)
	} else {
		handle, err = directory.OpenRemote(ctx, downloader, logger, metrics)
	}
	if err != nil {
		logger.Error("initial directory load failed", "error", err)
		os.Exit(1)
	}
	stats := handle.Stats()
	logger.Info("directory loaded", "entries", stats.Entries, "skipped", stats.Skipped, "snapshot_id", stats.SnapshotID)

	// Change feed (feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED).
	var publisher directory.ChangePublisher
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := p.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		publisher = p
		logger.Info("change feed enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("change feed disabled")
	}

	refresher := directory.NewRefresher(handle, publisher, cfg.RefreshInterval, logger, metrics)
	srv := httpapi.NewServer(cfg.HTTPAddr, handle, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start periodic refresh.
	go func() {
		if err := refresher.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
