package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/india-cartogram/internal/adapter/cache"
	httpadapter "github.com/couchcryptid/india-cartogram/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/india-cartogram/internal/adapter/kafka"
	"github.com/couchcryptid/india-cartogram/internal/adapter/source"
	"github.com/couchcryptid/india-cartogram/internal/config"
	"github.com/couchcryptid/india-cartogram/internal/domain"
	"github.com/couchcryptid/india-cartogram/internal/observability"
	"github.com/couchcryptid/india-cartogram/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	builder, err := cache.NewCachedBuilder(pipeline.NewBuilder(domain.DefaultCatalog, metrics, logger), cfg.LayoutCacheSize, metrics)
	if err != nil {
		logger.Error("failed to create layout cache", "error", err)
		os.Exit(1)
	}

	src := source.New(cfg.DataSource, cfg.DataSourceTimeout, logger)
	logger.Info("dataset source configured", "source", cfg.DataSource, "refresh_interval", cfg.RefreshInterval)

	// Kafka publishing is feature-flagged via KAFKA_ENABLED.
	var opts []pipeline.Option
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, pipeline.WithPublisher(writer))
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(src, builder, cfg.Chart.Options, cfg.RefreshInterval, logger, metrics, opts...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, domain.DefaultCatalog, cfg.Chart.ResponsiveWidth, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
