package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/damdash/dam-levels-service/internal/adapter/httpapi"
	mongostore "github.com/damdash/dam-levels-service/internal/adapter/mongo"
	"github.com/damdash/dam-levels-service/internal/cache"
	"github.com/damdash/dam-levels-service/internal/config"
	"github.com/damdash/dam-levels-service/internal/observability"
	"github.com/damdash/dam-levels-service/internal/service"
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

	store, disconnect, err := mongostore.Connect(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to connect to report store", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to report store", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)

	cached := cache.New(store, clockwork.NewRealClock(), cache.TTLs{
		Filters: cfg.FilterCacheTTL,
		Reports: cfg.ReportCacheTTL,
		Trends:  cfg.TrendCacheTTL,
	}, metrics)

	srv := httpapi.NewServer(
		cfg.HTTPAddr,
		service.NewFilterResolver(cached, logger),
		service.NewProjector(cached, logger),
		service.NewTrendAggregator(cached, logger),
		store,
		logger,
		metrics,
	)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := disconnect(shutdownCtx); err != nil {
		logger.Error("report store disconnect error", "error", err)
	}

	logger.Info("shutdown complete")
}
