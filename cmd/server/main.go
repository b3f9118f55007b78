package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/donor-map/internal/adapter/csvsource"
	"github.com/couchcryptid/donor-map/internal/adapter/httpadapter"
	"github.com/couchcryptid/donor-map/internal/adapter/mapbox"
	"github.com/couchcryptid/donor-map/internal/config"
	"github.com/couchcryptid/donor-map/internal/dashboard"
	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/couchcryptid/donor-map/internal/observability"
	"github.com/couchcryptid/donor-map/internal/pipeline"
	"github.com/couchcryptid/donor-map/internal/scene"
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

	geocoder, err := newGeocoder(cfg, metrics, logger)
	if err != nil {
		logger.Error("failed to create geocoder", "error", err)
		os.Exit(1)
	}

	// The table is built once before serving; requests never see a partial load.
	loader := pipeline.NewLoader(csvsource.NewFile(cfg.DataPath), geocoder, logger, metrics)
	table, _, err := loader.Load(ctx)
	if err != nil {
		logger.Error("failed to load donor table", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}

	svc := dashboard.New(table, scene.DefaultStyle(), nil, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

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

	logger.Info("shutdown complete")
}

// newGeocoder returns nil when reverse geocoding is disabled
// (MAPBOX_ENABLED / MAPBOX_TOKEN).
func newGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.Geocoder, error) {
	if !cfg.MapboxEnabled {
		metrics.GeocodeEnabled.Set(0)
		logger.Info("mapbox geocoding disabled")
		return nil, nil
	}

	client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
	cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
	if err != nil {
		return nil, err
	}
	metrics.GeocodeEnabled.Set(1)
	logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	return cached, nil
}
