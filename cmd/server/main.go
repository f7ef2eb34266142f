// Command server runs the natal chart service as a long-lived HTTP server
// with health, readiness, and metrics endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/natal-chart-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/natal-chart-service/internal/adapter/kafka"
	"github.com/couchcryptid/natal-chart-service/internal/adapter/nominatim"
	"github.com/couchcryptid/natal-chart-service/internal/adapter/photon"
	"github.com/couchcryptid/natal-chart-service/internal/adapter/tzlookup"
	"github.com/couchcryptid/natal-chart-service/internal/chart"
	"github.com/couchcryptid/natal-chart-service/internal/config"
	"github.com/couchcryptid/natal-chart-service/internal/domain"
	"github.com/couchcryptid/natal-chart-service/internal/ephemeris"
	"github.com/couchcryptid/natal-chart-service/internal/geocode"
	"github.com/couchcryptid/natal-chart-service/internal/observability"
	"github.com/couchcryptid/natal-chart-service/internal/sky"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var zones domain.TimezoneResolver
	zones, err = tzlookup.NewResolver()
	if err != nil {
		logger.Warn("timezone data unavailable, charts will fall back to UTC", "error", err)
		zones = tzlookup.Unavailable{}
	}

	providers := []geocode.Provider{
		{Geocoder: nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimUserAgent, cfg.GeocodeTimeout, logger), Pace: cfg.GeocodePace},
		{Geocoder: photon.NewClient(cfg.PhotonBaseURL, cfg.GeocodeTimeout, logger)},
	}
	resolver := geocode.NewResolver(providers, cfg.GeocodeTimeout, logger, metrics)

	eph := ephemeris.New()
	charts := chart.NewCalculator(resolver, zones, eph, logger, metrics)
	skyCalc := sky.NewCalculator(eph, logger)

	var chartService httpadapter.ChartService = charts
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		chartService = kafkaadapter.NewPublishingService(charts, publisher, logger)
		logger.Info("chart event publishing enabled", "topic", cfg.ChartEventsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("chart event publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, chartService, skyCalc, skyCalc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
