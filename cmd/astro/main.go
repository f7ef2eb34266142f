// Command astro is the stdin/stdout worker: it reads one JSON request,
// writes one JSON response to stdout, and logs diagnostics to stderr.
// A malformed envelope exits 1; every other failure is reported inside the
// response body with a zero exit.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	kafkaadapter "github.com/couchcryptid/natal-chart-service/internal/adapter/kafka"
	"github.com/couchcryptid/natal-chart-service/internal/adapter/nominatim"
	"github.com/couchcryptid/natal-chart-service/internal/adapter/photon"
	"github.com/couchcryptid/natal-chart-service/internal/adapter/tzlookup"
	"github.com/couchcryptid/natal-chart-service/internal/chart"
	"github.com/couchcryptid/natal-chart-service/internal/config"
	"github.com/couchcryptid/natal-chart-service/internal/dispatch"
	"github.com/couchcryptid/natal-chart-service/internal/domain"
	"github.com/couchcryptid/natal-chart-service/internal/ephemeris"
	"github.com/couchcryptid/natal-chart-service/internal/geocode"
	"github.com/couchcryptid/natal-chart-service/internal/observability"
	"github.com/couchcryptid/natal-chart-service/internal/sky"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
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

	var chartService dispatch.ChartCalculator = charts
	if cfg.KafkaEnabled() {
		publisher := kafkaadapter.NewPublisher(cfg, logger)
		defer publisher.Close() //nolint:errcheck // one-shot process
		chartService = kafkaadapter.NewPublishingService(charts, publisher, logger)
	}

	handler := dispatch.NewHandler(chartService, skyCalc, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		emit(dispatch.ErrorResult{Success: false, Error: "read input: " + err.Error()})
		return 1
	}

	res, err := handler.Handle(ctx, raw)
	if err != nil {
		emit(dispatch.ErrorResult{Success: false, Error: err.Error()})
		return 1
	}

	emit(res)
	return 0
}

// emit writes the single response object to stdout.
func emit(v any) {
	json.NewEncoder(os.Stdout).Encode(v) //nolint:errcheck // stdout is the response channel
}
