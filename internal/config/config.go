package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Geocoding configuration.
	GeocodeTimeout     time.Duration // per-provider-attempt bound
	GeocodePace        time.Duration // fixed pre-call sleep for rate-limited providers
	NominatimBaseURL   string
	NominatimUserAgent string
	PhotonBaseURL      string

	// Optional chart event publishing. Disabled when no brokers are set.
	KafkaBrokers     []string
	ChartEventsTopic string
}

// KafkaEnabled reports whether computed charts should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocodePace, err := parseNonNegativeDuration("GEOCODE_PACE", "1s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeocodeTimeout:     geocodeTimeout,
		GeocodePace:        geocodePace,
		NominatimBaseURL:   envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: envOrDefault("NOMINATIM_USER_AGENT", "natal-chart-service"),
		PhotonBaseURL:      envOrDefault("PHOTON_BASE_URL", "https://photon.komoot.io"),

		KafkaBrokers:     parseBrokers(os.Getenv("KAFKA_BROKERS")),
		ChartEventsTopic: envOrDefault("CHART_EVENTS_TOPIC", "natal-charts"),
	}

	if cfg.NominatimUserAgent == "" {
		return nil, errors.New("NOMINATIM_USER_AGENT must not be empty")
	}
	if cfg.KafkaEnabled() && cfg.ChartEventsTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but CHART_EVENTS_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseNonNegativeDuration allows zero: pacing can be switched off entirely.
func parseNonNegativeDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBrokers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
