// Package geocode orchestrates free-text location resolution across an
// ordered chain of provider strategies with process-wide result caching.
package geocode

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/natal-chart-service/internal/domain"
	"github.com/couchcryptid/natal-chart-service/internal/observability"
)

// Provider pairs a geocoder with its pacing requirement. Pace is a fixed
// sleep before every call, not a retry backoff — rate-limited services like
// Nominatim ask for a minimum gap between requests.
type Provider struct {
	Geocoder domain.Geocoder
	Pace     time.Duration
}

// Resolver resolves a (country, province, city) triple to coordinates.
// Providers are tried in order; within each provider, address variants are
// tried from most to least specific. The first success wins verbatim.
type Resolver struct {
	providers []Provider
	cache     *cache
	timeout   time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewResolver creates a Resolver over an ordered provider chain.
// timeout bounds each individual provider attempt.
func NewResolver(providers []Provider, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		providers: providers,
		cache:     newCache(),
		timeout:   timeout,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
		metrics:   metrics,
	}
}

// SetClock swaps the pacing clock. Tests inject a fake so pacing sleeps
// don't slow the suite down.
func (r *Resolver) SetClock(c clockwork.Clock) {
	r.clock = c
}

// Resolve returns coordinates for the location triple, or domain.ErrNotFound
// once every provider strategy has been exhausted. Outcomes — positive and
// negative — are cached for the life of the process, so a repeated key never
// reaches a provider twice.
func (r *Resolver) Resolve(ctx context.Context, country, province, city string) (domain.Coordinates, error) {
	key := cacheKey(country, province, city)

	if entry, ok := r.cache.get(key); ok {
		if entry.found {
			r.metrics.GeocodeCache.WithLabelValues("hit_positive").Inc()
			r.logger.Debug("geocode cache hit", "key", key)
			return entry.coords, nil
		}
		r.metrics.GeocodeCache.WithLabelValues("hit_negative").Inc()
		r.logger.Debug("geocode negative cache hit", "key", key)
		return domain.Coordinates{}, domain.ErrNotFound
	}
	r.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	for _, provider := range r.providers {
		coords, ok := r.tryProvider(ctx, provider, country, province, city)
		if ok {
			r.cache.putPositive(key, coords)
			return coords, nil
		}
		if ctx.Err() != nil {
			// Caller gave up; don't poison the cache with a negative entry.
			return domain.Coordinates{}, ctx.Err()
		}
	}

	r.cache.putNegative(key)
	return domain.Coordinates{}, domain.ErrNotFound
}

// tryProvider walks the address variants for one provider, from the full
// triple down to the bare city. Provider-level errors are non-fatal: they
// are logged and the next variant (or provider) is tried.
func (r *Resolver) tryProvider(ctx context.Context, provider Provider, country, province, city string) (domain.Coordinates, bool) {
	name := provider.Geocoder.Name()

	for _, address := range addressVariants(country, province, city) {
		if provider.Pace > 0 {
			r.clock.Sleep(provider.Pace)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		start := r.clock.Now()
		coords, err := provider.Geocoder.Geocode(attemptCtx, address)
		cancel()
		r.metrics.GeocodeDuration.WithLabelValues(name).Observe(r.clock.Since(start).Seconds())

		switch {
		case err == nil:
			r.metrics.GeocodeRequests.WithLabelValues(name, "success").Inc()
			r.logger.Info("geocode resolved",
				"provider", name,
				"address", address,
				"lat", coords.Latitude,
				"lng", coords.Longitude,
			)
			return coords, true
		case errors.Is(err, domain.ErrNotFound):
			r.metrics.GeocodeRequests.WithLabelValues(name, "not_found").Inc()
			r.logger.Debug("geocode no match", "provider", name, "address", address)
		default:
			r.metrics.GeocodeRequests.WithLabelValues(name, "error").Inc()
			r.logger.Warn("geocode attempt failed",
				"provider", name,
				"address", address,
				"error", err,
			)
		}

		if ctx.Err() != nil {
			return domain.Coordinates{}, false
		}
	}
	return domain.Coordinates{}, false
}

// addressVariants builds address strings from most to least specific:
// "city, province, country" → "city, country" → "city". Empty fields are
// skipped and duplicate variants collapse.
func addressVariants(country, province, city string) []string {
	join := func(parts ...string) string {
		var kept []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}
		return strings.Join(kept, ", ")
	}

	var variants []string
	seen := make(map[string]bool)
	for _, v := range []string{
		join(city, province, country),
		join(city, country),
		join(city),
	} {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		variants = append(variants, v)
	}
	return variants
}
