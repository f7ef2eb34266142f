package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no geocoding provider can resolve an address.
var ErrNotFound = errors.New("location not found")

// ErrZoneNotFound is returned when coordinates fall outside every known
// timezone polygon. Callers must treat it as "fall back to UTC".
var ErrZoneNotFound = errors.New("timezone not found")

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`  // [-90, 90]
	Longitude float64 `json:"longitude"` // [-180, 180]
}

// Geocoder is a single provider strategy: it resolves one free-text address
// to coordinates or reports ErrNotFound. Orchestration (fallback chains,
// caching, pacing) lives above this interface.
type Geocoder interface {
	// Name identifies the provider for logging and metrics.
	Name() string

	// Geocode resolves an address string. Returns ErrNotFound when the
	// provider has no match; any other error is a provider-level failure.
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// TimezoneResolver maps coordinates to an IANA zone identifier.
type TimezoneResolver interface {
	// ZoneFor returns the zone containing the coordinates, or ErrZoneNotFound.
	ZoneFor(lat, lng float64) (string, error)
}
