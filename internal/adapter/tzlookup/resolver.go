// Package tzlookup resolves coordinates to IANA timezone identifiers using
// the embedded polygon data of github.com/ringsaturn/tzf.
package tzlookup

import (
	"fmt"

	"github.com/ringsaturn/tzf"

	"github.com/couchcryptid/natal-chart-service/internal/domain"
)

// Resolver implements domain.TimezoneResolver over a tzf finder.
// The lookup is fully offline; there is no network fallback.
type Resolver struct {
	finder tzf.F
}

// NewResolver loads the default embedded timezone data set.
func NewResolver() (*Resolver, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("init timezone finder: %w", err)
	}
	return &Resolver{finder: finder}, nil
}

// Unavailable stands in when the embedded data fails to load. Every lookup
// reports no zone, which the chart layer degrades to UTC with a warning.
type Unavailable struct{}

func (Unavailable) ZoneFor(_, _ float64) (string, error) {
	return "", domain.ErrZoneNotFound
}

// ZoneFor returns the IANA zone containing the coordinates.
// Coordinates outside every polygon (open ocean, poles) yield
// domain.ErrZoneNotFound, which callers treat as "use UTC".
func (r *Resolver) ZoneFor(lat, lng float64) (string, error) {
	// tzf takes lng,lat order.
	name := r.finder.GetTimezoneName(lng, lat)
	if name == "" {
		return "", domain.ErrZoneNotFound
	}
	return name, nil
}
