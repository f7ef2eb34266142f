// Package chart orchestrates the birth chart pipeline: civil time parsing,
// location resolution, timezone attachment, and ephemeris queries. Every
// stage after the initial parse degrades into a warning instead of failing
// the request.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/natal-chart-service/internal/domain"
	"github.com/couchcryptid/natal-chart-service/internal/observability"
)

// LocationResolver resolves a location triple to coordinates.
// *geocode.Resolver satisfies this.
type LocationResolver interface {
	Resolve(ctx context.Context, country, province, city string) (domain.Coordinates, error)
}

// Result is the birth chart response. Optional fields are pointers or
// omitempty strings so skipped stages leave no trace in the JSON.
type Result struct {
	Success bool `json:"success"`

	SunSign      string   `json:"sun_sign,omitempty"`
	SunDegree    *float64 `json:"sun_degree,omitempty"`
	MoonSign     string   `json:"moon_sign,omitempty"`
	MoonDegree   *float64 `json:"moon_degree,omitempty"`
	RisingSign   string   `json:"rising_sign,omitempty"`
	RisingDegree *float64 `json:"rising_degree,omitempty"`

	NorthNodeSign   string   `json:"north_node_sign,omitempty"`
	NorthNodeDegree *float64 `json:"north_node_degree,omitempty"`
	SouthNodeSign   string   `json:"south_node_sign,omitempty"`
	SouthNodeDegree *float64 `json:"south_node_degree,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Timezone  string   `json:"timezone,omitempty"`
	UTCTime   string   `json:"utc_time,omitempty"`
	JulianDay *float64 `json:"julian_day,omitempty"`

	Warnings []string `json:"warnings"`
	Error    string   `json:"error,omitempty"`
}

// Calculator runs the birth chart pipeline.
type Calculator struct {
	locations LocationResolver
	zones     domain.TimezoneResolver
	eph       domain.Ephemeris
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewCalculator wires the pipeline stages together.
func NewCalculator(locations LocationResolver, zones domain.TimezoneResolver, eph domain.Ephemeris, logger *slog.Logger, metrics *observability.Metrics) *Calculator {
	return &Calculator{
		locations: locations,
		zones:     zones,
		eph:       eph,
		logger:    logger,
		metrics:   metrics,
	}
}

// Calculate produces a birth chart for the request. Only an unparsable date
// or time is terminal; geocoding, timezone, and astronomy failures degrade
// into warnings on a success:true result.
func (c *Calculator) Calculate(ctx context.Context, req domain.BirthRequest) Result {
	civil, err := domain.ParseCivilDateTime(req.BirthDate, req.BirthTime)
	if err != nil {
		c.logger.Warn("birth chart rejected", "error", err)
		return Result{Success: false, Error: err.Error(), Warnings: []string{}}
	}

	res := Result{Success: true, Warnings: []string{}}

	coords, haveCoords := c.resolveLocation(ctx, req, &res)
	if haveCoords {
		res.Latitude = ptr(round2(coords.Latitude))
		res.Longitude = ptr(round2(coords.Longitude))
	}

	instant := c.resolveInstant(civil, req.BirthTimezone, coords, haveCoords, &res)
	res.Timezone = instant.Zone
	res.UTCTime = instant.UTC.Format(time.RFC3339)
	res.JulianDay = ptr(instant.JulianDay)

	if haveCoords {
		c.computeAstronomy(instant.JulianDay, coords, &res)
	}

	return res
}

// resolveLocation geocodes the request's location triple if one is present.
// Both "not provided" and "not found" degrade with distinct warnings.
func (c *Calculator) resolveLocation(ctx context.Context, req domain.BirthRequest, res *Result) (domain.Coordinates, bool) {
	if !req.HasLocation() {
		c.warn(res, "No birth location provided, so location-based placements were skipped.")
		return domain.Coordinates{}, false
	}

	coords, err := c.locations.Resolve(ctx, req.BirthCountry, req.BirthProvince, req.BirthCity)
	if err != nil {
		c.logger.Info("birth location unresolved",
			"city", req.BirthCity,
			"province", req.BirthProvince,
			"country", req.BirthCountry,
			"error", err,
		)
		c.warn(res, fmt.Sprintf("Could not find coordinates for %s. Check the spelling or try a nearby larger city.", req.BirthCity))
		return domain.Coordinates{}, false
	}
	return coords, true
}

// resolveInstant attaches a timezone and converts the civil time to UTC.
// An explicit zone is honored verbatim; otherwise the zone is derived from
// coordinates; every failure falls back to UTC with a warning.
func (c *Calculator) resolveInstant(civil domain.CivilDateTime, explicitZone string, coords domain.Coordinates, haveCoords bool, res *Result) domain.BirthInstant {
	zone := explicitZone
	if zone == "" {
		switch {
		case haveCoords:
			derived, err := c.zones.ZoneFor(coords.Latitude, coords.Longitude)
			if err != nil {
				c.warn(res, "Could not determine the timezone for the birth location, so the birth time was read as UTC.")
				zone = "UTC"
			} else {
				zone = derived
			}
		default:
			c.warn(res, "No timezone available, so the birth time was read as UTC.")
			zone = "UTC"
		}
	}

	instant, err := civil.InZone(zone)
	if err != nil {
		c.warn(res, fmt.Sprintf("Unknown timezone %q, so the birth time was read as UTC.", zone))
		instant, _ = civil.InZone("UTC")
	}
	return instant
}

// computeAstronomy fills the sign placements. The stage is all-or-nothing:
// an ephemeris error leaves every placement unset and appends one warning.
func (c *Calculator) computeAstronomy(jd float64, coords domain.Coordinates, res *Result) {
	sun, err := c.eph.BodyPosition(jd, domain.Sun)
	if err == nil {
		var moon domain.BodyPosition
		moon, err = c.eph.BodyPosition(jd, domain.Moon)
		if err == nil {
			var houses domain.Houses
			houses, err = c.eph.Houses(jd, coords.Latitude, coords.Longitude)
			if err == nil {
				setPlacement(&res.SunSign, &res.SunDegree, sun.Longitude)
				setPlacement(&res.MoonSign, &res.MoonDegree, moon.Longitude)
				setPlacement(&res.RisingSign, &res.RisingDegree, houses.Ascendant)

				// Nodes are a bonus: their absence doesn't warrant a warning.
				if node, nodeErr := c.eph.BodyPosition(jd, domain.NorthNode); nodeErr == nil {
					setPlacement(&res.NorthNodeSign, &res.NorthNodeDegree, node.Longitude)
					setPlacement(&res.SouthNodeSign, &res.SouthNodeDegree, domain.SouthNode(node.Longitude))
				}

				c.metrics.ChartsComputed.Inc()
				return
			}
		}
	}

	c.logger.Warn("astronomy stage failed", "jd", jd, "error", err)
	c.warn(res, fmt.Sprintf("Could not compute planetary positions: %v.", err))
}

func (c *Calculator) warn(res *Result, msg string) {
	res.Warnings = append(res.Warnings, msg)
	c.metrics.ChartWarnings.Inc()
}

func setPlacement(sign *string, degree **float64, longitude float64) {
	pos := domain.ToZodiac(longitude)
	*sign = pos.Sign
	*degree = ptr(round2(pos.Degree))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 {
	return &v
}
