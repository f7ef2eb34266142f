package chart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/natal-chart-service/internal/domain"
	"github.com/couchcryptid/natal-chart-service/internal/observability"
)

// --- stubs ---

type stubLocations struct {
	coords domain.Coordinates
	err    error
	calls  int
}

func (s *stubLocations) Resolve(_ context.Context, _, _, _ string) (domain.Coordinates, error) {
	s.calls++
	return s.coords, s.err
}

type stubZones struct {
	zone  string
	err   error
	calls int
}

func (s *stubZones) ZoneFor(_, _ float64) (string, error) {
	s.calls++
	return s.zone, s.err
}

// stubEphemeris returns fixed longitudes per body and a fixed ascendant.
type stubEphemeris struct {
	longitudes map[domain.Body]float64
	ascendant  float64
	err        error
}

func (s *stubEphemeris) BodyPosition(_ float64, body domain.Body) (domain.BodyPosition, error) {
	if s.err != nil {
		return domain.BodyPosition{}, s.err
	}
	lon, ok := s.longitudes[body]
	if !ok {
		return domain.BodyPosition{}, errors.New("body not stubbed")
	}
	return domain.BodyPosition{Longitude: lon}, nil
}

func (s *stubEphemeris) Houses(_, _, _ float64) (domain.Houses, error) {
	if s.err != nil {
		return domain.Houses{}, s.err
	}
	return domain.Houses{Ascendant: s.ascendant}, nil
}

func newTestCalculator(locations LocationResolver, zones domain.TimezoneResolver, eph domain.Ephemeris) *Calculator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCalculator(locations, zones, eph, logger, observability.NewMetricsForTesting())
}

var newportRequest = domain.BirthRequest{
	BirthDate:     "1956-02-09",
	BirthTime:     "05:35",
	BirthCountry:  "United States",
	BirthProvince: "Virginia",
	BirthCity:     "Newport News",
}

func workingStubs() (*stubLocations, *stubZones, *stubEphemeris) {
	locations := &stubLocations{coords: domain.Coordinates{Latitude: 37.0299, Longitude: -76.4327}}
	zones := &stubZones{zone: "America/New_York"}
	eph := &stubEphemeris{
		longitudes: map[domain.Body]float64{
			domain.Sun:       320.5,
			domain.Moon:      15.0,
			domain.NorthNode: 55.0,
		},
		ascendant: 247.5,
	}
	return locations, zones, eph
}

// --- tests ---

func TestCalculate_UnparsableDateIsTerminal(t *testing.T) {
	locations, zones, eph := workingStubs()
	calc := newTestCalculator(locations, zones, eph)

	res := calc.Calculate(context.Background(), domain.BirthRequest{
		BirthDate: "February 9, 1956",
		BirthTime: "05:35",
	})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "invalid birth date")
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.SunSign)
	assert.Nil(t, res.JulianDay)
	assert.Equal(t, 0, locations.calls, "terminal failure must not reach geocoding")
}

func TestCalculate_UnparsableTimeIsTerminal(t *testing.T) {
	locations, zones, eph := workingStubs()
	calc := newTestCalculator(locations, zones, eph)

	res := calc.Calculate(context.Background(), domain.BirthRequest{
		BirthDate: "1956-02-09",
		BirthTime: "5:35 AM",
	})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "invalid birth time")
}

func TestCalculate_FullPath(t *testing.T) {
	locations, zones, eph := workingStubs()
	calc := newTestCalculator(locations, zones, eph)

	res := calc.Calculate(context.Background(), newportRequest)

	require.True(t, res.Success)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Error)

	assert.Equal(t, "Aquarius", res.SunSign)
	assert.Equal(t, 20.5, *res.SunDegree)
	assert.Equal(t, "Aries", res.MoonSign)
	assert.Equal(t, 15.0, *res.MoonDegree)
	assert.Equal(t, "Sagittarius", res.RisingSign)
	assert.Equal(t, 7.5, *res.RisingDegree)

	assert.Equal(t, "Taurus", res.NorthNodeSign)
	assert.Equal(t, 25.0, *res.NorthNodeDegree)
	assert.Equal(t, "Scorpio", res.SouthNodeSign)
	assert.Equal(t, 25.0, *res.SouthNodeDegree)

	require.NotNil(t, res.Latitude)
	require.NotNil(t, res.Longitude)
	assert.Equal(t, 37.03, *res.Latitude)
	assert.Equal(t, -76.43, *res.Longitude)

	// 05:35 EST is 10:35 UTC.
	assert.Equal(t, "America/New_York", res.Timezone)
	assert.Equal(t, "1956-02-09T10:35:00Z", res.UTCTime)

	require.NotNil(t, res.JulianDay)
	want := domain.JulianDay(time.Date(1956, 2, 9, 10, 35, 0, 0, time.UTC))
	assert.InDelta(t, want, *res.JulianDay, 1e-9)
}

func TestCalculate_UnresolvableLocationDegrades(t *testing.T) {
	locations := &stubLocations{err: domain.ErrNotFound}
	_, zones, eph := workingStubs()
	calc := newTestCalculator(locations, zones, eph)

	req := newportRequest
	req.BirthCity = "Newprot News" // typo the geocoder can't place
	res := calc.Calculate(context.Background(), req)

	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Empty(t, res.SunSign)
	assert.Nil(t, res.SunDegree)
	assert.Empty(t, res.MoonSign)
	assert.Empty(t, res.RisingSign)
	assert.Nil(t, res.Latitude)

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "Newprot News")
	assert.Contains(t, res.Warnings[0], "spelling")

	// Time conversion still happens, read as UTC.
	assert.Equal(t, "UTC", res.Timezone)
	assert.Equal(t, "1956-02-09T05:35:00Z", res.UTCTime)
	assert.NotNil(t, res.JulianDay)
}

func TestCalculate_NoLocationProvided(t *testing.T) {
	locations, zones, eph := workingStubs()
	calc := newTestCalculator(locations, zones, eph)

	res := calc.Calculate(context.Background(), domain.BirthRequest{
		BirthDate: "1990-06-15",
		BirthTime: "12:00:00",
	})

	assert.True(t, res.Success)
	assert.Equal(t, 0, locations.calls)
	assert.Empty(t, res.SunSign)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "No birth location provided")
	assert.Equal(t, "1990-06-15T12:00:00Z", res.UTCTime)
}

func TestCalculate_ExplicitZoneHonoredVerbatim(t *testing.T) {
	locations, zones, eph := workingStubs()
	calc := newTestCalculator(locations, zones, eph)

	req := newportRequest
	req.BirthTimezone = "Asia/Tokyo"
	res := calc.Calculate(context.Background(), req)

	require.True(t, res.Success)
	assert.Equal(t, 0, zones.calls, "explicit zone must skip resolution")
	assert.Equal(t, "Asia/Tokyo", res.Timezone)
	// 05:35 JST is 20:35 UTC the previous day.
	assert.Equal(t, "1956-02-08T20:35:00Z", res.UTCTime)
}

func TestCalculate_ZoneResolutionFailureFallsBackToUTC(t *testing.T) {
	locations, _, eph := workingStubs()
	zones := &stubZones{err: domain.ErrZoneNotFound}
	calc := newTestCalculator(locations, zones, eph)

	res := calc.Calculate(context.Background(), newportRequest)

	assert.True(t, res.Success)
	assert.Equal(t, "UTC", res.Timezone)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "timezone")

	// Coordinates exist, so astronomy still runs.
	assert.Equal(t, "Aquarius", res.SunSign)
}

func TestCalculate_UnknownExplicitZoneFallsBackToUTC(t *testing.T) {
	locations, zones, eph := workingStubs()
	calc := newTestCalculator(locations, zones, eph)

	req := newportRequest
	req.BirthTimezone = "Mars/Olympus_Mons"
	res := calc.Calculate(context.Background(), req)

	assert.True(t, res.Success)
	assert.Equal(t, "UTC", res.Timezone)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "Mars/Olympus_Mons")
	assert.Equal(t, "1956-02-09T05:35:00Z", res.UTCTime)
}

func TestCalculate_EphemerisFailureDegrades(t *testing.T) {
	locations, zones, _ := workingStubs()
	eph := &stubEphemeris{err: errors.New("ephemeris file corrupt")}
	calc := newTestCalculator(locations, zones, eph)

	res := calc.Calculate(context.Background(), newportRequest)

	assert.True(t, res.Success)
	assert.Empty(t, res.SunSign)
	assert.Empty(t, res.MoonSign)
	assert.Empty(t, res.RisingSign)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "ephemeris file corrupt")

	// Location and time stages already succeeded and stay in the result.
	assert.Equal(t, 37.03, *res.Latitude)
	assert.Equal(t, "America/New_York", res.Timezone)
}

func TestCalculate_DSTDate(t *testing.T) {
	locations, zones, eph := workingStubs()
	calc := newTestCalculator(locations, zones, eph)

	req := newportRequest
	req.BirthDate = "2021-07-04"
	req.BirthTime = "12:00"
	res := calc.Calculate(context.Background(), req)

	require.True(t, res.Success)
	// EDT, not EST: offset is -4 in July.
	assert.Equal(t, "2021-07-04T16:00:00Z", res.UTCTime)
}
