package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidDate is returned when a birth date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid birth date")

	// ErrInvalidTime is returned when a birth time is neither HH:MM:SS nor HH:MM.
	ErrInvalidTime = errors.New("invalid birth time")

	// ErrMissingTimezone is returned when UTC conversion is attempted
	// without a zone.
	ErrMissingTimezone = errors.New("missing timezone")
)

// birthTimeFormats are tried in order; the first that parses wins.
var birthTimeFormats = []string{"15:04:05", "15:04"}

// CivilDateTime is a parsed birth date and wall-clock time with no zone
// attached yet. Zone attachment is deferred because the zone may itself be
// derived from geocoded coordinates.
type CivilDateTime struct {
	Year, Month, Day     int
	Hour, Minute, Second int
}

// BirthInstant is a zone-resolved civil time: the UTC instant and the
// Julian day derived from it.
type BirthInstant struct {
	UTC       time.Time
	Zone      string
	JulianDay float64
}

// ParseCivilDateTime parses a YYYY-MM-DD date and an HH:MM:SS or HH:MM time.
// This is the only terminally-failing stage of chart calculation.
func ParseCivilDateTime(dateStr, timeStr string) (CivilDateTime, error) {
	d, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return CivilDateTime{}, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}

	for _, layout := range birthTimeFormats {
		t, err := time.Parse(layout, timeStr)
		if err != nil {
			continue
		}
		return CivilDateTime{
			Year: d.Year(), Month: int(d.Month()), Day: d.Day(),
			Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
		}, nil
	}
	return CivilDateTime{}, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
}

// InZone combines the civil date/time with an IANA zone and converts to UTC,
// honoring the zone's offset rules on that calendar date (DST-correct).
func (c CivilDateTime) InZone(zoneID string) (BirthInstant, error) {
	if zoneID == "" {
		return BirthInstant{}, ErrMissingTimezone
	}
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return BirthInstant{}, fmt.Errorf("load timezone %q: %w", zoneID, err)
	}

	local := time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, 0, loc)
	utc := local.UTC()
	return BirthInstant{
		UTC:       utc,
		Zone:      zoneID,
		JulianDay: JulianDay(utc),
	}, nil
}

// JulianDay converts an instant to a fractional Julian day on the UTC scale.
// JD 2440587.5 corresponds to 1970-01-01T00:00:00Z.
func JulianDay(t time.Time) float64 {
	const unixEpochJD = 2440587.5
	sec := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return unixEpochJD + sec/86400.0
}
