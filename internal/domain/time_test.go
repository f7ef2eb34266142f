package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCivilDateTime_Formats(t *testing.T) {
	c, err := ParseCivilDateTime("1956-02-09", "05:35")
	require.NoError(t, err)
	assert.Equal(t, 1956, c.Year)
	assert.Equal(t, 2, c.Month)
	assert.Equal(t, 9, c.Day)
	assert.Equal(t, 5, c.Hour)
	assert.Equal(t, 35, c.Minute)
	assert.Equal(t, 0, c.Second)

	c, err = ParseCivilDateTime("2024-12-31", "23:59:58")
	require.NoError(t, err)
	assert.Equal(t, 58, c.Second)
}

func TestParseCivilDateTime_InvalidDate(t *testing.T) {
	for _, date := range []string{"02/09/1956", "1956-2-9", "Feb 9 1956", ""} {
		_, err := ParseCivilDateTime(date, "05:35")
		assert.ErrorIs(t, err, ErrInvalidDate, "date %q", date)
	}
}

func TestParseCivilDateTime_InvalidTime(t *testing.T) {
	for _, tm := range []string{"5.35", "25:00", "noon", ""} {
		_, err := ParseCivilDateTime("1956-02-09", tm)
		assert.ErrorIs(t, err, ErrInvalidTime, "time %q", tm)
	}
}

func TestInZone_StandardOffset(t *testing.T) {
	c, err := ParseCivilDateTime("1956-02-09", "05:35")
	require.NoError(t, err)

	// February: Eastern Standard Time, UTC-5.
	inst, err := c.InZone("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1956, time.February, 9, 10, 35, 0, 0, time.UTC), inst.UTC)
	assert.Equal(t, "America/New_York", inst.Zone)
}

func TestInZone_DaylightSaving(t *testing.T) {
	c, err := ParseCivilDateTime("2021-07-04", "12:00")
	require.NoError(t, err)

	// July: Eastern Daylight Time, UTC-4.
	inst, err := c.InZone("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.July, 4, 16, 0, 0, 0, time.UTC), inst.UTC)
}

func TestInZone_RoundTrip(t *testing.T) {
	c, err := ParseCivilDateTime("1999-10-31", "01:30")
	require.NoError(t, err)

	inst, err := c.InZone("Europe/Berlin")
	require.NoError(t, err)

	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	back := inst.UTC.In(loc)
	assert.Equal(t, 1999, back.Year())
	assert.Equal(t, time.October, back.Month())
	assert.Equal(t, 31, back.Day())
	assert.Equal(t, 1, back.Hour())
	assert.Equal(t, 30, back.Minute())
}

func TestInZone_MissingZone(t *testing.T) {
	c, err := ParseCivilDateTime("1956-02-09", "05:35")
	require.NoError(t, err)

	_, err = c.InZone("")
	assert.ErrorIs(t, err, ErrMissingTimezone)
}

func TestInZone_UnknownZone(t *testing.T) {
	c, err := ParseCivilDateTime("1956-02-09", "05:35")
	require.NoError(t, err)

	_, err = c.InZone("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestJulianDay_KnownEpochs(t *testing.T) {
	// Unix epoch.
	assert.InDelta(t, 2440587.5, JulianDay(time.Unix(0, 0)), 1e-9)

	// J2000.0: 2000-01-01T12:00:00 UTC.
	j2000 := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 2451545.0, JulianDay(j2000), 1e-9)
}

func TestBirthRequest_HasLocation(t *testing.T) {
	full := BirthRequest{BirthCity: "Newport News", BirthProvince: "Virginia", BirthCountry: "United States"}
	assert.True(t, full.HasLocation())

	assert.False(t, BirthRequest{BirthCity: "Newport News"}.HasLocation())
	assert.False(t, BirthRequest{BirthCity: "  ", BirthProvince: "Virginia", BirthCountry: "US"}.HasLocation())
	assert.False(t, BirthRequest{}.HasLocation())
}
