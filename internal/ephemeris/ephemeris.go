// Package ephemeris provides a built-in analytic ephemeris: truncated
// series and Keplerian orbital elements good to a few arcminutes over
// roughly 1800–2050, which is ample for sign-and-degree astrology. It
// implements domain.Ephemeris so a higher-precision provider can be swapped
// in without touching the calculators.
package ephemeris

import (
	"fmt"
	"math"

	"github.com/couchcryptid/natal-chart-service/internal/domain"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// Analytic is the built-in ephemeris. It is stateless and safe for
// concurrent use.
type Analytic struct{}

// New creates the built-in analytic ephemeris.
func New() *Analytic {
	return &Analytic{}
}

// BodyPosition returns the geocentric ecliptic position of a body at the
// given Julian day. The longitude rate is a central difference over one
// day, which is what retrograde detection needs.
func (a *Analytic) BodyPosition(jd float64, body domain.Body) (domain.BodyPosition, error) {
	pos, err := positionAt(jd, body)
	if err != nil {
		return domain.BodyPosition{}, err
	}

	const step = 0.5 // days
	before, errB := positionAt(jd-step, body)
	after, errA := positionAt(jd+step, body)
	if errB == nil && errA == nil {
		pos.Speed = signedDelta(after.Longitude, before.Longitude) / (2 * step)
	}
	return pos, nil
}

// Houses returns the ascendant and midheaven for an observer.
func (a *Analytic) Houses(jd, lat, lng float64) (domain.Houses, error) {
	if math.Abs(lat) > 89.99 {
		return domain.Houses{}, fmt.Errorf("ascendant undefined at polar latitude %.2f", lat)
	}

	t := centuries(jd)
	ramc := domain.Normalize360(gmst(jd) + lng) // local sidereal time, degrees
	eps := obliquity(t) * deg2rad
	theta := ramc * deg2rad
	phi := lat * deg2rad

	asc := math.Atan2(math.Cos(theta), -(math.Sin(theta)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps)))
	mc := math.Atan2(math.Sin(theta), math.Cos(theta)*math.Cos(eps))

	return domain.Houses{
		Ascendant: domain.Normalize360(asc * rad2deg),
		Midheaven: domain.Normalize360(mc * rad2deg),
	}, nil
}

// positionAt computes the position without the longitude rate.
func positionAt(jd float64, body domain.Body) (domain.BodyPosition, error) {
	switch body {
	case domain.Moon:
		return moonPosition(jd), nil
	case domain.NorthNode:
		return meanNodePosition(jd), nil
	case domain.Sun, domain.Mercury, domain.Venus, domain.Mars, domain.Jupiter, domain.Saturn:
		return planetPosition(jd, body)
	default:
		return domain.BodyPosition{}, fmt.Errorf("no ephemeris model for body %v", body)
	}
}

// centuries converts a Julian day to Julian centuries since J2000.0.
func centuries(jd float64) float64 {
	return (jd - 2451545.0) / 36525.0
}

// gmst returns Greenwich mean sidereal time in degrees.
func gmst(jd float64) float64 {
	t := centuries(jd)
	theta := 280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*t*t -
		t*t*t/38710000.0
	return domain.Normalize360(theta)
}

// obliquity returns the mean obliquity of the ecliptic in degrees.
func obliquity(t float64) float64 {
	return 23.43929111 - 0.0130042*t
}

// signedDelta returns a-b wrapped into (-180, 180].
func signedDelta(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

func sinDeg(d float64) float64 { return math.Sin(d * deg2rad) }
func cosDeg(d float64) float64 { return math.Cos(d * deg2rad) }
