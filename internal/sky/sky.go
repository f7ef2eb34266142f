// Package sky computes current sky state: moon phase with the
// void-of-course heuristic, current planetary placements, and conjunction
// transits against a natal Sun. All calculations are anchored to "now" on
// the injectable domain clock.
package sky

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/natal-chart-service/internal/domain"
)

// phaseNames are the eight lunar phase bands in wire format, 45° each from
// phase angle 0. Indexing is unshifted: band n covers [n*45, (n+1)*45).
var phaseNames = [8]string{
	"newMoon", "waxingCrescent", "firstQuarter", "waxingGibbous",
	"fullMoon", "waningGibbous", "lastQuarter", "waningCrescent",
}

// trackedBodies are the planets reported by current-planets and transits,
// in display order.
var trackedBodies = []domain.Body{
	domain.Sun, domain.Moon, domain.Mercury, domain.Venus,
	domain.Mars, domain.Jupiter, domain.Saturn,
}

// voidOfCourseOrb is the maximum Moon separation that still counts as an
// applying aspect; beyond it against every body the Moon runs void.
const voidOfCourseOrb = 12.0

// conjunctionOrb bounds a transit conjunction to the natal Sun.
const conjunctionOrb = 8.0

// MoonPhaseResult is the moon phase response.
type MoonPhaseResult struct {
	Success         bool    `json:"success"`
	Phase           string  `json:"phase"`
	PhaseAngle      float64 `json:"phase_angle"`
	CyclePercentage float64 `json:"cycle_percentage"`
	VoidOfCourse    bool    `json:"void_of_course"`
	Timestamp       string  `json:"timestamp"`
}

// PlanetPlacement is one body's current position in a planets response.
type PlanetPlacement struct {
	Name        string  `json:"name"`
	Sign        string  `json:"sign"`
	Degree      float64 `json:"degree"`
	Retrograde  bool    `json:"retrograde"`
	DisplayName string  `json:"displayName"`
}

// PlanetsResult is the current-planets response.
type PlanetsResult struct {
	Success   bool              `json:"success"`
	Planets   []PlanetPlacement `json:"planets"`
	Timestamp string            `json:"timestamp"`
}

// NatalPoints carries the natal longitudes a transit check compares
// against. Only the Sun participates in aspects; the rest are accepted for
// wire compatibility.
type NatalPoints struct {
	BirthJD         float64  `json:"birth_jd"`
	SunLongitude    float64  `json:"birth_sun_lon"`
	MoonLongitude   *float64 `json:"birth_moon_lon,omitempty"`
	RisingLongitude *float64 `json:"birth_rising_lon,omitempty"`
}

// TransitEntry is one body's current placement plus any aspects it makes to
// the natal chart.
type TransitEntry struct {
	Planet  string   `json:"planet"`
	Sign    string   `json:"sign"`
	Degree  float64  `json:"degree"`
	Aspects []string `json:"aspects"`
}

// TransitsResult is the transits response.
type TransitsResult struct {
	Success   bool           `json:"success"`
	Transits  []TransitEntry `json:"transits"`
	Timestamp string         `json:"timestamp"`
}

// Calculator computes sky state from an ephemeris.
type Calculator struct {
	eph    domain.Ephemeris
	logger *slog.Logger
}

// NewCalculator creates a sky state calculator.
func NewCalculator(eph domain.Ephemeris, logger *slog.Logger) *Calculator {
	return &Calculator{eph: eph, logger: logger}
}

// MoonPhase reports the current lunar phase band, cycle percentage, and
// whether the Moon is void of course.
func (c *Calculator) MoonPhase() (MoonPhaseResult, error) {
	now := domain.Now()
	jd := domain.JulianDay(now)

	sun, err := c.eph.BodyPosition(jd, domain.Sun)
	if err != nil {
		return MoonPhaseResult{}, fmt.Errorf("sun position: %w", err)
	}
	moon, err := c.eph.BodyPosition(jd, domain.Moon)
	if err != nil {
		return MoonPhaseResult{}, fmt.Errorf("moon position: %w", err)
	}

	angle := domain.Normalize360(moon.Longitude - sun.Longitude)
	band := int(angle/45) % 8

	voc, err := c.voidOfCourse(jd, moon.Longitude)
	if err != nil {
		return MoonPhaseResult{}, err
	}

	return MoonPhaseResult{
		Success:         true,
		Phase:           phaseNames[band],
		PhaseAngle:      round2(angle),
		CyclePercentage: round1(angle / 360 * 100),
		VoidOfCourse:    voc,
		Timestamp:       now.Format(time.RFC3339),
	}, nil
}

// voidOfCourse reports true when no tracked body other than the Moon sits
// within the void-of-course orb of the Moon's longitude.
func (c *Calculator) voidOfCourse(jd, moonLon float64) (bool, error) {
	for _, body := range trackedBodies {
		if body == domain.Moon {
			continue
		}
		pos, err := c.eph.BodyPosition(jd, body)
		if err != nil {
			return false, fmt.Errorf("%s position: %w", body, err)
		}
		if domain.AngularSeparation(moonLon, pos.Longitude) < voidOfCourseOrb {
			return false, nil
		}
	}
	return true, nil
}

// CurrentPlanets reports the current sign placement and retrograde state of
// every tracked body.
func (c *Calculator) CurrentPlanets() (PlanetsResult, error) {
	now := domain.Now()
	jd := domain.JulianDay(now)

	planets := make([]PlanetPlacement, 0, len(trackedBodies))
	for _, body := range trackedBodies {
		pos, err := c.eph.BodyPosition(jd, body)
		if err != nil {
			return PlanetsResult{}, fmt.Errorf("%s position: %w", body, err)
		}
		z := domain.ToZodiac(pos.Longitude)
		planets = append(planets, PlanetPlacement{
			Name:        body.String(),
			Sign:        z.Sign,
			Degree:      round2(z.Degree),
			Retrograde:  pos.Retrograde(),
			DisplayName: body.String(),
		})
	}

	return PlanetsResult{
		Success:   true,
		Planets:   planets,
		Timestamp: now.Format(time.RFC3339),
	}, nil
}

// Transits reports current placements of the tracked bodies and flags
// conjunctions to the natal Sun. Conjunction is the only aspect computed.
func (c *Calculator) Transits(natal NatalPoints) (TransitsResult, error) {
	now := domain.Now()
	jd := domain.JulianDay(now)

	transits := make([]TransitEntry, 0, len(trackedBodies))
	for _, body := range trackedBodies {
		pos, err := c.eph.BodyPosition(jd, body)
		if err != nil {
			return TransitsResult{}, fmt.Errorf("%s position: %w", body, err)
		}
		z := domain.ToZodiac(pos.Longitude)

		aspects := []string{}
		if domain.AngularSeparation(pos.Longitude, natal.SunLongitude) < conjunctionOrb {
			aspects = append(aspects, "Conjunct Natal Sun")
		}

		transits = append(transits, TransitEntry{
			Planet:  body.String(),
			Sign:    z.Sign,
			Degree:  round2(z.Degree),
			Aspects: aspects,
		})
	}

	return TransitsResult{
		Success:   true,
		Transits:  transits,
		Timestamp: now.Format(time.RFC3339),
	}, nil
}

// CheckReadiness probes the ephemeris with a current-Sun query. A failure
// here means every astrology request would fail, so /readyz reports it.
func (c *Calculator) CheckReadiness() error {
	jd := domain.JulianDay(domain.Now())
	if _, err := c.eph.BodyPosition(jd, domain.Sun); err != nil {
		return fmt.Errorf("ephemeris self-check: %w", err)
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
