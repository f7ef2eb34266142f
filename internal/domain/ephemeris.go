package domain

// Body identifies a celestial body tracked by the ephemeris.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	NorthNode // mean lunar node
)

// String returns the conventional display name of the body.
func (b Body) String() string {
	switch b {
	case Sun:
		return "Sun"
	case Moon:
		return "Moon"
	case Mercury:
		return "Mercury"
	case Venus:
		return "Venus"
	case Mars:
		return "Mars"
	case Jupiter:
		return "Jupiter"
	case Saturn:
		return "Saturn"
	case NorthNode:
		return "North Node"
	default:
		return "Unknown"
	}
}

// BodyPosition is an ecliptic position at a given Julian day.
type BodyPosition struct {
	Longitude float64 // ecliptic longitude, degrees [0, 360)
	Latitude  float64 // ecliptic latitude, degrees
	Distance  float64 // geocentric distance, AU
	Speed     float64 // longitude rate, degrees per day (negative = retrograde)
}

// Retrograde reports whether the body appears to move backward through the
// zodiac at this instant.
func (p BodyPosition) Retrograde() bool {
	return p.Speed < 0
}

// Houses holds the angular house cusps for a time and place.
type Houses struct {
	Ascendant float64 // ecliptic longitude of the eastern horizon
	Midheaven float64 // ecliptic longitude of the local meridian
}

// Ephemeris answers position queries for a Julian day. Implementations are
// treated as pure and cheap: no caching or retry sits in front of them.
type Ephemeris interface {
	// BodyPosition returns the geocentric ecliptic position of a body.
	BodyPosition(jd float64, body Body) (BodyPosition, error)

	// Houses returns the ascendant and midheaven for an observer.
	Houses(jd, lat, lng float64) (Houses, error)
}

// SouthNode derives the south lunar node from the north node longitude.
// The south node is always the antipode, never queried directly.
func SouthNode(northLon float64) float64 {
	return Normalize360(northLon + 180)
}
