package domain

import "math"

// signNames lists the twelve zodiac signs in band order from 0° Aries.
var signNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer",
	"Leo", "Virgo", "Libra", "Scorpio",
	"Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// ZodiacPosition is an ecliptic longitude expressed as a sign and the
// degree within that sign's 30° band.
type ZodiacPosition struct {
	Sign   string  `json:"sign"`
	Degree float64 `json:"degree"` // [0, 30)
}

// ToZodiac maps an ecliptic longitude to its zodiac sign and in-sign degree.
// Total over all real inputs: the longitude is reduced modulo 360 first.
// Band boundaries are half-open, so exactly 30° is 0° Taurus.
func ToZodiac(longitude float64) ZodiacPosition {
	lon := Normalize360(longitude)
	band := int(lon / 30)
	if band > 11 {
		// lon can round to exactly 360 for inputs like nextafter(360, 0)*k.
		band = 0
		lon = 0
	}
	return ZodiacPosition{
		Sign:   signNames[band],
		Degree: lon - float64(band)*30,
	}
}

// Normalize360 reduces an angle in degrees into [0, 360).
func Normalize360(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// AngularSeparation returns the shortest angular distance between two
// ecliptic longitudes, in [0, 180].
func AngularSeparation(a, b float64) float64 {
	d := math.Abs(Normalize360(a) - Normalize360(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
