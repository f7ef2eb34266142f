package ephemeris

import (
	"github.com/couchcryptid/natal-chart-service/internal/domain"
)

const astronomicalUnitKm = 149597870.7

// moonPosition returns the geocentric ecliptic position of the Moon from a
// truncated ELP series (the dominant Meeus ch. 47 terms). Accuracy is a few
// arcminutes in longitude, far inside a 30-degree sign band.
func moonPosition(jd float64) domain.BodyPosition {
	t := centuries(jd)

	// Fundamental arguments, degrees.
	lp := 218.3164477 + 481267.88123421*t - 0.0015786*t*t // mean longitude
	d := 297.8501921 + 445267.1114034*t - 0.0018819*t*t   // mean elongation
	m := 357.5291092 + 35999.0502909*t - 0.0001536*t*t    // Sun mean anomaly
	mp := 134.9633964 + 477198.8675055*t + 0.0087414*t*t  // Moon mean anomaly
	f := 93.2720950 + 483202.0175233*t - 0.0036539*t*t    // argument of latitude

	lon := lp +
		6.288774*sinDeg(mp) +
		1.274027*sinDeg(2*d-mp) +
		0.658314*sinDeg(2*d) +
		0.213618*sinDeg(2*mp) -
		0.185116*sinDeg(m) -
		0.114332*sinDeg(2*f) +
		0.058793*sinDeg(2*d-2*mp) +
		0.057066*sinDeg(2*d-m-mp) +
		0.053322*sinDeg(2*d+mp) +
		0.045758*sinDeg(2*d-m) -
		0.040923*sinDeg(m-mp) -
		0.034720*sinDeg(d) -
		0.030383*sinDeg(m+mp)

	lat := 5.128122*sinDeg(f) +
		0.280602*sinDeg(mp+f) +
		0.277693*sinDeg(mp-f) +
		0.173237*sinDeg(2*d-f) +
		0.055413*sinDeg(2*d-mp+f) +
		0.046271*sinDeg(2*d-mp-f) +
		0.032573*sinDeg(2*d+f)

	distKm := 385000.56 -
		20905.355*cosDeg(mp) -
		3699.111*cosDeg(2*d-mp) -
		2955.968*cosDeg(2*d) -
		569.925*cosDeg(2*mp)

	return domain.BodyPosition{
		Longitude: domain.Normalize360(lon),
		Latitude:  lat,
		Distance:  distKm / astronomicalUnitKm,
	}
}

// meanNodePosition returns the mean ascending node of the lunar orbit.
// The node regresses through the zodiac in about 18.6 years; its latitude
// is zero by definition.
func meanNodePosition(jd float64) domain.BodyPosition {
	t := centuries(jd)
	omega := 125.0445479 - 1934.1362891*t + 0.0020754*t*t
	return domain.BodyPosition{
		Longitude: domain.Normalize360(omega),
	}
}
