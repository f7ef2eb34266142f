package ephemeris

import (
	"fmt"
	"math"

	"github.com/couchcryptid/natal-chart-service/internal/domain"
)

// elements holds approximate Keplerian orbital elements at J2000.0 and
// their per-century rates (Standish, "Keplerian Elements for Approximate
// Positions of the Major Planets", valid 1800–2050). Angles in degrees,
// semi-major axes in AU.
type elements struct {
	a, aDot     float64 // semi-major axis
	e, eDot     float64 // eccentricity
	i, iDot     float64 // inclination
	l, lDot     float64 // mean longitude
	peri, pDot  float64 // longitude of perihelion
	node, nDot  float64 // longitude of ascending node
}

var planetElements = map[domain.Body]elements{
	domain.Mercury: {
		a: 0.38709927, aDot: 0.00000037,
		e: 0.20563593, eDot: 0.00001906,
		i: 7.00497902, iDot: -0.00594749,
		l: 252.25032350, lDot: 149472.67411175,
		peri: 77.45779628, pDot: 0.16047689,
		node: 48.33076593, nDot: -0.12534081,
	},
	domain.Venus: {
		a: 0.72333566, aDot: 0.00000390,
		e: 0.00677672, eDot: -0.00004107,
		i: 3.39467605, iDot: -0.00078890,
		l: 181.97909950, lDot: 58517.81538729,
		peri: 131.60246718, pDot: 0.00268329,
		node: 76.67984255, nDot: -0.27769418,
	},
	domain.Mars: {
		a: 1.52371034, aDot: 0.00001847,
		e: 0.09339410, eDot: 0.00007882,
		i: 1.84969142, iDot: -0.00813131,
		l: -4.55343205, lDot: 19140.30268499,
		peri: -23.94362959, pDot: 0.44441088,
		node: 49.55953891, nDot: -0.29257343,
	},
	domain.Jupiter: {
		a: 5.20288700, aDot: -0.00011607,
		e: 0.04838624, eDot: -0.00013253,
		i: 1.30439695, iDot: -0.00183714,
		l: 34.39644051, lDot: 3034.74612775,
		peri: 14.72847983, pDot: 0.21252668,
		node: 100.47390909, nDot: 0.20469106,
	},
	domain.Saturn: {
		a: 9.53667594, aDot: -0.00125060,
		e: 0.05386179, eDot: -0.00050991,
		i: 2.48599187, iDot: 0.00193609,
		l: 49.95424423, lDot: 1222.49362201,
		peri: 92.59887831, pDot: -0.41897216,
		node: 113.66242448, nDot: -0.28867794,
	},
}

// earthElements is the Earth-Moon barycenter orbit. The Sun's geocentric
// position is the negation of this vector, and every planet is reduced to
// geocentric coordinates against it.
var earthElements = elements{
	a: 1.00000261, aDot: 0.00000562,
	e: 0.01671123, eDot: -0.00004392,
	i: -0.00001531, iDot: -0.01294668,
	l: 100.46457166, lDot: 35999.37244981,
	peri: 102.93768193, pDot: 0.32327364,
	node: 0, nDot: 0,
}

// planetPosition returns the geocentric ecliptic position of the Sun or a
// major planet at the given Julian day.
func planetPosition(jd float64, body domain.Body) (domain.BodyPosition, error) {
	t := centuries(jd)
	ex, ey, ez := earthElements.heliocentric(t)

	if body == domain.Sun {
		return vectorToPosition(-ex, -ey, -ez), nil
	}

	el, ok := planetElements[body]
	if !ok {
		return domain.BodyPosition{}, fmt.Errorf("no orbital elements for body %v", body)
	}
	px, py, pz := el.heliocentric(t)
	return vectorToPosition(px-ex, py-ey, pz-ez), nil
}

// heliocentric returns ecliptic rectangular coordinates in AU at t Julian
// centuries from J2000.0.
func (el elements) heliocentric(t float64) (x, y, z float64) {
	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	incl := (el.i + el.iDot*t) * deg2rad
	meanLon := el.l + el.lDot*t
	periLon := el.peri + el.pDot*t
	nodeLon := el.node + el.nDot*t

	m := wrapRadians((meanLon - periLon) * deg2rad)
	eAnom := solveKepler(m, e)

	// Position in the orbital plane, perihelion on the x' axis.
	xp := a * (math.Cos(eAnom) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(eAnom)

	omega := (periLon - nodeLon) * deg2rad
	node := nodeLon * deg2rad
	cw, sw := math.Cos(omega), math.Sin(omega)
	cn, sn := math.Cos(node), math.Sin(node)
	ci, si := math.Cos(incl), math.Sin(incl)

	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// solveKepler inverts Kepler's equation M = E - e*sin(E) by Newton's
// method. Converges in a handful of iterations for planetary
// eccentricities.
func solveKepler(m, e float64) float64 {
	eAnom := m
	if e > 0.8 {
		eAnom = math.Pi
	}
	for i := 0; i < 20; i++ {
		delta := (eAnom - e*math.Sin(eAnom) - m) / (1 - e*math.Cos(eAnom))
		eAnom -= delta
		if math.Abs(delta) < 1e-10 {
			break
		}
	}
	return eAnom
}

// vectorToPosition converts geocentric rectangular ecliptic coordinates to
// spherical longitude, latitude, and distance.
func vectorToPosition(x, y, z float64) domain.BodyPosition {
	rxy := math.Hypot(x, y)
	return domain.BodyPosition{
		Longitude: domain.Normalize360(math.Atan2(y, x) * rad2deg),
		Latitude:  math.Atan2(z, rxy) * rad2deg,
		Distance:  math.Sqrt(x*x + y*y + z*z),
	}
}

// wrapRadians reduces an angle to (-pi, pi], which keeps Newton's method
// well-behaved for large mean anomalies.
func wrapRadians(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	}
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
