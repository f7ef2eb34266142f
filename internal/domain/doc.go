// Package domain models natal chart and sky state calculations.
//
// # Angular Conventions
//
// All celestial positions are ecliptic longitudes in degrees, normalized to
// [0, 360). The twelve zodiac signs partition that range into contiguous 30°
// bands in the traditional order starting at 0° Aries. Band intervals are
// half-open: a longitude of exactly 30° belongs to Taurus, not Aries, so
// every longitude maps to exactly one sign. See [ToZodiac].
//
// Angular distances between bodies always use the shortest arc
// (min(d, 360-d), never more than 180°). See [AngularSeparation]. Aspect
// orbs — 8° for transit conjunctions, 12° for the void-of-course check —
// are applied to that shortest distance.
//
// # Time Scale
//
// Ephemeris queries take a Julian day: a continuous fractional-day count
// derived from a UTC instant (JD 2440587.5 = 1970-01-01T00:00Z). Civil birth
// times are first combined with their IANA zone, honoring that zone's offset
// rules on the specific calendar date, and only then converted to UTC. See
// [CivilDateTime.InZone].
//
// # External Collaborators
//
// Geocoding providers, the coordinate→timezone lookup, and the ephemeris are
// narrow interfaces ([Geocoder], [TimezoneResolver], [Ephemeris]) so any
// concrete provider can be substituted without touching the calculators.
package domain
