package astro

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinates is returned for positions that are not finite or lie
// outside [-90, 90] x [-180, 180].
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates is an observer position in decimal degrees, north and east
// positive.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate reports whether c describes a point on the globe.
func (c Coordinates) Validate() error {
	if !finite(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v: %w", c.Latitude, ErrInvalidCoordinates)
	}
	if !finite(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v: %w", c.Longitude, ErrInvalidCoordinates)
	}
	return nil
}

// String renders c as "lat, lon" with four decimals.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// ApproximateTransit returns the fraction of the day, [0, 1), at which the
// sun crosses the local meridian.
func ApproximateTransit(longitude, siderealTime, rightAscension float64) float64 {
	lw := -longitude
	return NormalizeToScale((rightAscension+lw-siderealTime)/360, 1)
}

// CorrectedTransit refines an approximate transit m0 by interpolating the
// sun's right ascension across yesterday (a1), today (a2) and tomorrow (a3).
// The result is in hours after 00:00 UTC.
func CorrectedTransit(m0, longitude, siderealTime, a2, a1, a3 float64) float64 {
	lw := -longitude
	theta := UnwindAngle(siderealTime + 360.985647*m0)
	a := UnwindAngle(InterpolateAngles(a2, a1, a3, m0))
	h := QuadrantShiftAngle(theta - lw - a)
	dm := h / -360
	return (m0 + dm) * 24
}

// CorrectedHourAngle returns the time, in hours after 00:00 UTC, at which the
// sun reaches altitude h0 before (afterTransit false) or after transit.
//
// When the sun never reaches h0 on that day the cosine of the hour angle
// falls outside [-1, 1] and the result is NaN.
func CorrectedHourAngle(m0, h0 float64, coords Coordinates, afterTransit bool,
	siderealTime, a2, a1, a3, d2, d1, d3 float64) float64 {
	lw := -coords.Longitude
	phi := DegreesToRadians(coords.Latitude)

	term1 := math.Sin(DegreesToRadians(h0)) - math.Sin(phi)*math.Sin(DegreesToRadians(d2))
	term2 := math.Cos(phi) * math.Cos(DegreesToRadians(d2))
	H0 := RadiansToDegrees(math.Acos(term1 / term2))

	m := m0 - H0/360
	if afterTransit {
		m = m0 + H0/360
	}

	theta := UnwindAngle(siderealTime + 360.985647*m)
	a := UnwindAngle(InterpolateAngles(a2, a1, a3, m))
	delta := Interpolate(d2, d1, d3, m)
	H := theta - lw - a
	h := AltitudeOfCelestialBody(coords.Latitude, delta, H)

	term3 := h - h0
	term4 := 360 * math.Cos(DegreesToRadians(delta)) * math.Cos(phi) * math.Sin(DegreesToRadians(H))
	dm := term3 / term4
	return (m + dm) * 24
}

// Interpolate performs three-point interpolation of y at fraction n, where y2
// is the central value and y1, y3 its neighbours.
func Interpolate(y2, y1, y3, n float64) float64 {
	a := y2 - y1
	b := y3 - y2
	c := b - a
	return y2 + (n/2)*(a+b+n*c)
}

// InterpolateAngles is Interpolate for angles that may wrap at 360.
func InterpolateAngles(y2, y1, y3, n float64) float64 {
	a := UnwindAngle(y2 - y1)
	b := UnwindAngle(y3 - y2)
	c := b - a
	return y2 + (n/2)*(a+b+n*c)
}
