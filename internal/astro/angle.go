// Package astro implements the low-precision solar astronomy used to place
// prayer times: angle helpers, Julian day reduction, the solar ephemeris and
// the transit / hour-angle solver.
//
// All functions are pure. Angles are in degrees unless a name says otherwise.
package astro

import "math"

// DegreesToRadians converts degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadiansToDegrees converts radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// NormalizeToScale wraps x into [0, max).
func NormalizeToScale(x, max float64) float64 {
	return x - max*math.Floor(x/max)
}

// UnwindAngle wraps an angle into [0, 360).
func UnwindAngle(a float64) float64 {
	return NormalizeToScale(a, 360)
}

// QuadrantShiftAngle maps an angle into [-180, 180] by removing the nearest
// multiple of 360. Out-of-range ties such as 540 and -540 land on +180.
func QuadrantShiftAngle(a float64) float64 {
	if a >= -180 && a <= 180 {
		return a
	}
	return a - 360*math.Ceil(a/360-0.5)
}
