package astro

import "math"

// MeanSolarLongitude returns the geometric mean longitude of the sun, L0.
func MeanSolarLongitude(T float64) float64 {
	l0 := 280.4664567 + 36000.76983*T + 0.0003032*T*T
	return UnwindAngle(l0)
}

// MeanLunarLongitude returns the mean longitude of the moon, L'.
func MeanLunarLongitude(T float64) float64 {
	lp := 218.3165 + 481267.8813*T
	return UnwindAngle(lp)
}

// AscendingLunarNodeLongitude returns the longitude of the moon's ascending
// node, Ω.
func AscendingLunarNodeLongitude(T float64) float64 {
	omega := 125.04452 - 1934.136261*T + 0.0020708*T*T + T*T*T/450000
	return UnwindAngle(omega)
}

// MeanSolarAnomaly returns the mean anomaly of the sun, M.
func MeanSolarAnomaly(T float64) float64 {
	m := 357.52911 + 35999.05029*T - 0.0001537*T*T
	return UnwindAngle(m)
}

// SolarEquationOfTheCenter returns the sun's equation of the center, C, for
// mean anomaly m.
func SolarEquationOfTheCenter(T, m float64) float64 {
	mrad := DegreesToRadians(m)
	term1 := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(mrad)
	term2 := (0.019993 - 0.000101*T) * math.Sin(2*mrad)
	term3 := 0.000289 * math.Sin(3*mrad)
	return term1 + term2 + term3
}

// ApparentSolarLongitude returns the apparent longitude of the sun, λ,
// corrected for aberration and nutation.
func ApparentSolarLongitude(T, l0 float64) float64 {
	longitude := l0 + SolarEquationOfTheCenter(T, MeanSolarAnomaly(T))
	omega := 125.04 - 1934.136*T
	lambda := longitude - 0.00569 - 0.00478*math.Sin(DegreesToRadians(omega))
	return UnwindAngle(lambda)
}

// MeanObliquityOfTheEcliptic returns ε0.
func MeanObliquityOfTheEcliptic(T float64) float64 {
	return 23.439291 - 0.013004167*T - 0.0000001639*T*T + 0.0000005036*T*T*T
}

// ApparentObliquityOfTheEcliptic returns ε corrected by the lunar node term.
func ApparentObliquityOfTheEcliptic(T, epsilon0 float64) float64 {
	omega := 125.04 - 1934.136*T
	return epsilon0 + 0.00256*math.Cos(DegreesToRadians(omega))
}

// MeanSiderealTime returns the mean sidereal time at Greenwich, θ0.
func MeanSiderealTime(T float64) float64 {
	jd := T*36525 + J2000
	theta := 280.46061837 + 360.98564736629*(jd-J2000) + 0.000387933*T*T - T*T*T/38710000
	return UnwindAngle(theta)
}

// NutationInLongitude returns Δψ in degrees.
func NutationInLongitude(l0, lp, omega float64) float64 {
	term1 := (-17.2 / 3600) * math.Sin(DegreesToRadians(omega))
	term2 := (1.32 / 3600) * math.Sin(2*DegreesToRadians(l0))
	term3 := (0.23 / 3600) * math.Sin(2*DegreesToRadians(lp))
	term4 := (0.21 / 3600) * math.Sin(2*DegreesToRadians(omega))
	return term1 - term2 - term3 + term4
}

// NutationInObliquity returns Δε in degrees.
func NutationInObliquity(l0, lp, omega float64) float64 {
	term1 := (9.2 / 3600) * math.Cos(DegreesToRadians(omega))
	term2 := (0.57 / 3600) * math.Cos(2*DegreesToRadians(l0))
	term3 := (0.10 / 3600) * math.Cos(2*DegreesToRadians(lp))
	term4 := (0.09 / 3600) * math.Cos(2*DegreesToRadians(omega))
	return term1 + term2 + term3 - term4
}

// AltitudeOfCelestialBody returns the altitude of a body with declination
// delta seen from latitude phi at local hour angle h.
func AltitudeOfCelestialBody(phi, delta, h float64) float64 {
	term1 := math.Sin(DegreesToRadians(phi)) * math.Sin(DegreesToRadians(delta))
	term2 := math.Cos(DegreesToRadians(phi)) * math.Cos(DegreesToRadians(delta)) * math.Cos(DegreesToRadians(h))
	return RadiansToDegrees(math.Asin(term1 + term2))
}
