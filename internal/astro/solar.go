package astro

import "math"

// SolarCoordinates is the sun's apparent position for one Julian day.
type SolarCoordinates struct {
	// Declination in degrees, signed in (-90, 90).
	Declination float64
	// RightAscension in degrees, [0, 360).
	RightAscension float64
	// ApparentSiderealTime at Greenwich in degrees, [0, 360).
	ApparentSiderealTime float64
}

// NewSolarCoordinates computes the sun's position at Julian day jd.
func NewSolarCoordinates(jd float64) SolarCoordinates {
	T := JulianCentury(jd)
	l0 := MeanSolarLongitude(T)
	lp := MeanLunarLongitude(T)
	omega := AscendingLunarNodeLongitude(T)
	lambda := DegreesToRadians(ApparentSolarLongitude(T, l0))
	theta0 := MeanSiderealTime(T)
	dPsi := NutationInLongitude(l0, lp, omega)
	dEpsilon := NutationInObliquity(l0, lp, omega)
	epsilon0 := MeanObliquityOfTheEcliptic(T)
	epsilonApparent := DegreesToRadians(ApparentObliquityOfTheEcliptic(T, epsilon0))

	return SolarCoordinates{
		Declination: RadiansToDegrees(math.Asin(math.Sin(epsilonApparent) * math.Sin(lambda))),
		RightAscension: UnwindAngle(RadiansToDegrees(
			math.Atan2(math.Cos(epsilonApparent)*math.Sin(lambda), math.Cos(lambda)))),
		ApparentSiderealTime: UnwindAngle(theta0 + dPsi*math.Cos(DegreesToRadians(epsilon0+dEpsilon))),
	}
}
