package astro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Reference values are the worked examples from Meeus, Astronomical
// Algorithms (2nd ed.), chapters 12, 15 and 25.

func TestSolarCoordinatesMeeus25a(t *testing.T) {
	jd := JulianDay(1992, 10, 13, 0)
	T := JulianCentury(jd)

	l0 := MeanSolarLongitude(T)
	e0 := MeanObliquityOfTheEcliptic(T)
	eApp := ApparentObliquityOfTheEcliptic(T, e0)
	m := MeanSolarAnomaly(T)
	c := SolarEquationOfTheCenter(T, m)
	lambda := ApparentSolarLongitude(T, l0)

	assert.InDelta(t, -0.072183436, T, 1e-9)
	assert.InDelta(t, 201.80720, l0, 1e-4)
	assert.InDelta(t, 23.44023, e0, 1e-5)
	assert.InDelta(t, 23.43999, eApp, 1e-4)
	assert.InDelta(t, 278.99397, m, 1e-5)
	assert.InDelta(t, -1.89732, c, 1e-5)
	assert.InDelta(t, 199.90895, lambda, 1e-4)

	solar := NewSolarCoordinates(jd)
	assert.InDelta(t, -7.78507, solar.Declination, 1e-5)
	assert.InDelta(t, 198.38083, solar.RightAscension, 1e-4)
}

func TestSiderealTimeMeeus12a(t *testing.T) {
	jd := JulianDay(1987, 4, 10, 0)
	T := JulianCentury(jd)

	assert.InDelta(t, 197.693195, MeanSiderealTime(T), 1e-6)

	solar := NewSolarCoordinates(jd)
	// Meeus gives 197.6922295833; the low-precision nutation lands within 1e-4.
	assert.InDelta(t, 197.69222958, solar.ApparentSiderealTime, 1e-4)
}

func TestNutationIsSmall(t *testing.T) {
	for _, jd := range []float64{2415020.5, J2000, 2460380.5, 2488069.5} {
		T := JulianCentury(jd)
		l0 := MeanSolarLongitude(T)
		lp := MeanLunarLongitude(T)
		omega := AscendingLunarNodeLongitude(T)

		assert.Less(t, math.Abs(NutationInLongitude(l0, lp, omega)), 20.0/3600)
		assert.Less(t, math.Abs(NutationInObliquity(l0, lp, omega)), 10.0/3600)
	}
}

func TestAltitudeOfCelestialBody(t *testing.T) {
	// Sun on the celestial equator at local noon seen from the equator.
	assert.InDelta(t, 90.0, AltitudeOfCelestialBody(0, 0, 0), 1e-9)
	// Six hours from the meridian it is on the horizon.
	assert.InDelta(t, 0.0, AltitudeOfCelestialBody(0, 0, 90), 1e-9)
	// The pole star from 45N sits at 45 degrees whatever the hour angle.
	assert.InDelta(t, 45.0, AltitudeOfCelestialBody(45, 90, 123), 1e-9)
}

func TestTransitMeeus15a(t *testing.T) {
	longitude := -71.0833
	theta := 177.74208
	a1, a2, a3 := 40.68021, 41.73129, 42.78204
	d1, d2, d3 := 18.04761, 18.44092, 18.82742
	coords := Coordinates{Latitude: 42.3333, Longitude: longitude}

	m0 := ApproximateTransit(longitude, theta, a2)
	assert.InDelta(t, 0.81965, m0, 1e-5)

	transit := CorrectedTransit(m0, longitude, theta, a2, a1, a3) / 24
	assert.InDelta(t, 0.81980, transit, 1e-5)

	rise := CorrectedHourAngle(m0, -0.5667, coords, false, theta, a2, a1, a3, d2, d1, d3) / 24
	assert.InDelta(t, 0.51766, rise, 1e-5)

	set := CorrectedHourAngle(m0, -0.5667, coords, true, theta, a2, a1, a3, d2, d1, d3) / 24
	assert.InDelta(t, 1.12263, set, 1e-5)
}

func TestCorrectedHourAngleUnreachable(t *testing.T) {
	// Declination +23 never gets 18 degrees below the horizon at 80N.
	coords := Coordinates{Latitude: 80, Longitude: 0}
	got := CorrectedHourAngle(0.5, -18, coords, false, 100, 90, 89, 91, 23, 23, 23)
	assert.True(t, math.IsNaN(got))
}

func TestInterpolate(t *testing.T) {
	// Meeus example 3.a
	assert.InDelta(t, 0.876125, Interpolate(0.877366, 0.884226, 0.870531, 4.35/24), 1e-6)
	assert.InDelta(t, 5.0, Interpolate(5, 4, 6, 0), 1e-12)
	assert.InDelta(t, 6.0, Interpolate(5, 4, 6, 1), 1e-12)
}

func TestInterpolateAngles(t *testing.T) {
	// Crossing the 0/360 seam.
	assert.InDelta(t, 2.0, InterpolateAngles(1, 359, 3, 0.5), 1e-9)
	assert.InDelta(t, 3.0, InterpolateAngles(1, -1, 3, 1), 1e-9)
}
