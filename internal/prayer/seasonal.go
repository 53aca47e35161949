package prayer

import (
	"math"
	"time"

	"github.com/smokyabdulrahman/prayer-times/internal/astro"
)

// SeasonalAdjustment blends the four coefficients over the year. dyy is the
// number of days since the local winter solstice; a is used at the solstice,
// b at the equinoxes, c in between and d at the summer solstice.
func SeasonalAdjustment(dyy int, a, b, c, d float64) float64 {
	x := float64(dyy)
	switch {
	case dyy < 91:
		return a + (b-a)/91.0*x
	case dyy < 137:
		return b + (c-b)/46.0*(x-91)
	case dyy < 183:
		return c + (d-c)/46.0*(x-137)
	case dyy < 229:
		return d + (c-d)/46.0*(x-183)
	case dyy < 275:
		return c + (b-c)/46.0*(x-229)
	default:
		return b + (a-b)/91.0*(x-275)
	}
}

// SeasonAdjustedMorningTwilight returns the Moonsighting Committee Fajr
// bound: sunrise minus the seasonal twilight length for the latitude.
func SeasonAdjustedMorningTwilight(latitude float64, dayOfYear, year int, sunrise time.Time) time.Time {
	lat := math.Abs(latitude)
	a := 75 + 28.65/55.0*lat
	b := 75 + 19.44/55.0*lat
	c := 75 + 32.74/55.0*lat
	d := 75 + 48.10/55.0*lat

	dyy := astro.DaysSinceSolstice(dayOfYear, year, latitude)
	minutes := SeasonalAdjustment(dyy, a, b, c, d)
	return sunrise.Add(-secondsOf(minutes))
}

// SeasonAdjustedEveningTwilight returns the Moonsighting Committee Isha
// bound: sunset plus the seasonal twilight length for the chosen shafaq.
func SeasonAdjustedEveningTwilight(latitude float64, dayOfYear, year int, sunset time.Time, shafaq Shafaq) time.Time {
	lat := math.Abs(latitude)

	var a, b, c, d float64
	switch shafaq {
	case ShafaqAhmer:
		a = 62 + 17.40/55.0*lat
		b = 62 - 7.16/55.0*lat
		c = 62 + 5.12/55.0*lat
		d = 62 + 19.44/55.0*lat
	case ShafaqAbyad:
		a = 75 + 25.60/55.0*lat
		b = 75 + 7.16/55.0*lat
		c = 75 + 36.84/55.0*lat
		d = 75 + 81.84/55.0*lat
	default:
		a = 75 + 25.60/55.0*lat
		b = 75 + 2.05/55.0*lat
		c = 75 - 9.21/55.0*lat
		d = 75 + 6.14/55.0*lat
	}

	dyy := astro.DaysSinceSolstice(dayOfYear, year, latitude)
	minutes := SeasonalAdjustment(dyy, a, b, c, d)
	return sunset.Add(secondsOf(minutes))
}

// secondsOf converts fractional minutes to a whole-second duration.
func secondsOf(minutes float64) time.Duration {
	return time.Duration(math.Round(minutes*60)) * time.Second
}
