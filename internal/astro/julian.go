package astro

import (
	"math"
	"time"
)

// J2000 is the Julian day of 2000-01-01 12:00 TT.
const J2000 = 2451545.0

// JulianDay returns the Julian day for a calendar date plus fractional hours,
// using the Meeus low-precision algorithm with the Gregorian century
// correction.
func JulianDay(year, month, day int, hours float64) float64 {
	y := year
	m := month
	if m <= 2 {
		y--
		m += 12
	}

	d := float64(day) + hours/24
	a := y / 100
	b := 2 - a + a/4

	i0 := math.Trunc(365.25 * float64(y+4716))
	i1 := math.Trunc(30.6001 * float64(m+1))

	return i0 + i1 + d + float64(b) - 1524.5
}

// JulianCentury returns Julian centuries elapsed since J2000.
func JulianCentury(jd float64) float64 {
	return (jd - J2000) / 36525
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	if year%4 != 0 {
		return false
	}
	if year%100 == 0 && year%400 != 0 {
		return false
	}
	return true
}

var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DayOfYear returns the 1-based ordinal day of t's UTC calendar date.
func DayOfYear(t time.Time) int {
	year, month, day := t.UTC().Date()
	doy := day
	for i := 0; i < int(month)-1; i++ {
		doy += monthLengths[i]
		if i == 1 && IsLeapYear(year) {
			doy++
		}
	}
	return doy
}

// DaysSinceSolstice returns the number of days since the most recent winter
// solstice of the hemisphere selected by latitude's sign. The northern
// solstice is proxied ten days before the start of the year; the southern one
// by day 172 (173 in leap years).
func DaysSinceSolstice(dayOfYear, year int, latitude float64) int {
	northernOffset := 10
	southernOffset := 172
	daysInYear := 365
	if IsLeapYear(year) {
		southernOffset = 173
		daysInYear = 366
	}

	if latitude >= 0 {
		days := dayOfYear + northernOffset
		if days >= daysInYear {
			days -= daysInYear
		}
		return days
	}

	days := dayOfYear - southernOffset
	if days < 0 {
		days += daysInYear
	}
	return days
}
