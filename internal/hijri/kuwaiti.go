// Package hijri converts Gregorian dates to the tabular Islamic calendar
// using the Kuwaiti algorithm: a 30-year cycle of 10631 days anchored on the
// astronomical Hijra epoch. Results may differ by a day or two from
// sighting-based calendars; callers correct for that with a day adjustment.
package hijri

import (
	"fmt"
	"math"
	"time"
)

const (
	// Epoch is the Julian day number of 1 Muharram 1 AH (astronomical).
	Epoch = 1948084
	// CycleDays is the length of one 30-year cycle.
	CycleDays = 10631
	// MeanYear is the average year length, CycleDays/30.
	MeanYear = CycleDays / 30.0
	// YearShift is the fraction of a day the cycle is offset by (8.01 minutes
	// of a lunar hour).
	YearShift = 8.01 / 60.0

	// gregorianCutover is the last Julian day number reckoned in the Julian
	// calendar (1582-10-04).
	gregorianCutover = 2299160
)

// Date is a day of the Hijri calendar. Month and Weekday are zero-based
// indexes into MonthNames and WeekdayNames.
type Date struct {
	Year    int `json:"year"`
	Month   int `json:"month"`
	Day     int `json:"day"`
	Weekday int `json:"weekday"`
}

// Explanation carries every intermediate of a conversion.
type Explanation struct {
	Date Date `json:"date"`

	// Input is the Gregorian calendar date after the day adjustment.
	Input time.Time `json:"input"`
	// Adjustment is the signed day shift that was applied.
	Adjustment int `json:"adjustment"`
	// CenturyCorrection is the Gregorian b term: 0 before the 1582
	// cutover, -10 inside the October 1582 gap.
	CenturyCorrection int `json:"century_correction"`
	// JulianDayNumber of Input.
	JulianDayNumber int `json:"julian_day_number"`
	// Civil is the Gregorian (or, before 1582, Julian) date recovered from
	// JulianDayNumber.
	Civil CivilDate `json:"civil"`

	DaysSinceEpoch int `json:"days_since_epoch"`
	Cycle          int `json:"cycle"`
	CycleRemainder int `json:"cycle_remainder"`
	YearInCycle    int `json:"year_in_cycle"`
	DayOfYear      int `json:"day_of_year"`

	Epoch     int     `json:"epoch"`
	CycleDays int     `json:"cycle_days"`
	MeanYear  float64 `json:"mean_year"`
	YearShift float64 `json:"year_shift"`
}

// CivilDate is a calendar date reconstructed from a Julian day number.
type CivilDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (c CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, c.Month, c.Day)
}

// Convert returns the Hijri date of t's calendar day shifted by adjustDays.
// t's calendar fields are read in its own location, so the shift is by
// calendar days and never lands on the same date across a DST change.
func Convert(adjustDays int, t time.Time) Date {
	return Explain(adjustDays, t).Date
}

// Explain converts like Convert and keeps every intermediate.
func Explain(adjustDays int, t time.Time) Explanation {
	year, month, day := t.AddDate(0, 0, adjustDays).Date()

	jdn, b := julianDayNumber(year, int(month), day)

	z := jdn - Epoch
	cycle := floorDiv(z, CycleDays)
	rem := z - CycleDays*cycle
	j := int(math.Floor((float64(rem) - YearShift) / MeanYear))
	doy := rem - int(math.Floor(float64(j)*MeanYear+YearShift))

	m := int(math.Floor((float64(doy) + 28.5001) / 29.5))
	if m == 13 {
		m = 12
	}
	d := doy - int(math.Floor(29.5001*float64(m)-29))

	return Explanation{
		Date: Date{
			Year:    30*cycle + j,
			Month:   m - 1,
			Day:     d,
			Weekday: mod(jdn+1, 7),
		},
		Input:             time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Adjustment:        adjustDays,
		CenturyCorrection: b,
		JulianDayNumber:   jdn,
		Civil:             civilFromJDN(jdn),
		DaysSinceEpoch:    z,
		Cycle:             cycle,
		CycleRemainder:    rem,
		YearInCycle:       j,
		DayOfYear:         doy,
		Epoch:             Epoch,
		CycleDays:         CycleDays,
		MeanYear:          MeanYear,
		YearShift:         YearShift,
	}
}

// julianDayNumber returns the day number of a calendar date and the century
// correction used. Dates before 1583 are read as Julian calendar dates, with
// the historical switch to the Gregorian calendar after 4 October 1582:
// the following day was 15 October, so 5..14 October never existed.
func julianDayNumber(year, month, day int) (jdn, b int) {
	y, m := year, month
	if m < 3 {
		y--
		m += 12
	}

	a := int(math.Floor(float64(y) / 100))
	b = 2 - a + int(math.Floor(float64(a)/4))

	if y < 1583 {
		b = 0
	}
	if y == 1582 {
		if m > 10 {
			b = -10
		}
		if m == 10 {
			b = 0
			if day > 4 {
				b = -10
			}
		}
	}

	jdn = int(math.Floor(365.25*float64(y+4716))) + int(math.Floor(30.6001*float64(m+1))) + day + b - 1524
	return jdn, b
}

// civilFromJDN inverts julianDayNumber.
func civilFromJDN(jdn int) CivilDate {
	b := 0
	if jdn > gregorianCutover {
		a := int(math.Floor((float64(jdn) - 1867216.25) / 36524.25))
		b = 1 + a - int(math.Floor(float64(a)/4))
	}

	bb := jdn + b + 1524
	cc := int(math.Floor((float64(bb) - 122.1) / 365.25))
	dd := int(math.Floor(365.25 * float64(cc)))
	ee := int(math.Floor(float64(bb-dd) / 30.6001))

	day := bb - dd - int(math.Floor(30.6001*float64(ee)))
	month := ee - 1
	if ee > 13 {
		cc++
		month = ee - 13
	}

	return CivilDate{Year: cc - 4716, Month: month, Day: day}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
