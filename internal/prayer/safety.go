package prayer

import (
	"time"

	"github.com/smokyabdulrahman/prayer-times/internal/astro"
)

// RawSolution is the astronomical answer for a twilight angle. It is empty
// when the sun never reaches the angle on that day.
type RawSolution struct {
	t  time.Time
	ok bool
}

// Some wraps a solved instant.
func Some(t time.Time) RawSolution {
	return RawSolution{t: t, ok: true}
}

// None is the unsolvable twilight.
func None() RawSolution {
	return RawSolution{}
}

// Get returns the instant and whether there is one.
func (r RawSolution) Get() (time.Time, bool) {
	return r.t, r.ok
}

// IsNone reports whether the angle was unreachable.
func (r RawSolution) IsNone() bool {
	return !r.ok
}

func rawFromHours(date time.Time, hours float64) RawSolution {
	t, ok := astro.HoursToTime(date, hours)
	if !ok {
		return None()
	}
	return Some(t)
}

// SelectFajr keeps the raw Fajr unless it is missing or earlier than safe.
func SelectFajr(raw RawSolution, safe time.Time) time.Time {
	t, ok := raw.Get()
	if !ok || t.Before(safe) {
		return safe
	}
	return t
}

// SelectIsha returns sunset plus the interval when one is configured.
// Otherwise it keeps the raw Isha unless it is missing or later than safe.
func SelectIsha(raw RawSolution, safe, sunset time.Time, intervalMinutes int) time.Time {
	if intervalMinutes > 0 {
		return sunset.Add(time.Duration(intervalMinutes) * time.Minute)
	}
	t, ok := raw.Get()
	if !ok || t.After(safe) {
		return safe
	}
	return t
}

// safeFajr is the earliest Fajr the high latitude rule allows.
func safeFajr(p CalculationParameters, c Coordinates, date, sunrise time.Time, night time.Duration) time.Time {
	if p.Method == MoonsightingCommittee {
		return SeasonAdjustedMorningTwilight(c.Latitude, astro.DayOfYear(date), date.Year(), sunrise)
	}
	portion, _ := p.NightPortions()
	return sunrise.Add(-time.Duration(portion * float64(night)))
}

// safeIsha is the latest Isha the high latitude rule allows.
func safeIsha(p CalculationParameters, c Coordinates, date, sunset time.Time, night time.Duration) time.Time {
	if p.Method == MoonsightingCommittee {
		return SeasonAdjustedEveningTwilight(c.Latitude, astro.DayOfYear(date), date.Year(), sunset, p.Shafaq)
	}
	_, portion := p.NightPortions()
	return sunset.Add(time.Duration(portion * float64(night)))
}
