package prayer

import (
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/prayer-times/internal/astro"
)

// ErrUndefinedSolarEvent is returned when the sun does not rise, set, cross
// the meridian or reach the Asr altitude on the requested day.
var ErrUndefinedSolarEvent = errors.New("solar event undefined at this latitude and date")

// PrayerTimes are the six daily instants in UTC.
type PrayerTimes struct {
	Date    time.Time `json:"date"`
	Fajr    time.Time `json:"fajr"`
	Sunrise time.Time `json:"sunrise"`
	Dhuhr   time.Time `json:"dhuhr"`
	Asr     time.Time `json:"asr"`
	Maghrib time.Time `json:"maghrib"`
	Isha    time.Time `json:"isha"`
}

// SunnahTimes are the night markers that follow a day's Maghrib.
type SunnahTimes struct {
	MiddleOfTheNight    time.Time `json:"middle_of_the_night"`
	LastThirdOfTheNight time.Time `json:"last_third_of_the_night"`
}

// report carries what Compute decided along the way, for logging.
type report struct {
	fajrFallback bool
	ishaFallback bool
}

// Compute returns the prayer times for the calendar date of date (read in
// its own location) at coords.
func Compute(coords Coordinates, date time.Time, params CalculationParameters) (PrayerTimes, error) {
	pt, _, err := compute(coords, date, params)
	return pt, err
}

func compute(coords Coordinates, date time.Time, params CalculationParameters) (PrayerTimes, report, error) {
	var rep report
	if err := coords.Validate(); err != nil {
		return PrayerTimes{}, rep, err
	}

	day := civilDay(date)
	tomorrow := day.AddDate(0, 0, 1)

	solar := astro.NewSolarTime(day, coords)
	next := astro.NewSolarTime(tomorrow, coords)

	dhuhr, err := solarEvent("dhuhr", day, solar.Transit)
	if err != nil {
		return PrayerTimes{}, rep, err
	}
	sunrise, err := solarEvent("sunrise", day, solar.Sunrise)
	if err != nil {
		return PrayerTimes{}, rep, err
	}
	sunset, err := solarEvent("sunset", day, solar.Sunset)
	if err != nil {
		return PrayerTimes{}, rep, err
	}
	asr, err := solarEvent("asr", day, solar.Afternoon(params.Madhab.ShadowLength()))
	if err != nil {
		return PrayerTimes{}, rep, err
	}
	tomorrowSunrise, err := solarEvent("sunrise", tomorrow, next.Sunrise)
	if err != nil {
		return PrayerTimes{}, rep, err
	}
	night := tomorrowSunrise.Sub(sunset)

	rawFajr := rawFromHours(day, solar.HourAngle(-params.FajrAngle, false))
	fajr := SelectFajr(rawFajr, safeFajr(params, coords, day, sunrise, night))
	rep.fajrFallback = !fajr.Equal(rawFajr.t) || rawFajr.IsNone()

	var rawIsha RawSolution
	var isha time.Time
	if params.IshaInterval > 0 {
		isha = SelectIsha(None(), time.Time{}, sunset, params.IshaInterval)
	} else {
		rawIsha = rawFromHours(day, solar.HourAngle(-params.IshaAngle, true))
		isha = SelectIsha(rawIsha, safeIsha(params, coords, day, sunset, night), sunset, 0)
		rep.ishaFallback = !isha.Equal(rawIsha.t) || rawIsha.IsNone()
	}

	adj := params.totalAdjustments()
	return PrayerTimes{
		Date:    day,
		Fajr:    finalize(fajr, adj.Fajr, params.Rounding),
		Sunrise: finalize(sunrise, adj.Sunrise, params.Rounding),
		Dhuhr:   finalize(dhuhr, adj.Dhuhr, params.Rounding),
		Asr:     finalize(asr, adj.Asr, params.Rounding),
		Maghrib: finalize(sunset, adj.Maghrib, params.Rounding),
		Isha:    finalize(isha, adj.Isha, params.Rounding),
	}, rep, nil
}

// ComputeSunnah returns the middle and last third of the night that starts
// at the Maghrib of date and ends at the next day's sunrise.
func ComputeSunnah(coords Coordinates, date time.Time, params CalculationParameters) (SunnahTimes, error) {
	today, err := Compute(coords, date, params)
	if err != nil {
		return SunnahTimes{}, err
	}
	tomorrow, err := Compute(coords, today.Date.AddDate(0, 0, 1), params)
	if err != nil {
		return SunnahTimes{}, err
	}
	return sunnahBetween(today, tomorrow), nil
}

func sunnahBetween(today, tomorrow PrayerTimes) SunnahTimes {
	night := tomorrow.Sunrise.Sub(today.Maghrib)
	return SunnahTimes{
		MiddleOfTheNight:    roundedMinute(today.Maghrib.Add(night/2), RoundNearest),
		LastThirdOfTheNight: roundedMinute(today.Maghrib.Add(night*2/3), RoundNearest),
	}
}

// Time returns the instant for a prayer name as used in Events.
func (pt PrayerTimes) Time(name string) (time.Time, bool) {
	switch name {
	case Fajr:
		return pt.Fajr, true
	case Sunrise:
		return pt.Sunrise, true
	case Dhuhr:
		return pt.Dhuhr, true
	case Asr:
		return pt.Asr, true
	case Maghrib:
		return pt.Maghrib, true
	case Isha:
		return pt.Isha, true
	}
	return time.Time{}, false
}

// In returns a copy of pt with every instant expressed in loc.
func (pt PrayerTimes) In(loc *time.Location) PrayerTimes {
	return PrayerTimes{
		Date:    pt.Date,
		Fajr:    pt.Fajr.In(loc),
		Sunrise: pt.Sunrise.In(loc),
		Dhuhr:   pt.Dhuhr.In(loc),
		Asr:     pt.Asr.In(loc),
		Maghrib: pt.Maghrib.In(loc),
		Isha:    pt.Isha.In(loc),
	}
}

func solarEvent(name string, day time.Time, hours float64) (time.Time, error) {
	t, ok := astro.HoursToTime(day, hours)
	if !ok {
		return time.Time{}, fmt.Errorf("%s on %s: %w", name, day.Format("2006-01-02"), ErrUndefinedSolarEvent)
	}
	return t, nil
}

// civilDay returns midnight UTC of date's calendar day in date's location.
func civilDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func finalize(t time.Time, minutes int, r Rounding) time.Time {
	return roundedMinute(t.Add(time.Duration(minutes)*time.Minute), r)
}

func roundedMinute(t time.Time, r Rounding) time.Time {
	floor := t.Truncate(time.Minute)
	switch r {
	case RoundNone:
		return t
	case RoundUp:
		if floor.Equal(t) {
			return t
		}
		return floor.Add(time.Minute)
	default:
		if t.Sub(floor) >= 30*time.Second {
			return floor.Add(time.Minute)
		}
		return floor
	}
}
