package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Response is the Al Adhan envelope for a single day.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// CalendarResponse is the Al Adhan envelope for a month of days.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Data `json:"data"`
}

// HijriResponse is the envelope of the Gregorian to Hijri conversion.
type HijriResponse struct {
	Code   int       `json:"code"`
	Status string    `json:"status"`
	Data   HijriData `json:"data"`
}

// HijriData carries both calendars of the converted date.
type HijriData struct {
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// MethodsResponse lists every calculation preset keyed by name.
type MethodsResponse struct {
	Code   int                   `json:"code"`
	Status string                `json:"status"`
	Data   map[string]MethodInfo `json:"data"`
}

// ErrorResponse is what the server returns for a failed request. Data holds
// the message, as Al Adhan does.
type ErrorResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   string `json:"data"`
}

// Data holds the prayer timings, date info, and metadata.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains all prayer and event times as HH:MM strings.
// Al Adhan may include a timezone suffix like " (BST)" which is stripped when
// parsing.
type Timings struct {
	Fajr      string `json:"Fajr"`
	Sunrise   string `json:"Sunrise"`
	Dhuhr     string `json:"Dhuhr"`
	Asr       string `json:"Asr"`
	Sunset    string `json:"Sunset,omitempty"`
	Maghrib   string `json:"Maghrib"`
	Isha      string `json:"Isha"`
	Midnight  string `json:"Midnight"`
	Lastthird string `json:"Lastthird"`
}

// Get returns the clock string for a prayer or marker name.
func (t Timings) Get(name string) (string, bool) {
	switch name {
	case "Fajr":
		return t.Fajr, true
	case "Sunrise":
		return t.Sunrise, true
	case "Dhuhr":
		return t.Dhuhr, true
	case "Asr":
		return t.Asr, true
	case "Maghrib":
		return t.Maghrib, true
	case "Isha":
		return t.Isha, true
	case "Midnight":
		return t.Midnight, true
	case "Lastthird":
		return t.Lastthird, true
	}
	return "", false
}

// At resolves the named timing to an instant on day's calendar date in loc.
// Night markers that fall before noon belong to the following morning.
func (t Timings) At(name string, day time.Time, loc *time.Location) (time.Time, error) {
	raw, ok := t.Get(name)
	if !ok {
		return time.Time{}, fmt.Errorf("unknown timing %q", name)
	}
	hour, minute, err := ParseClock(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}

	y, m, d := day.Date()
	at := time.Date(y, m, d, hour, minute, 0, 0, loc)
	if (name == "Midnight" || name == "Lastthird") && hour < 12 {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}

// ParseClock reads "HH:MM", ignoring any trailing " (TZ)" suffix.
func ParseClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// DateInfo contains date representations.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date.
type HijriDate struct {
	Date        string           `json:"date"` // e.g. "10-08-1447"
	Day         string           `json:"day"`
	Weekday     HijriWeekday     `json:"weekday"`
	Month       HijriMonth       `json:"month"`
	Year        string           `json:"year"`
	Designation HijriDesignation `json:"designation"`
}

// HijriWeekday names the day of the week.
type HijriWeekday struct {
	En string `json:"en"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // English name, e.g. "Shaʿbān"
	Ar     string `json:"ar"` // Arabic name
}

// HijriDesignation contains the calendar designation labels.
type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"` // "AH"
	Expanded    string `json:"expanded"`    // "Anno Hegirae"
}

// Format returns the Hijri date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

// GregorianDate represents the Gregorian date.
type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "28-02-2026"
	Day     string         `json:"day"`
	Weekday GregorianDay   `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// GregorianDay contains the weekday name.
type GregorianDay struct {
	En string `json:"en"` // e.g. "Saturday"
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // e.g. "February"
}

// Meta describes how the timings were produced.
type Meta struct {
	Latitude                 float64    `json:"latitude"`
	Longitude                float64    `json:"longitude"`
	Timezone                 string     `json:"timezone"`
	Method                   MethodInfo `json:"method"`
	LatitudeAdjustmentMethod string     `json:"latitudeAdjustmentMethod"`
	MidnightMode             string     `json:"midnightMode"`
	School                   string     `json:"school"`
	Offset                   Offsets    `json:"offset"`
}

// Offsets are the per-prayer minute adjustments that were applied.
type Offsets struct {
	Fajr    int `json:"Fajr"`
	Sunrise int `json:"Sunrise"`
	Dhuhr   int `json:"Dhuhr"`
	Asr     int `json:"Asr"`
	Maghrib int `json:"Maghrib"`
	Isha    int `json:"Isha"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID     int          `json:"id"`
	Name   string       `json:"name"`
	Params MethodParams `json:"params"`
}

// MethodParams are the twilight parameters of a method. Isha is an angle,
// or a "N min" string for interval methods.
type MethodParams struct {
	Fajr float64 `json:"Fajr"`
	Isha any     `json:"Isha"`
}
