package prayer

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Event names, as printed and as accepted in the prayers config key.
const (
	Fajr      = "Fajr"
	Sunrise   = "Sunrise"
	Dhuhr     = "Dhuhr"
	Asr       = "Asr"
	Maghrib   = "Maghrib"
	Isha      = "Isha"
	Midnight  = "Midnight"
	Lastthird = "Lastthird"
)

// Prayer represents a single prayer or marker with its name and time.
type Prayer struct {
	Name string    `json:"name"`
	Time time.Time `json:"time"`
	Fard bool      `json:"fard"`
}

// AllPrayerNames lists every event a day carries, in chronological order.
var AllPrayerNames = []string{
	Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha, Midnight, Lastthird,
}

// DefaultPrayerNames are the prayers tracked by default.
var DefaultPrayerNames = []string{
	Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha,
}

// ShortNames maps full prayer names to single-character abbreviations.
var ShortNames = map[string]string{
	Fajr:      "F",
	Sunrise:   "S",
	Dhuhr:     "D",
	Asr:       "A",
	Maghrib:   "M",
	Isha:      "I",
	Midnight:  "Mi",
	Lastthird: "L3",
}

var fard = map[string]bool{
	Fajr: true, Dhuhr: true, Asr: true, Maghrib: true, Isha: true,
}

// IsFard reports whether name is one of the five obligatory prayers.
func IsFard(name string) bool {
	return fard[name]
}

// NewEvents tags the instants of a day and its night and sorts them
// chronologically.
func NewEvents(pt PrayerTimes, sunnah SunnahTimes) []Prayer {
	events := []Prayer{
		{Name: Fajr, Time: pt.Fajr, Fard: true},
		{Name: Sunrise, Time: pt.Sunrise},
		{Name: Dhuhr, Time: pt.Dhuhr, Fard: true},
		{Name: Asr, Time: pt.Asr, Fard: true},
		{Name: Maghrib, Time: pt.Maghrib, Fard: true},
		{Name: Isha, Time: pt.Isha, Fard: true},
		{Name: Midnight, Time: sunnah.MiddleOfTheNight},
		{Name: Lastthird, Time: sunnah.LastThirdOfTheNight},
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
	return events
}

// ParsePrayerNames splits a comma separated list such as "Fajr, dhuhr" into
// canonical names. An empty string yields DefaultPrayerNames.
func ParsePrayerNames(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultPrayerNames, nil
	}

	var names []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, ok := canonicalName(part)
		if !ok {
			return nil, fmt.Errorf("unknown prayer name: %s", part)
		}
		names = append(names, name)
	}
	return names, nil
}

func canonicalName(s string) (string, bool) {
	for _, name := range AllPrayerNames {
		if strings.EqualFold(name, s) {
			return name, true
		}
	}
	return "", false
}

// Select filters events down to the named ones, keeping chronological order.
// Every name must be a known event.
func Select(events []Prayer, selected []string) ([]Prayer, error) {
	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		canon, ok := canonicalName(name)
		if !ok {
			return nil, fmt.Errorf("unknown prayer name: %s", name)
		}
		want[canon] = true
	}

	var prayers []Prayer
	for _, p := range events {
		if want[p.Name] {
			prayers = append(prayers, p)
		}
	}
	return prayers, nil
}

// InLocation converts every event time into loc.
func InLocation(prayers []Prayer, loc *time.Location) []Prayer {
	out := make([]Prayer, len(prayers))
	for i, p := range prayers {
		p.Time = p.Time.In(loc)
		out[i] = p
	}
	return out
}

// NextPrayer finds the next upcoming prayer from the given slice, relative to now.
// If all prayers for today have passed, it returns nil (caller should compute tomorrow's Fajr).
func NextPrayer(prayers []Prayer, now time.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Time.After(now) {
			return &prayers[i]
		}
	}
	return nil
}

// CurrentPrayer returns the most recent prayer at or before now, or nil when
// now precedes all of them.
func CurrentPrayer(prayers []Prayer, now time.Time) *Prayer {
	var current *Prayer
	for i := range prayers {
		if prayers[i].Time.After(now) {
			break
		}
		current = &prayers[i]
	}
	return current
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(prayer Prayer, now time.Time) time.Duration {
	return prayer.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
