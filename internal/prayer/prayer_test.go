package prayer

import (
	"testing"
	"time"
)

// helper to build a time.Time on a given date in UTC.
func makeTime(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, 2, 28, hour, min, 0, 0, time.UTC)
}

// sampleDay mirrors a February day in London; the night markers fall after
// midnight and sort last.
func sampleDay(t *testing.T) []Prayer {
	t.Helper()
	pt := PrayerTimes{
		Date:    time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		Fajr:    makeTime(t, 5, 17),
		Sunrise: makeTime(t, 6, 48),
		Dhuhr:   makeTime(t, 12, 13),
		Asr:     makeTime(t, 15, 2),
		Maghrib: makeTime(t, 17, 39),
		Isha:    makeTime(t, 19, 10),
	}
	sunnah := SunnahTimes{
		MiddleOfTheNight:    makeTime(t, 24, 14),
		LastThirdOfTheNight: makeTime(t, 26, 25),
	}
	return NewEvents(pt, sunnah)
}

func defaultPrayers(t *testing.T) []Prayer {
	t.Helper()
	prayers, err := Select(sampleDay(t), DefaultPrayerNames)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	return prayers
}

// ---------------------------------------------------------------------------
// NewEvents
// ---------------------------------------------------------------------------

func TestNewEvents_OrderAndFard(t *testing.T) {
	events := sampleDay(t)
	if len(events) != len(AllPrayerNames) {
		t.Fatalf("expected %d events, got %d", len(AllPrayerNames), len(events))
	}
	for i, name := range AllPrayerNames {
		if events[i].Name != name {
			t.Errorf("events[%d].Name = %q, want %q", i, events[i].Name, name)
		}
		if events[i].Fard != IsFard(name) {
			t.Errorf("events[%d].Fard = %v for %s", i, events[i].Fard, name)
		}
	}
	for i := 1; i < len(events); i++ {
		if events[i].Time.Before(events[i-1].Time) {
			t.Errorf("events not chronological at %d: %v before %v", i, events[i].Time, events[i-1].Time)
		}
	}
}

func TestNewEvents_SortsMarkersBeforeIsha(t *testing.T) {
	// Short summer nights far north can put the middle of the night ahead
	// of a late Isha.
	pt := PrayerTimes{
		Fajr:    makeTime(t, 1, 0),
		Sunrise: makeTime(t, 3, 0),
		Dhuhr:   makeTime(t, 12, 0),
		Asr:     makeTime(t, 16, 0),
		Maghrib: makeTime(t, 21, 0),
		Isha:    makeTime(t, 23, 30),
	}
	sunnah := SunnahTimes{
		MiddleOfTheNight:    makeTime(t, 23, 0),
		LastThirdOfTheNight: makeTime(t, 24, 0),
	}
	events := NewEvents(pt, sunnah)
	if events[5].Name != Midnight || events[6].Name != Isha {
		t.Errorf("expected Midnight before Isha, got %s then %s", events[5].Name, events[6].Name)
	}
}

// ---------------------------------------------------------------------------
// ParsePrayerNames / Select
// ---------------------------------------------------------------------------

func TestParsePrayerNames(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{"empty uses defaults", "", DefaultPrayerNames, false},
		{"canonicalises case", "fajr, MAGHRIB", []string{Fajr, Maghrib}, false},
		{"skips blanks", "Isha,,Lastthird", []string{Isha, Lastthird}, false},
		{"unknown", "Fajr,Tahajjud", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrayerNames(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePrayerNames(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrayerNames(%q) unexpected error: %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParsePrayerNames(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParsePrayerNames(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSelect_DefaultPrayers(t *testing.T) {
	prayers := defaultPrayers(t)
	if len(prayers) != len(DefaultPrayerNames) {
		t.Fatalf("expected %d prayers, got %d", len(DefaultPrayerNames), len(prayers))
	}
	for i, name := range DefaultPrayerNames {
		if prayers[i].Name != name {
			t.Errorf("prayer[%d].Name = %q, want %q", i, prayers[i].Name, name)
		}
	}
}

func TestSelect_KeepsChronologicalOrder(t *testing.T) {
	prayers, err := Select(sampleDay(t), []string{"Isha", "Fajr", "Maghrib"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prayers) != 3 {
		t.Fatalf("expected 3 prayers, got %d", len(prayers))
	}
	if prayers[0].Name != Fajr || prayers[1].Name != Maghrib || prayers[2].Name != Isha {
		t.Errorf("unexpected prayer names: %v", prayers)
	}
}

func TestSelect_UnknownPrayer(t *testing.T) {
	_, err := Select(sampleDay(t), []string{"Tahajjud"})
	if err == nil {
		t.Fatal("expected error for unknown prayer, got nil")
	}
}

func TestInLocation(t *testing.T) {
	loc := time.FixedZone("EET", 2*3600)
	prayers := InLocation(defaultPrayers(t), loc)

	if prayers[0].Time.Location() != loc {
		t.Errorf("expected location %v, got %v", loc, prayers[0].Time.Location())
	}
	if prayers[0].Time.Hour() != 7 || prayers[0].Time.Minute() != 17 {
		t.Errorf("Fajr in EET = %s, want 07:17", prayers[0].Time.Format("15:04"))
	}
}

// ---------------------------------------------------------------------------
// CurrentPrayer
// ---------------------------------------------------------------------------

func TestCurrentPrayer(t *testing.T) {
	prayers := defaultPrayers(t)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before fajr", makeTime(t, 3, 0), ""},
		{"exactly at fajr", makeTime(t, 5, 17), Fajr},
		{"afternoon", makeTime(t, 16, 0), Asr},
		{"late night", makeTime(t, 23, 0), Isha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentPrayer(prayers, tt.now)
			if tt.want == "" {
				if got != nil {
					t.Errorf("expected nil, got %s", got.Name)
				}
				return
			}
			if got == nil || got.Name != tt.want {
				t.Errorf("CurrentPrayer = %v, want %s", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// NextPrayer
// ---------------------------------------------------------------------------

func TestNextPrayer_MiddleOfDay(t *testing.T) {
	prayers := defaultPrayers(t)

	// At 13:00, Dhuhr (12:13) has passed, next should be Asr (15:02)
	now := time.Date(2026, 2, 28, 13, 0, 0, 0, time.UTC)
	next := NextPrayer(prayers, now)
	if next == nil {
		t.Fatal("expected a next prayer, got nil")
	}
	if next.Name != "Asr" {
		t.Errorf("expected Asr, got %s", next.Name)
	}
}

func TestNextPrayer_BeforeFirstPrayer(t *testing.T) {
	prayers := defaultPrayers(t)

	// At 03:00, before Fajr (05:17)
	now := time.Date(2026, 2, 28, 3, 0, 0, 0, time.UTC)
	next := NextPrayer(prayers, now)
	if next == nil {
		t.Fatal("expected a next prayer, got nil")
	}
	if next.Name != "Fajr" {
		t.Errorf("expected Fajr, got %s", next.Name)
	}
}

func TestNextPrayer_AfterAllPrayers(t *testing.T) {
	prayers := defaultPrayers(t)

	// At 22:00, after Isha (19:10)
	now := time.Date(2026, 2, 28, 22, 0, 0, 0, time.UTC)
	next := NextPrayer(prayers, now)
	if next != nil {
		t.Errorf("expected nil after all prayers, got %s", next.Name)
	}
}

func TestNextPrayer_ExactTime(t *testing.T) {
	prayers := defaultPrayers(t)

	// Exactly at Dhuhr time (12:13), should move to Asr since Dhuhr is not After now
	now := time.Date(2026, 2, 28, 12, 13, 0, 0, time.UTC)
	next := NextPrayer(prayers, now)
	if next == nil {
		t.Fatal("expected a next prayer, got nil")
	}
	if next.Name != "Asr" {
		t.Errorf("expected Asr, got %s", next.Name)
	}
}

func TestNextPrayer_EmptyList(t *testing.T) {
	now := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	next := NextPrayer([]Prayer{}, now)
	if next != nil {
		t.Errorf("expected nil for empty prayer list, got %v", next)
	}
}

// ---------------------------------------------------------------------------
// TimeRemaining
// ---------------------------------------------------------------------------

func TestTimeRemaining(t *testing.T) {
	p := Prayer{Name: "Asr", Time: makeTime(t, 15, 2)}
	now := makeTime(t, 13, 0)

	d := TimeRemaining(p, now)
	if d.Hours() < 2.0 || d.Hours() > 2.1 {
		t.Errorf("expected ~2h, got %v", d)
	}
}

func TestTimeRemaining_Negative(t *testing.T) {
	p := Prayer{Name: "Fajr", Time: makeTime(t, 5, 0)}
	now := makeTime(t, 10, 0)

	d := TimeRemaining(p, now)
	if d >= 0 {
		t.Errorf("expected negative duration, got %v", d)
	}
}

// ---------------------------------------------------------------------------
// FormatRemaining
// ---------------------------------------------------------------------------

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"hours and minutes", 2*time.Hour + 15*time.Minute, "2h 15m"},
		{"only minutes", 45 * time.Minute, "45m"},
		{"exactly one hour", 1 * time.Hour, "1h 0m"},
		{"zero", 0, "0m"},
		{"negative", -30 * time.Minute, "0m"},
		{"large", 10*time.Hour + 59*time.Minute, "10h 59m"},
		{"just over an hour", 1*time.Hour + 1*time.Minute, "1h 1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRemaining(tt.duration)
			if got != tt.want {
				t.Errorf("FormatRemaining(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ShortNames
// ---------------------------------------------------------------------------

func TestShortNames_AllDefaults(t *testing.T) {
	for _, name := range DefaultPrayerNames {
		if _, ok := ShortNames[name]; !ok {
			t.Errorf("ShortNames missing entry for default prayer %q", name)
		}
	}
}

func TestShortNames_AllPrayers(t *testing.T) {
	for _, name := range AllPrayerNames {
		if _, ok := ShortNames[name]; !ok {
			t.Errorf("ShortNames missing entry for prayer %q", name)
		}
	}
}
