package prayer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodParametersTable(t *testing.T) {
	tests := []struct {
		method   Method
		fajr     float64
		isha     float64
		interval int
		adj      Adjustments
		rounding Rounding
	}{
		{MuslimWorldLeague, 18, 17, 0, Adjustments{Dhuhr: 1}, RoundNearest},
		{Egyptian, 19.5, 17.5, 0, Adjustments{Dhuhr: 1}, RoundNearest},
		{Karachi, 18, 18, 0, Adjustments{Dhuhr: 1}, RoundNearest},
		{UmmAlQura, 18.5, 0, 90, Adjustments{}, RoundNearest},
		{Dubai, 18.2, 18.2, 0, Adjustments{Sunrise: -3, Dhuhr: 3, Asr: 3, Maghrib: 3}, RoundNearest},
		{MoonsightingCommittee, 18, 18, 0, Adjustments{Dhuhr: 5, Maghrib: 3}, RoundNearest},
		{NorthAmerica, 15, 15, 0, Adjustments{Dhuhr: 1}, RoundNearest},
		{Kuwait, 18, 17.5, 0, Adjustments{}, RoundNearest},
		{Qatar, 18, 0, 90, Adjustments{}, RoundNearest},
		{Singapore, 20, 18, 0, Adjustments{Dhuhr: 1}, RoundUp},
		{Turkey, 18, 17, 0, Adjustments{Sunrise: -7, Dhuhr: 5, Asr: 4, Maghrib: 7}, RoundNearest},
		{Other, 18, 17, 0, Adjustments{}, RoundNearest},
	}

	assert.Len(t, tests, len(Methods))

	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			p := NewParameters(tt.method)
			assert.Equal(t, tt.method, p.Method)
			assert.Equal(t, tt.fajr, p.FajrAngle)
			assert.Equal(t, tt.isha, p.IshaAngle)
			assert.Equal(t, tt.interval, p.IshaInterval)
			assert.Equal(t, tt.adj, p.MethodAdjustments)
			assert.Equal(t, tt.rounding, p.Rounding)
			assert.Equal(t, Adjustments{}, p.Adjustments)
			assert.Equal(t, Shafi, p.Madhab)
			assert.Equal(t, MiddleOfTheNight, p.HighLatitudeRule)
		})
	}
}

func TestDetectMethodRoundTrip(t *testing.T) {
	for _, m := range Methods {
		assert.Equal(t, m, DetectMethod(m.Parameters()), "round trip for %s", m)
	}
}

func TestDetectMethodIgnoresCallerSettings(t *testing.T) {
	p := NewParameters(Karachi).
		WithMadhab(Hanafi).
		WithHighLatitudeRule(SeventhOfTheNight).
		WithAdjustments(Adjustments{Fajr: 2})
	assert.Equal(t, Karachi, DetectMethod(p))
}

func TestDetectMethodToleranceAndCustom(t *testing.T) {
	p := NewParameters(Egyptian)
	p.FajrAngle = 19.505
	assert.Equal(t, Egyptian, DetectMethod(p))

	p.FajrAngle = 19.7
	assert.Equal(t, Other, DetectMethod(p))

	custom := NewParameters(Other)
	custom.FajrAngle, custom.IshaAngle = 16, 14
	assert.Equal(t, Other, DetectMethod(custom))
}

func TestWithAngles(t *testing.T) {
	p := NewParameters(MuslimWorldLeague).WithAngles(0, 0, 0)
	assert.Equal(t, MuslimWorldLeague, p.Method)

	p = NewParameters(MuslimWorldLeague).WithAngles(16, 14, 0)
	assert.Equal(t, Other, p.Method)
	assert.Equal(t, 16.0, p.FajrAngle)
	assert.Equal(t, 14.0, p.IshaAngle)

	// Same angles and built-in dhuhr offset as the North America preset.
	p = NewParameters(MuslimWorldLeague).WithAngles(15, 15, 0)
	assert.Equal(t, NorthAmerica, p.Method)

	p = NewParameters(UmmAlQura).WithAngles(0, 17, 0)
	assert.Equal(t, 0, p.IshaInterval, "an explicit isha angle drops the interval")
	assert.Equal(t, 17.0, p.IshaAngle)

	p = NewParameters(Other).WithAngles(0, 0, 90)
	assert.Equal(t, 90, p.IshaInterval)
}

func TestWithAnglesDropsPresetOffsets(t *testing.T) {
	p := NewParameters(MoonsightingCommittee).WithAdjustments(Adjustments{Asr: 2}).WithAngles(16, 0, 0)
	assert.Equal(t, Other, p.Method)
	assert.Equal(t, Adjustments{}, p.MethodAdjustments)
	assert.Equal(t, Adjustments{Asr: 2}, p.Adjustments, "caller offsets survive")
	assert.Equal(t, Adjustments{Asr: 2}, p.totalAdjustments())

	// Still a preset: its offsets stay.
	p = NewParameters(MuslimWorldLeague).WithAngles(15, 15, 0)
	assert.Equal(t, NorthAmerica, p.Method)
	assert.Equal(t, 1, p.MethodAdjustments.Dhuhr)
}

func TestWithAnglesCustomMoonsightingDhuhr(t *testing.T) {
	date := time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)
	msc := NewParameters(MoonsightingCommittee).WithHighLatitudeRule(MiddleOfTheNight)
	custom := msc.WithAngles(18.5, 0, 0)
	require.Equal(t, Other, custom.Method)

	a, err := Compute(helsinki, date, msc)
	require.NoError(t, err)
	b, err := Compute(helsinki, date, custom)
	require.NoError(t, err)
	assert.Equal(t, a.Dhuhr.Add(-5*time.Minute), b.Dhuhr, "dhuhr loses the +5 preset offset")
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"MuslimWorldLeague", MuslimWorldLeague},
		{"muslim-world-league", MuslimWorldLeague},
		{"MWL", MuslimWorldLeague},
		{"umm_al_qura", UmmAlQura},
		{"Moonsighting Committee", MoonsightingCommittee},
		{"isna", NorthAmerica},
		{"  Turkey ", Turkey},
		{"3", MuslimWorldLeague},
		{"2", NorthAmerica},
		{"15", MoonsightingCommittee},
		{"", Other},
		{"jafari", Other},
		{"42", Other},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMethod(tt.in), "ParseMethod(%q)", tt.in)
	}

	for _, m := range Methods {
		assert.Equal(t, m, ParseMethod(m.String()), "names parse back")
	}
}

func TestLookupMethod(t *testing.T) {
	m, ok := LookupMethod("karachi")
	assert.True(t, ok)
	assert.Equal(t, Karachi, m)

	m, ok = LookupMethod("other")
	assert.True(t, ok)
	assert.Equal(t, Other, m)

	m, ok = LookupMethod("jafari")
	assert.False(t, ok)
	assert.Equal(t, Other, m)
}

func TestMethodAladhanIDs(t *testing.T) {
	seen := map[int]Method{}
	for _, m := range Methods {
		id := m.AladhanID()
		assert.NotZero(t, id, "%s has no id", m)
		if prev, dup := seen[id]; dup {
			t.Errorf("id %d shared by %s and %s", id, prev, m)
		}
		seen[id] = m

		back, ok := MethodFromAladhanID(id)
		assert.True(t, ok)
		assert.Equal(t, m, back)
	}

	_, ok := MethodFromAladhanID(7)
	assert.False(t, ok)
}

func TestMethodStrings(t *testing.T) {
	assert.Equal(t, "MoonsightingCommittee", MoonsightingCommittee.String())
	assert.Equal(t, "Method(99)", Method(99).String())
	for _, m := range Methods {
		assert.NotEmpty(t, m.Description(), "%s", m)
	}
}

func TestUnknownMethodParameters(t *testing.T) {
	p := Method(99).Parameters()
	assert.Equal(t, Other, p.Method)
	assert.Equal(t, 18.0, p.FajrAngle)
	assert.Equal(t, 17.0, p.IshaAngle)
}

func TestParseOptions(t *testing.T) {
	m, err := ParseMadhab("Hanafi")
	assert.NoError(t, err)
	assert.Equal(t, Hanafi, m)
	m, err = ParseMadhab("0")
	assert.NoError(t, err)
	assert.Equal(t, Shafi, m)
	_, err = ParseMadhab("maliki")
	assert.Error(t, err)

	r, err := ParseHighLatitudeRule("seventh-of-the-night")
	assert.NoError(t, err)
	assert.Equal(t, SeventhOfTheNight, r)
	r, err = ParseHighLatitudeRule("TwilightAngle")
	assert.NoError(t, err)
	assert.Equal(t, TwilightAngle, r)
	_, err = ParseHighLatitudeRule("angle-based-plus")
	assert.Error(t, err)

	s, err := ParseShafaq("abyad")
	assert.NoError(t, err)
	assert.Equal(t, ShafaqAbyad, s)
	_, err = ParseShafaq("green")
	assert.Error(t, err)

	for _, rule := range []HighLatitudeRule{MiddleOfTheNight, SeventhOfTheNight, TwilightAngle} {
		back, err := ParseHighLatitudeRule(rule.String())
		assert.NoError(t, err)
		assert.Equal(t, rule, back)
	}
	for _, sh := range []Shafaq{ShafaqGeneral, ShafaqAhmer, ShafaqAbyad} {
		back, err := ParseShafaq(sh.String())
		assert.NoError(t, err)
		assert.Equal(t, sh, back)
	}
}

func TestNightPortions(t *testing.T) {
	p := NewParameters(MuslimWorldLeague)

	f, i := p.NightPortions()
	assert.Equal(t, 0.5, f)
	assert.Equal(t, 0.5, i)

	f, i = p.WithHighLatitudeRule(SeventhOfTheNight).NightPortions()
	assert.InDelta(t, 1.0/7, f, 1e-12)
	assert.InDelta(t, 1.0/7, i, 1e-12)

	f, i = p.WithHighLatitudeRule(TwilightAngle).NightPortions()
	assert.InDelta(t, 0.3, f, 1e-12)
	assert.InDelta(t, 17.0/60, i, 1e-12)
}

func TestRecommendedHighLatitudeRule(t *testing.T) {
	assert.Equal(t, MiddleOfTheNight, RecommendedHighLatitudeRule(Coordinates{Latitude: 43.65}))
	assert.Equal(t, MiddleOfTheNight, RecommendedHighLatitudeRule(Coordinates{Latitude: 48}))
	assert.Equal(t, SeventhOfTheNight, RecommendedHighLatitudeRule(Coordinates{Latitude: 60.17}))
	assert.Equal(t, SeventhOfTheNight, RecommendedHighLatitudeRule(Coordinates{Latitude: -54.8}))
}

func TestMadhabShadowLength(t *testing.T) {
	assert.Equal(t, 1.0, Shafi.ShadowLength())
	assert.Equal(t, 2.0, Hanafi.ShadowLength())
}
