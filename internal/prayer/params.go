package prayer

import (
	"fmt"
	"math"
	"strings"

	"github.com/smokyabdulrahman/prayer-times/internal/astro"
)

// Coordinates is the observer position used by every computation here.
type Coordinates = astro.Coordinates

// ErrInvalidCoordinates is returned when a position is not finite or out of
// range.
var ErrInvalidCoordinates = astro.ErrInvalidCoordinates

// Madhab selects the Asr shadow convention.
type Madhab int

const (
	// Shafi waits for a shadow one object length past the noon shadow.
	Shafi Madhab = iota
	// Hanafi waits for two object lengths.
	Hanafi
)

// ShadowLength returns the Asr shadow ratio.
func (m Madhab) ShadowLength() float64 {
	if m == Hanafi {
		return 2
	}
	return 1
}

func (m Madhab) String() string {
	if m == Hanafi {
		return "hanafi"
	}
	return "shafi"
}

// ParseMadhab accepts "shafi"/"hanafi" or the Al Adhan school ids "0"/"1".
func ParseMadhab(s string) (Madhab, error) {
	switch normalize(s) {
	case "shafi", "standard", "0", "":
		return Shafi, nil
	case "hanafi", "1":
		return Hanafi, nil
	}
	return Shafi, fmt.Errorf("unknown madhab %q (expected shafi or hanafi)", s)
}

// HighLatitudeRule bounds Fajr and Isha by a fraction of the night.
type HighLatitudeRule int

const (
	MiddleOfTheNight HighLatitudeRule = iota
	SeventhOfTheNight
	TwilightAngle
)

func (r HighLatitudeRule) String() string {
	switch r {
	case SeventhOfTheNight:
		return "seventh-of-the-night"
	case TwilightAngle:
		return "twilight-angle"
	default:
		return "middle-of-the-night"
	}
}

// ParseHighLatitudeRule accepts the rule names in any case and punctuation.
func ParseHighLatitudeRule(s string) (HighLatitudeRule, error) {
	switch normalize(s) {
	case "middleofthenight", "middle", "":
		return MiddleOfTheNight, nil
	case "seventhofthenight", "seventh":
		return SeventhOfTheNight, nil
	case "twilightangle", "twilight", "angle":
		return TwilightAngle, nil
	}
	return MiddleOfTheNight, fmt.Errorf("unknown high latitude rule %q", s)
}

// RecommendedHighLatitudeRule returns SeventhOfTheNight above 48 degrees of
// latitude and MiddleOfTheNight elsewhere.
func RecommendedHighLatitudeRule(c Coordinates) HighLatitudeRule {
	if math.Abs(c.Latitude) > 48 {
		return SeventhOfTheNight
	}
	return MiddleOfTheNight
}

// Shafaq selects which evening twilight the Moonsighting Committee table
// follows.
type Shafaq int

const (
	ShafaqGeneral Shafaq = iota
	ShafaqAhmer
	ShafaqAbyad
)

func (s Shafaq) String() string {
	switch s {
	case ShafaqAhmer:
		return "ahmer"
	case ShafaqAbyad:
		return "abyad"
	default:
		return "general"
	}
}

// ParseShafaq accepts general, ahmer or abyad.
func ParseShafaq(s string) (Shafaq, error) {
	switch normalize(s) {
	case "general", "":
		return ShafaqGeneral, nil
	case "ahmer", "red":
		return ShafaqAhmer, nil
	case "abyad", "white":
		return ShafaqAbyad, nil
	}
	return ShafaqGeneral, fmt.Errorf("unknown shafaq %q (expected general, ahmer or abyad)", s)
}

// Rounding controls how instants are reduced to whole minutes.
type Rounding int

const (
	// RoundNearest rounds half a minute and more up.
	RoundNearest Rounding = iota
	// RoundUp takes the ceiling minute.
	RoundUp
	// RoundNone keeps second precision.
	RoundNone
)

// Adjustments are per-prayer offsets in minutes.
type Adjustments struct {
	Fajr    int `json:"fajr" toml:"fajr"`
	Sunrise int `json:"sunrise" toml:"sunrise"`
	Dhuhr   int `json:"dhuhr" toml:"dhuhr"`
	Asr     int `json:"asr" toml:"asr"`
	Maghrib int `json:"maghrib" toml:"maghrib"`
	Isha    int `json:"isha" toml:"isha"`
}

func (a Adjustments) add(b Adjustments) Adjustments {
	return Adjustments{
		Fajr:    a.Fajr + b.Fajr,
		Sunrise: a.Sunrise + b.Sunrise,
		Dhuhr:   a.Dhuhr + b.Dhuhr,
		Asr:     a.Asr + b.Asr,
		Maghrib: a.Maghrib + b.Maghrib,
		Isha:    a.Isha + b.Isha,
	}
}

// CalculationParameters fully describe how a day is computed. Values are
// copied, never shared; the With helpers return modified copies.
type CalculationParameters struct {
	Method       Method
	FajrAngle    float64
	IshaAngle    float64
	IshaInterval int // minutes after maghrib; overrides IshaAngle when > 0

	Madhab           Madhab
	HighLatitudeRule HighLatitudeRule
	Shafaq           Shafaq
	Rounding         Rounding

	// Adjustments are the caller's own offsets.
	Adjustments Adjustments
	// MethodAdjustments are baked into the preset.
	MethodAdjustments Adjustments
}

// NewParameters returns the preset for m.
func NewParameters(m Method) CalculationParameters {
	return m.Parameters()
}

// WithMadhab returns a copy of p using madhab m.
func (p CalculationParameters) WithMadhab(m Madhab) CalculationParameters {
	p.Madhab = m
	return p
}

// WithHighLatitudeRule returns a copy of p using rule r.
func (p CalculationParameters) WithHighLatitudeRule(r HighLatitudeRule) CalculationParameters {
	p.HighLatitudeRule = r
	return p
}

// WithShafaq returns a copy of p using shafaq s.
func (p CalculationParameters) WithShafaq(s Shafaq) CalculationParameters {
	p.Shafaq = s
	return p
}

// WithRounding returns a copy of p using rounding r.
func (p CalculationParameters) WithRounding(r Rounding) CalculationParameters {
	p.Rounding = r
	return p
}

// WithAdjustments returns a copy of p with the caller offsets replaced.
func (p CalculationParameters) WithAdjustments(a Adjustments) CalculationParameters {
	p.Adjustments = a
	return p
}

// WithAngles returns a copy of p with custom twilight angles. A zero
// argument keeps the current value. The method becomes Other unless the
// result still matches a preset. Other carries no built-in offsets, and the
// Moonsighting Committee seasonal bounds no longer apply.
func (p CalculationParameters) WithAngles(fajr, isha float64, ishaInterval int) CalculationParameters {
	if fajr != 0 {
		p.FajrAngle = fajr
	}
	if isha != 0 {
		p.IshaAngle = isha
		p.IshaInterval = 0
	}
	if ishaInterval != 0 {
		p.IshaInterval = ishaInterval
	}
	p.Method = DetectMethod(p)
	if p.Method == Other {
		p.MethodAdjustments = Adjustments{}
	}
	return p
}

// NightPortions returns the fraction of the night that bounds Fajr and Isha
// under the configured high latitude rule.
func (p CalculationParameters) NightPortions() (fajr, isha float64) {
	switch p.HighLatitudeRule {
	case SeventhOfTheNight:
		return 1.0 / 7.0, 1.0 / 7.0
	case TwilightAngle:
		return p.FajrAngle / 60, p.IshaAngle / 60
	default:
		return 0.5, 0.5
	}
}

func (p CalculationParameters) totalAdjustments() Adjustments {
	return p.Adjustments.add(p.MethodAdjustments)
}

// normalize lowercases s and drops everything but letters and digits.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
