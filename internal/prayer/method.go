package prayer

import (
	"math"
	"strconv"
)

// Method is one of the calculation conventions published by Islamic
// authorities.
type Method int

const (
	MuslimWorldLeague Method = iota
	Egyptian
	Karachi
	UmmAlQura
	Dubai
	MoonsightingCommittee
	NorthAmerica
	Kuwait
	Qatar
	Singapore
	Turkey
	Other
)

// Methods lists every preset in declaration order.
var Methods = []Method{
	MuslimWorldLeague, Egyptian, Karachi, UmmAlQura, Dubai,
	MoonsightingCommittee, NorthAmerica, Kuwait, Qatar, Singapore,
	Turkey, Other,
}

var methodNames = map[Method]string{
	MuslimWorldLeague:     "MuslimWorldLeague",
	Egyptian:              "Egyptian",
	Karachi:               "Karachi",
	UmmAlQura:             "UmmAlQura",
	Dubai:                 "Dubai",
	MoonsightingCommittee: "MoonsightingCommittee",
	NorthAmerica:          "NorthAmerica",
	Kuwait:                "Kuwait",
	Qatar:                 "Qatar",
	Singapore:             "Singapore",
	Turkey:                "Turkey",
	Other:                 "Other",
}

var methodDescriptions = map[Method]string{
	MuslimWorldLeague:     "Muslim World League",
	Egyptian:              "Egyptian General Authority of Survey",
	Karachi:               "University of Islamic Sciences, Karachi",
	UmmAlQura:             "Umm al-Qura University, Makkah",
	Dubai:                 "UAE General Authority of Islamic Affairs",
	MoonsightingCommittee: "Moonsighting Committee Worldwide",
	NorthAmerica:          "Islamic Society of North America",
	Kuwait:                "Kuwait",
	Qatar:                 "Qatar",
	Singapore:             "Majlis Ugama Islam Singapura",
	Turkey:                "Diyanet İşleri Başkanlığı, Turkey",
	Other:                 "Custom",
}

// aladhanIDs are the method numbers used by the api.aladhan.com service, so
// configs written for it keep working.
var aladhanIDs = map[Method]int{
	Karachi:               1,
	NorthAmerica:          2,
	MuslimWorldLeague:     3,
	UmmAlQura:             4,
	Egyptian:              5,
	Kuwait:                9,
	Qatar:                 10,
	Singapore:             11,
	Turkey:                13,
	MoonsightingCommittee: 15,
	Dubai:                 16,
	Other:                 99,
}

var methodAliases = map[string]Method{
	"mwl":                   MuslimWorldLeague,
	"muslimworldleague":     MuslimWorldLeague,
	"egyptian":              Egyptian,
	"egypt":                 Egyptian,
	"karachi":               Karachi,
	"ummalqura":             UmmAlQura,
	"makkah":                UmmAlQura,
	"dubai":                 Dubai,
	"uae":                   Dubai,
	"moonsightingcommittee": MoonsightingCommittee,
	"moonsighting":          MoonsightingCommittee,
	"msc":                   MoonsightingCommittee,
	"northamerica":          NorthAmerica,
	"isna":                  NorthAmerica,
	"kuwait":                Kuwait,
	"qatar":                 Qatar,
	"singapore":             Singapore,
	"muis":                  Singapore,
	"turkey":                Turkey,
	"diyanet":               Turkey,
	"other":                 Other,
	"custom":                Other,
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "Method(" + strconv.Itoa(int(m)) + ")"
}

// Description returns the authority's display name.
func (m Method) Description() string {
	return methodDescriptions[m]
}

// AladhanID returns the api.aladhan.com method number for m.
func (m Method) AladhanID() int {
	return aladhanIDs[m]
}

// MethodFromAladhanID maps an api.aladhan.com method number to a preset.
func MethodFromAladhanID(id int) (Method, bool) {
	for m, v := range aladhanIDs {
		if v == id {
			return m, true
		}
	}
	return Other, false
}

// ParseMethod resolves a method name, alias or Al Adhan number. Case and
// punctuation are ignored. Anything unrecognised is Other.
func ParseMethod(s string) Method {
	m, _ := LookupMethod(s)
	return m
}

// LookupMethod is ParseMethod that also reports whether s named a method.
func LookupMethod(s string) (Method, bool) {
	key := normalize(s)
	if m, ok := methodAliases[key]; ok {
		return m, true
	}
	if id, err := strconv.Atoi(key); err == nil {
		if m, ok := MethodFromAladhanID(id); ok {
			return m, true
		}
	}
	return Other, false
}

// Parameters returns the preset parameters for m. Madhab, rule, shafaq and
// caller adjustments start at their zero values.
func (m Method) Parameters() CalculationParameters {
	p := CalculationParameters{Method: m}

	switch m {
	case MuslimWorldLeague:
		p.FajrAngle, p.IshaAngle = 18, 17
		p.MethodAdjustments.Dhuhr = 1
	case Egyptian:
		p.FajrAngle, p.IshaAngle = 19.5, 17.5
		p.MethodAdjustments.Dhuhr = 1
	case Karachi:
		p.FajrAngle, p.IshaAngle = 18, 18
		p.MethodAdjustments.Dhuhr = 1
	case UmmAlQura:
		p.FajrAngle, p.IshaInterval = 18.5, 90
	case Dubai:
		p.FajrAngle, p.IshaAngle = 18.2, 18.2
		p.MethodAdjustments = Adjustments{Sunrise: -3, Dhuhr: 3, Asr: 3, Maghrib: 3}
	case MoonsightingCommittee:
		p.FajrAngle, p.IshaAngle = 18, 18
		p.MethodAdjustments = Adjustments{Dhuhr: 5, Maghrib: 3}
	case NorthAmerica:
		p.FajrAngle, p.IshaAngle = 15, 15
		p.MethodAdjustments.Dhuhr = 1
	case Kuwait:
		p.FajrAngle, p.IshaAngle = 18, 17.5
	case Qatar:
		p.FajrAngle, p.IshaInterval = 18, 90
	case Singapore:
		p.FajrAngle, p.IshaAngle = 20, 18
		p.MethodAdjustments.Dhuhr = 1
		p.Rounding = RoundUp
	case Turkey:
		p.FajrAngle, p.IshaAngle = 18, 17
		p.MethodAdjustments = Adjustments{Sunrise: -7, Dhuhr: 5, Asr: 4, Maghrib: 7}
	case Other:
		p.FajrAngle, p.IshaAngle = 18, 17
	default:
		p.Method = Other
		p.FajrAngle, p.IshaAngle = 18, 17
	}

	return p
}

const angleTolerance = 0.01

// DetectMethod returns the preset whose angles, interval and built-in
// adjustments match p, or Other.
func DetectMethod(p CalculationParameters) Method {
	for _, m := range Methods {
		if m == Other {
			continue
		}
		preset := m.Parameters()
		if math.Abs(preset.FajrAngle-p.FajrAngle) > angleTolerance {
			continue
		}
		if preset.IshaInterval != p.IshaInterval {
			continue
		}
		if p.IshaInterval == 0 && math.Abs(preset.IshaAngle-p.IshaAngle) > angleTolerance {
			continue
		}
		if preset.MethodAdjustments != p.MethodAdjustments {
			continue
		}
		return m
	}
	return Other
}
