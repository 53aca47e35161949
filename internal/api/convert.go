package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/smokyabdulrahman/prayer-times/internal/hijri"
	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
)

const (
	dateLayout  = "02-01-2006"
	clockLayout = "15:04"
)

// NewData renders a computed day in the Al Adhan shape. Clock times are
// printed in loc.
func NewData(day prayer.Day, coords prayer.Coordinates, params prayer.CalculationParameters,
	loc *time.Location, hijriAdjust int) Data {
	t := day.Times
	clock := func(at time.Time) string { return at.In(loc).Format(clockLayout) }

	date := time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(), 0, 0, 0, 0, loc)

	return Data{
		Timings: Timings{
			Fajr:      clock(t.Fajr),
			Sunrise:   clock(t.Sunrise),
			Dhuhr:     clock(t.Dhuhr),
			Asr:       clock(t.Asr),
			Sunset:    clock(t.Maghrib),
			Maghrib:   clock(t.Maghrib),
			Isha:      clock(t.Isha),
			Midnight:  clock(day.Sunnah.MiddleOfTheNight),
			Lastthird: clock(day.Sunnah.LastThirdOfTheNight),
		},
		Date: DateInfo{
			Readable:  date.Format("02 Jan 2006"),
			Timestamp: strconv.FormatInt(date.Unix(), 10),
			Hijri:     NewHijriDate(hijri.Convert(hijriAdjust, date)),
			Gregorian: NewGregorianDate(date),
		},
		Meta: NewMeta(coords, params, loc),
	}
}

// NewMeta describes params the way Al Adhan reports them.
func NewMeta(coords prayer.Coordinates, params prayer.CalculationParameters, loc *time.Location) Meta {
	school := "STANDARD"
	if params.Madhab == prayer.Hanafi {
		school = "HANAFI"
	}
	a := params.Adjustments
	return Meta{
		Latitude:                 coords.Latitude,
		Longitude:                coords.Longitude,
		Timezone:                 loc.String(),
		Method:                   NewMethodInfo(params.Method, params),
		LatitudeAdjustmentMethod: latitudeAdjustmentName(params.HighLatitudeRule),
		MidnightMode:             "STANDARD",
		School:                   school,
		Offset: Offsets{
			Fajr: a.Fajr, Sunrise: a.Sunrise, Dhuhr: a.Dhuhr,
			Asr: a.Asr, Maghrib: a.Maghrib, Isha: a.Isha,
		},
	}
}

// NewMethodInfo describes m with the twilight values of params.
func NewMethodInfo(m prayer.Method, params prayer.CalculationParameters) MethodInfo {
	var isha any = params.IshaAngle
	if params.IshaInterval > 0 {
		isha = fmt.Sprintf("%d min", params.IshaInterval)
	}
	return MethodInfo{
		ID:     m.AladhanID(),
		Name:   m.Description(),
		Params: MethodParams{Fajr: params.FajrAngle, Isha: isha},
	}
}

// NewHijriDate renders a Hijri date.
func NewHijriDate(h hijri.Date) HijriDate {
	return HijriDate{
		Date:    h.Numeric(),
		Day:     strconv.Itoa(h.Day),
		Weekday: HijriWeekday{En: h.WeekdayName()},
		Month: HijriMonth{
			Number: h.Month + 1,
			En:     h.MonthName(),
			Ar:     h.MonthNameArabic(),
		},
		Year: strconv.Itoa(h.Year),
		Designation: HijriDesignation{
			Abbreviated: "AH",
			Expanded:    "Anno Hegirae",
		},
	}
}

// NewGregorianDate renders t's calendar date.
func NewGregorianDate(t time.Time) GregorianDate {
	return GregorianDate{
		Date:    t.Format(dateLayout),
		Day:     t.Format("02"),
		Weekday: GregorianDay{En: t.Weekday().String()},
		Month:   GregorianMonth{Number: int(t.Month()), En: t.Month().String()},
		Year:    strconv.Itoa(t.Year()),
	}
}

func latitudeAdjustmentName(r prayer.HighLatitudeRule) string {
	switch r {
	case prayer.SeventhOfTheNight:
		return "ONE_SEVENTH"
	case prayer.TwilightAngle:
		return "ANGLE_BASED"
	default:
		return "MIDDLE_OF_THE_NIGHT"
	}
}

// parseLatitudeAdjustment accepts the Al Adhan numbers 1..3 as well as rule
// names.
func parseLatitudeAdjustment(s string) (prayer.HighLatitudeRule, error) {
	switch s {
	case "1":
		return prayer.MiddleOfTheNight, nil
	case "2":
		return prayer.SeventhOfTheNight, nil
	case "3":
		return prayer.TwilightAngle, nil
	}
	return prayer.ParseHighLatitudeRule(s)
}
