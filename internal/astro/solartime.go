package astro

import (
	"math"
	"time"
)

// SunriseAltitude is the apparent altitude of the sun's upper limb at
// sunrise and sunset, including standard refraction: -50 arcminutes.
const SunriseAltitude = -50.0 / 60.0

// SolarTime holds the solar events of one UTC calendar day for an observer.
// Transit, Sunrise and Sunset are hours after 00:00 UTC; Sunrise and Sunset
// are NaN when the sun does not cross the horizon that day.
type SolarTime struct {
	Observer      Coordinates
	Solar         SolarCoordinates
	PrevSolar     SolarCoordinates
	NextSolar     SolarCoordinates
	ApproxTransit float64
	Transit       float64
	Sunrise       float64
	Sunset        float64
}

// NewSolarTime computes the solar events on date's UTC calendar day.
func NewSolarTime(date time.Time, coords Coordinates) SolarTime {
	year, month, day := date.UTC().Date()
	jd := JulianDay(year, int(month), day, 0)

	st := SolarTime{
		Observer:  coords,
		Solar:     NewSolarCoordinates(jd),
		PrevSolar: NewSolarCoordinates(jd - 1),
		NextSolar: NewSolarCoordinates(jd + 1),
	}

	st.ApproxTransit = ApproximateTransit(coords.Longitude, st.Solar.ApparentSiderealTime, st.Solar.RightAscension)
	st.Transit = CorrectedTransit(st.ApproxTransit, coords.Longitude, st.Solar.ApparentSiderealTime,
		st.Solar.RightAscension, st.PrevSolar.RightAscension, st.NextSolar.RightAscension)
	st.Sunrise = st.HourAngle(SunriseAltitude, false)
	st.Sunset = st.HourAngle(SunriseAltitude, true)

	return st
}

// HourAngle returns the hours after 00:00 UTC at which the sun reaches
// altitude angle, in the morning or (afterTransit) the evening.
func (st SolarTime) HourAngle(angle float64, afterTransit bool) float64 {
	return CorrectedHourAngle(st.ApproxTransit, angle, st.Observer, afterTransit,
		st.Solar.ApparentSiderealTime,
		st.Solar.RightAscension, st.PrevSolar.RightAscension, st.NextSolar.RightAscension,
		st.Solar.Declination, st.PrevSolar.Declination, st.NextSolar.Declination)
}

// AfternoonAltitude returns the solar altitude at which an object's shadow
// is shadowRatio times its height plus its noon shadow.
func (st SolarTime) AfternoonAltitude(shadowRatio float64) float64 {
	tangent := math.Abs(st.Observer.Latitude - st.Solar.Declination)
	inverse := shadowRatio + math.Tan(DegreesToRadians(tangent))
	return RadiansToDegrees(math.Atan(1.0 / inverse))
}

// Afternoon returns the hours after 00:00 UTC at which the shadow ratio is
// reached after transit.
func (st SolarTime) Afternoon(shadowRatio float64) float64 {
	return st.HourAngle(st.AfternoonAltitude(shadowRatio), true)
}

// HoursToTime converts fractional hours after 00:00 UTC on date's calendar
// day into an instant truncated to the second. ok is false when hours is NaN
// or infinite.
func HoursToTime(date time.Time, hours float64) (t time.Time, ok bool) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return time.Time{}, false
	}

	h := math.Floor(hours)
	m := math.Floor((hours - h) * 60)
	s := math.Floor((hours - (h + m/60)) * 3600)

	year, month, day := date.UTC().Date()
	return time.Date(year, month, day, int(h), int(m), int(s), 0, time.UTC), true
}
