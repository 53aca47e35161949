package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-times/internal/cache"
	"github.com/smokyabdulrahman/prayer-times/internal/config"
	"github.com/smokyabdulrahman/prayer-times/internal/geo"
	"github.com/smokyabdulrahman/prayer-times/internal/hijri"
	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
)

// session is everything a command needs to compute and print times for the
// resolved location.
type session struct {
	cfg    config.Config
	place  geo.Location
	tz     *time.Location
	calc   *prayer.Calculator
	names  []string
	layout string
	now    time.Time
}

// newSession resolves the location, timezone and parameters from the merged
// config. Location priority: configured coordinates > cached geolocation >
// IP auto-detect.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg := effectiveConfig()

	place, err := resolveLocation(commandContext(cmd), cfg)
	if err != nil {
		return nil, err
	}

	tzName := cfg.Timezone
	if tzName == "" {
		tzName = place.Timezone
	}
	tz := time.Local
	if tzName != "" {
		if tz, err = time.LoadLocation(tzName); err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tzName, err)
		}
	}
	place.Timezone = tz.String()

	coords := place.Coordinates()
	if cfg.UnknownMethod() {
		log.Warn().Str("method", cfg.Method).Msg("unknown method, using Other")
	}
	params, err := cfg.Parameters(coords)
	if err != nil {
		return nil, err
	}
	calc, err := prayer.NewCalculator(coords, params, prayer.WithLogger(log))
	if err != nil {
		return nil, err
	}

	names, err := cfg.PrayerNames()
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("location", place.Label()).
		Str("timezone", place.Timezone).
		Str("method", params.Method.String()).
		Str("madhab", params.Madhab.String()).
		Str("high_latitude_rule", params.HighLatitudeRule.String()).
		Msg("session resolved")

	return &session{
		cfg:    cfg,
		place:  place,
		tz:     tz,
		calc:   calc,
		names:  names,
		layout: cfg.TimeLayout(),
		now:    nowFunc().In(tz),
	}, nil
}

// resolveLocation picks the observer position.
func resolveLocation(ctx context.Context, cfg config.Config) (geo.Location, error) {
	if cfg.HasCoordinates() {
		return geo.Location{
			Latitude:  cfg.Latitude,
			Longitude: cfg.Longitude,
			City:      cfg.City,
			Country:   cfg.Country,
		}, nil
	}
	if cfg.City != "" {
		return geo.Location{}, fmt.Errorf("--city %q needs --latitude and --longitude; city names are labels only", cfg.City)
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip caching.
		log.Warn().Err(err).Msg("cache disabled")
		c = nil
	}
	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			log.Debug().Str("location", cached.Label()).Msg("using cached geolocation")
			return *cached, nil
		}
	}

	detected, err := geo.DetectLocation(ctx)
	if err != nil {
		return geo.Location{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	if c != nil {
		if err := c.SaveGeo(detected); err != nil {
			log.Warn().Err(err).Msg("failed to cache geolocation")
		}
	}
	return *detected, nil
}

// day computes date's calendar day in the session timezone and returns it
// with the tracked events converted to that timezone.
func (s *session) day(date time.Time) (prayer.Day, []prayer.Prayer, error) {
	day, err := s.calc.Daily(date.In(s.tz))
	if err != nil {
		return prayer.Day{}, nil, fmt.Errorf("%s: %w", date.In(s.tz).Format("2006-01-02"), err)
	}
	events, err := prayer.Select(day.Events, s.names)
	if err != nil {
		return prayer.Day{}, nil, err
	}
	return day, prayer.InLocation(events, s.tz), nil
}

// next returns the next tracked event after now, rolling over to the
// following day when every event of today has passed.
func (s *session) next(today []prayer.Prayer) (*prayer.Prayer, error) {
	if next := prayer.NextPrayer(today, s.now); next != nil {
		return next, nil
	}
	_, tomorrow, err := s.day(s.now.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if next := prayer.NextPrayer(tomorrow, s.now); next != nil {
		return next, nil
	}
	return nil, fmt.Errorf("could not determine next prayer")
}

// hijriDate returns today's Hijri date with the configured day adjustment.
func (s *session) hijriDate() hijri.Date {
	return hijri.Convert(s.cfg.HijriAdjustment, s.now)
}

// listedDay is one calendar day with its tracked events in the session
// timezone.
type listedDay struct {
	Date    time.Time
	Hijri   hijri.Date
	Prayers []prayer.Prayer
}

// days computes n consecutive days starting today.
func (s *session) days(n int) ([]listedDay, error) {
	computed, err := s.calc.Range(s.now, s.now.AddDate(0, 0, n-1))
	if err != nil {
		return nil, err
	}

	out := make([]listedDay, 0, len(computed))
	for _, d := range computed {
		events, err := prayer.Select(d.Events, s.names)
		if err != nil {
			return nil, err
		}
		y, m, dd := d.Date.Date()
		out = append(out, listedDay{
			Date:    time.Date(y, m, dd, 0, 0, 0, 0, s.tz),
			Hijri:   hijri.Convert(s.cfg.HijriAdjustment, d.Date),
			Prayers: prayer.InLocation(events, s.tz),
		})
	}
	return out, nil
}

// isToday reports whether date falls on the session's current day.
func (s *session) isToday(date time.Time) bool {
	return sameDay(date, s.now)
}

func (s *session) jsonLocation() todayJSONLocation {
	return todayJSONLocation{
		City:      s.place.City,
		Country:   s.place.Country,
		Timezone:  s.place.Timezone,
		Latitude:  s.place.Latitude,
		Longitude: s.place.Longitude,
	}
}
