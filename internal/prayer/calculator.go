package prayer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Day is everything computed for one calendar date.
type Day struct {
	Date   time.Time   `json:"date"`
	Times  PrayerTimes `json:"times"`
	Sunnah SunnahTimes `json:"sunnah"`
	Events []Prayer    `json:"events"`
}

// Calculator computes days for a fixed location and parameter set.
type Calculator struct {
	coords Coordinates
	params CalculationParameters
	log    zerolog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger used for per-day diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Calculator) {
		c.log = l
	}
}

// NewCalculator validates coords and returns a Calculator.
func NewCalculator(coords Coordinates, params CalculationParameters, opts ...Option) (*Calculator, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}

	c := &Calculator{
		coords: coords,
		params: params,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().
		Str("component", "calculator").
		Str("method", params.Method.String()).
		Str("coords", coords.String()).
		Logger()
	return c, nil
}

// Coordinates returns the location the calculator was built for.
func (c *Calculator) Coordinates() Coordinates { return c.coords }

// Parameters returns a copy of the calculation parameters.
func (c *Calculator) Parameters() CalculationParameters { return c.params }

// Daily computes the prayer times and night markers for date's calendar day.
func (c *Calculator) Daily(date time.Time) (Day, error) {
	today, rep, err := compute(c.coords, date, c.params)
	if err != nil {
		c.log.Debug().Err(err).Time("date", civilDay(date)).Msg("day not computable")
		return Day{}, err
	}
	tomorrow, _, err := compute(c.coords, today.Date.AddDate(0, 0, 1), c.params)
	if err != nil {
		c.log.Debug().Err(err).Time("date", today.Date).Msg("following day not computable")
		return Day{}, err
	}

	if rep.fajrFallback || rep.ishaFallback {
		c.log.Debug().
			Str("date", today.Date.Format("2006-01-02")).
			Bool("fajr", rep.fajrFallback).
			Bool("isha", rep.ishaFallback).
			Str("rule", c.params.HighLatitudeRule.String()).
			Msg("high latitude bound applied")
	}

	sunnah := sunnahBetween(today, tomorrow)
	return Day{
		Date:   today.Date,
		Times:  today,
		Sunnah: sunnah,
		Events: NewEvents(today, sunnah),
	}, nil
}

// Range computes every day from from to to inclusive, in order.
func (c *Calculator) Range(from, to time.Time) ([]Day, error) {
	start, end := civilDay(from), civilDay(to)
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	n := int(end.Sub(start).Hours()/24) + 1
	days := make([]Day, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day, err := c.Daily(d)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// Monthly computes every day of a month.
func (c *Calculator) Monthly(year int, month time.Month) ([]Day, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return c.Range(first, last)
}

// Yearly computes every day of a year. Months are computed concurrently and
// reassembled in calendar order.
func (c *Calculator) Yearly(ctx context.Context, year int) ([]Day, error) {
	months := make([][]Day, 12)

	g, ctx := errgroup.WithContext(ctx)
	for i := range months {
		i := i
		month := time.Month(i + 1)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			days, err := c.Monthly(year, month)
			if err != nil {
				return fmt.Errorf("%s %d: %w", month, year, err)
			}
			months[i] = days
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var days []Day
	for _, m := range months {
		days = append(days, m...)
	}
	c.log.Debug().Int("year", year).Int("days", len(days)).Msg("year computed")
	return days, nil
}
