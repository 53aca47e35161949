// Package store persists computed timetables in SQLite so they can be
// exported, served again without recomputation, or read by other tools.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/prayer-times/internal/prayer"

	_ "modernc.org/sqlite" // SQLite driver.
)

const dateLayout = "2006-01-02"

// ErrNotFound is returned when a timetable key has no rows.
var ErrNotFound = errors.New("timetable not found")

// Store wraps SQLite access for timetables.
type Store struct {
	db *sql.DB
}

// Timetable identifies one location and parameter set.
type Timetable struct {
	Key       string
	Latitude  float64
	Longitude float64
	Method    string
	Madhab    string
	CreatedAt time.Time
}

// Summary describes a stored timetable and the span of days it holds.
type Summary struct {
	Timetable
	Days  int
	First time.Time
	Last  time.Time
}

// Key builds a deterministic hash from everything that affects the times, so
// different locations or parameter sets never share rows.
func Key(coords prayer.Coordinates, p prayer.CalculationParameters) string {
	raw := fmt.Sprintf("%.6f|%.6f|%s|%g|%g|%d|%d|%d|%d|%d|%+v|%+v",
		coords.Latitude, coords.Longitude,
		p.Method, p.FajrAngle, p.IshaAngle, p.IshaInterval,
		p.Madhab, p.HighLatitudeRule, p.Shafaq, p.Rounding,
		p.Adjustments, p.MethodAdjustments)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8]) // 16 hex chars is plenty for uniqueness
}

// NewTimetable describes the timetable for coords and p.
func NewTimetable(coords prayer.Coordinates, p prayer.CalculationParameters) Timetable {
	return Timetable{
		Key:       Key(coords, p),
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Method:    p.Method.String(),
		Madhab:    p.Madhab.String(),
	}
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data directory %s: %w", dir, err)
	}
	// The pragma is per connection; the DSN applies it to every pooled one.
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS timetables (
			key TEXT PRIMARY KEY,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			method TEXT NOT NULL,
			madhab TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS days (
			key TEXT NOT NULL REFERENCES timetables(key) ON DELETE CASCADE,
			date TEXT NOT NULL,
			fajr INTEGER NOT NULL,
			sunrise INTEGER NOT NULL,
			dhuhr INTEGER NOT NULL,
			asr INTEGER NOT NULL,
			maghrib INTEGER NOT NULL,
			isha INTEGER NOT NULL,
			midnight INTEGER NOT NULL,
			last_third INTEGER NOT NULL,
			PRIMARY KEY (key, date)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveDays stores days under tt, replacing any rows already held for the
// same dates.
func (s *Store) SaveDays(ctx context.Context, tt Timetable, days []prayer.Day) (err error) {
	if tt.CreatedAt.IsZero() {
		tt.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO timetables (key, latitude, longitude, method, madhab, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO NOTHING`,
		tt.Key, tt.Latitude, tt.Longitude, tt.Method, tt.Madhab,
		tt.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save timetable %s: %w", tt.Key, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO days (key, date, fajr, sunrise, dhuhr, asr, maghrib, isha, midnight, last_third)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range days {
		t := d.Times
		_, err = stmt.ExecContext(ctx, tt.Key, d.Date.Format(dateLayout),
			t.Fajr.Unix(), t.Sunrise.Unix(), t.Dhuhr.Unix(), t.Asr.Unix(),
			t.Maghrib.Unix(), t.Isha.Unix(),
			d.Sunnah.MiddleOfTheNight.Unix(), d.Sunnah.LastThirdOfTheNight.Unix())
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", d.Date.Format(dateLayout), err)
		}
	}

	return tx.Commit()
}

// LoadDays returns the stored days of key between from and to inclusive, in
// date order. Missing dates are simply absent from the result.
func (s *Store) LoadDays(ctx context.Context, key string, from, to time.Time) ([]prayer.Day, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, fajr, sunrise, dhuhr, asr, maghrib, isha, midnight, last_third
		 FROM days
		 WHERE key = ? AND date >= ? AND date <= ?
		 ORDER BY date`,
		key, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []prayer.Day
	for rows.Next() {
		var (
			date                               string
			fajr, sunrise, dhuhr, asr, maghrib int64
			isha, midnight, lastThird          int64
		)
		if err := rows.Scan(&date, &fajr, &sunrise, &dhuhr, &asr, &maghrib, &isha, &midnight, &lastThird); err != nil {
			return nil, err
		}
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("corrupt date %q in %s: %w", date, key, err)
		}

		times := prayer.PrayerTimes{
			Date:    d,
			Fajr:    unix(fajr),
			Sunrise: unix(sunrise),
			Dhuhr:   unix(dhuhr),
			Asr:     unix(asr),
			Maghrib: unix(maghrib),
			Isha:    unix(isha),
		}
		sunnah := prayer.SunnahTimes{
			MiddleOfTheNight:    unix(midnight),
			LastThirdOfTheNight: unix(lastThird),
		}
		days = append(days, prayer.Day{
			Date:   d,
			Times:  times,
			Sunnah: sunnah,
			Events: prayer.NewEvents(times, sunnah),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

// Timetables lists every stored timetable with its day count and span.
func (s *Store) Timetables(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.key, t.latitude, t.longitude, t.method, t.madhab, t.created_at,
		        COUNT(d.date), COALESCE(MIN(d.date), ''), COALESCE(MAX(d.date), '')
		 FROM timetables t
		 LEFT JOIN days d ON d.key = t.key
		 GROUP BY t.key
		 ORDER BY t.created_at, t.key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum                  Summary
			created, first, last string
		)
		if err := rows.Scan(&sum.Key, &sum.Latitude, &sum.Longitude, &sum.Method, &sum.Madhab,
			&created, &sum.Days, &first, &last); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("corrupt created_at %q in %s: %w", created, sum.Key, err)
		}
		if sum.Days > 0 {
			if sum.First, err = time.Parse(dateLayout, first); err != nil {
				return nil, fmt.Errorf("corrupt date %q in %s: %w", first, sum.Key, err)
			}
			if sum.Last, err = time.Parse(dateLayout, last); err != nil {
				return nil, fmt.Errorf("corrupt date %q in %s: %w", last, sum.Key, err)
			}
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a timetable and all of its days.
func (s *Store) Delete(ctx context.Context, key string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Days go first so nothing is orphaned even where the cascade is off.
	if _, err = tx.ExecContext(ctx, `DELETE FROM days WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete days of %s: %w", key, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM timetables WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete timetable %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = fmt.Errorf("%s: %w", key, ErrNotFound)
		return err
	}
	return tx.Commit()
}

func unix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
