package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
)

var makkah = prayer.Coordinates{Latitude: 21.4225241, Longitude: 39.8261818}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "timetable.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func computeMonth(t *testing.T, coords prayer.Coordinates, params prayer.CalculationParameters) []prayer.Day {
	t.Helper()
	calc, err := prayer.NewCalculator(coords, params)
	require.NoError(t, err)
	days, err := calc.Monthly(2024, time.March)
	require.NoError(t, err)
	return days
}

func TestKeyDistinguishesParameters(t *testing.T) {
	mwl := prayer.NewParameters(prayer.MuslimWorldLeague)

	base := Key(makkah, mwl)
	assert.Len(t, base, 16)
	assert.Equal(t, base, Key(makkah, mwl), "key must be deterministic")

	assert.NotEqual(t, base, Key(makkah, prayer.NewParameters(prayer.UmmAlQura)))
	assert.NotEqual(t, base, Key(makkah, mwl.WithMadhab(prayer.Hanafi)))
	assert.NotEqual(t, base, Key(makkah, mwl.WithAdjustments(prayer.Adjustments{Fajr: 2})))
	assert.NotEqual(t, base, Key(prayer.Coordinates{Latitude: 21.5, Longitude: 39.8}, mwl))
}

func TestSaveAndLoadDays(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	params := prayer.NewParameters(prayer.UmmAlQura)
	days := computeMonth(t, makkah, params)
	tt := NewTimetable(makkah, params)

	require.NoError(t, s.SaveDays(ctx, tt, days))

	got, err := s.LoadDays(ctx, tt.Key,
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, d := range got {
		want := days[9+i]
		assert.Equal(t, want.Date, d.Date)
		assert.True(t, want.Times.Fajr.Equal(d.Times.Fajr), "fajr %s", d.Date)
		assert.True(t, want.Times.Isha.Equal(d.Times.Isha), "isha %s", d.Date)
		assert.True(t, want.Sunnah.LastThirdOfTheNight.Equal(d.Sunnah.LastThirdOfTheNight))
		require.Len(t, d.Events, len(prayer.AllPrayerNames))
		assert.Equal(t, prayer.Fajr, d.Events[0].Name)
	}
}

func TestSaveDaysReplacesExistingDates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	params := prayer.NewParameters(prayer.MuslimWorldLeague)
	days := computeMonth(t, makkah, params)
	tt := NewTimetable(makkah, params)

	require.NoError(t, s.SaveDays(ctx, tt, days[:5]))
	require.NoError(t, s.SaveDays(ctx, tt, days[3:10]))

	sums, err := s.Timetables(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 10, sums[0].Days)
	assert.Equal(t, "MuslimWorldLeague", sums[0].Method)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), sums[0].First)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), sums[0].Last)
}

func TestLoadDaysUnknownKey(t *testing.T) {
	s := openTestStore(t)

	got, err := s.LoadDays(context.Background(), "missing",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	params := prayer.NewParameters(prayer.MuslimWorldLeague)
	tt := NewTimetable(makkah, params)
	require.NoError(t, s.SaveDays(ctx, tt, computeMonth(t, makkah, params)))

	require.NoError(t, s.Delete(ctx, tt.Key))

	sums, err := s.Timetables(ctx)
	require.NoError(t, err)
	assert.Empty(t, sums)

	err = s.Delete(ctx, tt.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timetable.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	params := prayer.NewParameters(prayer.MuslimWorldLeague)
	tt := NewTimetable(makkah, params)
	require.NoError(t, s.SaveDays(ctx, tt, computeMonth(t, makkah, params)[:2]))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	sums, err := s.Timetables(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 2, sums[0].Days)
}

func TestDeleteRemovesDaysOnEveryConnection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	params := prayer.NewParameters(prayer.MuslimWorldLeague)
	tt := NewTimetable(makkah, params)
	require.NoError(t, s.SaveDays(ctx, tt, computeMonth(t, makkah, params)))

	// Pin one pooled connection so Delete has to run on another.
	held, err := s.db.Conn(ctx)
	require.NoError(t, err)
	defer held.Close()

	require.NoError(t, s.Delete(ctx, tt.Key))

	var orphans int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM days WHERE key = ?`, tt.Key).Scan(&orphans))
	assert.Zero(t, orphans)

	got, err := s.LoadDays(ctx, tt.Key,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, got)

	var fk int
	require.NoError(t, held.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys must be on for every connection")
}

func TestTimetablesCorruptCreatedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	params := prayer.NewParameters(prayer.MuslimWorldLeague)
	tt := NewTimetable(makkah, params)
	require.NoError(t, s.SaveDays(ctx, tt, computeMonth(t, makkah, params)[:1]))

	_, err := s.db.ExecContext(ctx, `UPDATE timetables SET created_at = 'yesterday' WHERE key = ?`, tt.Key)
	require.NoError(t, err)

	_, err = s.Timetables(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt created_at")
}

func TestTimetablesWithoutDays(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	params := prayer.NewParameters(prayer.MuslimWorldLeague)
	require.NoError(t, s.SaveDays(ctx, NewTimetable(makkah, params), nil))

	sums, err := s.Timetables(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Zero(t, sums[0].Days)
	assert.True(t, sums[0].First.IsZero())
	assert.False(t, sums[0].CreatedAt.IsZero())
}
