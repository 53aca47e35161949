package cli

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smokyabdulrahman/prayer-times/internal/api"
)

func TestExport_SaveListDelete(t *testing.T) {
	dir := isolate(t)
	torontoNoon(t)
	db := filepath.Join(dir, "tt.db")

	out, err := run(t, withToronto("export", "--year", "2024", "--db", db, "--json")...)
	if err != nil {
		t.Fatal(err)
	}
	var saved exportJSON
	if err := json.Unmarshal([]byte(out), &saved); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if saved.Days != 366 || saved.Year != 2024 || len(saved.Key) != 16 {
		t.Fatalf("export = %+v", saved)
	}

	out, err = run(t, "export", "--list", "--json", "--db", db)
	if err != nil {
		t.Fatal(err)
	}
	var list []timetableJSON
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(list) != 1 {
		t.Fatalf("got %d timetables, want 1", len(list))
	}
	tt := list[0]
	if tt.Key != saved.Key || tt.Days != 366 || tt.First != "2024-01-01" || tt.Last != "2024-12-31" {
		t.Errorf("timetable = %+v", tt)
	}
	if tt.Method != "MuslimWorldLeague" {
		t.Errorf("method = %q", tt.Method)
	}

	out, err = run(t, "export", "--delete", saved.Key, "--db", db)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, saved.Key) {
		t.Errorf("delete output = %q", out)
	}

	out, err = run(t, "export", "--list", "--db", db)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No stored timetables") {
		t.Errorf("list after delete = %q", out)
	}

	if _, err := run(t, "export", "--delete", saved.Key, "--db", db); err == nil {
		t.Error("expected error deleting a missing timetable")
	}
}

func TestExport_DefaultDBPath(t *testing.T) {
	isolate(t)
	torontoNoon(t)

	if _, err := run(t, withToronto("export")...); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "export", "--list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "MuslimWorldLeague") || !strings.Contains(out, "2024-01-01") {
		t.Errorf("list = %q", out)
	}
}

// ---------------------------------------------------------------------------
// compare
// ---------------------------------------------------------------------------

// localAPI serves this program's own API, which must agree with the CLI.
func localAPI(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(api.NewServer().Routes())
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func TestCompare_AgainstLocalServer(t *testing.T) {
	isolate(t)
	torontoNoon(t)

	out, err := run(t, withToronto("compare", "--days", "3", "--base-url", localAPI(t), "--json")...)
	if err != nil {
		t.Fatal(err)
	}
	var got compareJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Worst != 0 {
		t.Errorf("worst = %d, want 0", got.Worst)
	}
	if len(got.Days) != 3 || got.Days[0].Date != "2024-03-11" {
		t.Fatalf("days = %+v", got.Days)
	}
	if got.Days[0].Remote["Fajr"] != "06:00" || got.Days[0].Local["Isha"] != "20:50" {
		t.Errorf("first day = %+v", got.Days[0])
	}

	out, err = run(t, withToronto("compare", "--base-url", localAPI(t))...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "All times within 2 min (worst 0 min)") {
		t.Errorf("table summary missing:\n%s", out)
	}
}

func TestCompare_ReportsDifferences(t *testing.T) {
	isolate(t)
	torontoNoon(t)
	t.Setenv("PRAYER_TIMES_ADJUSTMENTS_FAJR", "5")

	out, err := run(t, withToronto("compare", "--base-url", localAPI(t))...)
	if err == nil || !strings.Contains(err.Error(), "differ by more than 2 min") {
		t.Fatalf("err = %v, want difference error", err)
	}
	if !strings.Contains(out, "+5 !") {
		t.Errorf("table missing flagged fajr delta:\n%s", out)
	}
}

func TestCompare_RejectsCustomMethod(t *testing.T) {
	isolate(t)
	torontoNoon(t)

	_, err := run(t, "compare", "--latitude", "43.6532", "--longitude=-79.3832",
		"--timezone", "America/Toronto", "--method", "other", "--base-url", localAPI(t))
	if err == nil || !strings.Contains(err.Error(), "preset method") {
		t.Errorf("err = %v", err)
	}
}
