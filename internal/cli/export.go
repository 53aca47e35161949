package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-times/internal/display"
	"github.com/smokyabdulrahman/prayer-times/internal/store"
)

var (
	flagExportYear   int
	flagExportDB     string
	flagExportList   bool
	flagExportDelete string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Precompute a year of prayer times into the SQLite store",
		Long: "Compute every day of a year for the resolved location and parameters and\n" +
			"save it to the timetable database used by 'serve'.\n\n" +
			"Use --list to show stored timetables and --delete <key> to remove one.",
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().IntVar(&flagExportYear, "year", 0, "Year to export (default: current year)")
	cmd.Flags().StringVar(&flagExportDB, "db", "", "SQLite database path (default: ~/.local/share/prayer-times/timetable.db)")
	cmd.Flags().BoolVar(&flagExportList, "list", false, "List stored timetables")
	cmd.Flags().StringVar(&flagExportDelete, "delete", "", "Delete the timetable with this key")
	cmd.MarkFlagsMutuallyExclusive("list", "delete", "year")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore(flagExportDB)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	switch {
	case flagExportList:
		return listTimetables(cmd, st)
	case flagExportDelete != "":
		if err := st.Delete(ctx, flagExportDelete); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no timetable with key %q", flagExportDelete)
			}
			return err
		}
		fmt.Fprintf(w, "Deleted timetable %s\n", flagExportDelete)
		return nil
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	year := flagExportYear
	if year == 0 {
		year = s.now.Year()
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("invalid --year %d", year)
	}

	start := time.Now()
	days, err := s.calc.Yearly(ctx, year)
	if err != nil {
		return err
	}

	tt := store.NewTimetable(s.calc.Coordinates(), s.calc.Parameters())
	if err := st.SaveDays(ctx, tt, days); err != nil {
		return err
	}
	log.Info().
		Str("key", tt.Key).
		Int("year", year).
		Int("days", len(days)).
		Dur("took", time.Since(start)).
		Msg("timetable exported")

	if FlagJSON {
		return writeJSON(w, exportJSON{Key: tt.Key, Year: year, Days: len(days), Location: s.jsonLocation(), Method: tt.Method, Madhab: tt.Madhab})
	}
	fmt.Fprintf(w, "Saved %d days of %d for %s (%s, %s) as %s\n",
		len(days), year, s.place.Label(), tt.Method, tt.Madhab, display.Bold(tt.Key))
	return nil
}

type exportJSON struct {
	Key      string            `json:"key"`
	Year     int               `json:"year"`
	Days     int               `json:"days"`
	Location todayJSONLocation `json:"location"`
	Method   string            `json:"method"`
	Madhab   string            `json:"madhab"`
}

type timetableJSON struct {
	Key       string  `json:"key"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Method    string  `json:"method"`
	Madhab    string  `json:"madhab"`
	Days      int     `json:"days"`
	First     string  `json:"first,omitempty"`
	Last      string  `json:"last,omitempty"`
}

func listTimetables(cmd *cobra.Command, st *store.Store) error {
	summaries, err := st.Timetables(commandContext(cmd))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if FlagJSON {
		out := make([]timetableJSON, 0, len(summaries))
		for _, sm := range summaries {
			out = append(out, timetableJSON{
				Key:       sm.Key,
				Latitude:  sm.Latitude,
				Longitude: sm.Longitude,
				Method:    sm.Method,
				Madhab:    sm.Madhab,
				Days:      sm.Days,
				First:     formatStoredDate(sm.First),
				Last:      formatStoredDate(sm.Last),
			})
		}
		return writeJSON(w, out)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(w, "No stored timetables.")
		return nil
	}

	tbl := display.NewTable([]string{"Key", "Location", "Method", "Madhab", "Days", "From", "To"})
	for _, sm := range summaries {
		tbl.AddRow([]string{
			sm.Key,
			fmt.Sprintf("%.4f, %.4f", sm.Latitude, sm.Longitude),
			sm.Method,
			sm.Madhab,
			strconv.Itoa(sm.Days),
			formatStoredDate(sm.First),
			formatStoredDate(sm.Last),
		})
	}
	fmt.Fprint(w, tbl.Render())
	return nil
}

func formatStoredDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
