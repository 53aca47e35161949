package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-times/internal/display"
	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long: "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: " +
			strings.Join(prayer.AllPrayerNames, ", "),
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	names, err := prayer.ParsePrayerNames(args[0])
	if err != nil || len(names) != 1 {
		return fmt.Errorf("unknown prayer %q; valid names: %s", args[0], strings.Join(prayer.AllPrayerNames, ", "))
	}
	prayerName := names[0]

	days := 1
	if flagQueryDays != "" {
		if days, err = parseDays(flagQueryDays); err != nil {
			return fmt.Errorf("invalid --days value: %w", err)
		}
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	s.names = names

	list, err := s.days(days)
	if err != nil {
		return err
	}

	if days == 1 {
		return printQuerySingle(cmd.OutOrStdout(), s, prayerName, list[0])
	}

	if FlagJSON {
		return printQueryJSON(cmd.OutOrStdout(), s, prayerName, list)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("%s Times, %d Days", prayerName, days)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.place.Label())
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Date", "Hijri", prayerName})
	for i, d := range list {
		tbl.AddRow([]string{d.Date.Format("Mon 02 Jan"), d.Hijri.Format(), queryTime(s, d)})
		if s.isToday(d.Date) {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}

// queryTime formats the single tracked event of d, empty when missing.
func queryTime(s *session, d listedDay) string {
	if len(d.Prayers) == 0 {
		return ""
	}
	return d.Prayers[0].Time.Format(s.layout)
}

func printQuerySingle(w io.Writer, s *session, prayerName string, d listedDay) error {
	if len(d.Prayers) == 0 {
		return fmt.Errorf("no timing found for %s", prayerName)
	}
	timeStr := queryTime(s, d)

	if FlagJSON {
		return writeJSON(w, queryJSONSingle{
			Prayer: strings.ToLower(prayerName),
			Time:   timeStr,
			Date:   d.Date.Format("02 Jan 2006"),
			Hijri:  d.Hijri.Format(),
		})
	}

	fmt.Fprintf(w, "%s %s\n", prayerName, timeStr)
	return nil
}

type queryJSONSingle struct {
	Prayer string `json:"prayer"`
	Time   string `json:"time"`
	Date   string `json:"date"`
	Hijri  string `json:"hijri"`
}

type queryJSONMulti struct {
	Location todayJSONLocation `json:"location"`
	Prayer   string            `json:"prayer"`
	Days     []queryJSONDay    `json:"days"`
}

type queryJSONDay struct {
	Date  string `json:"date"`
	Hijri string `json:"hijri"`
	Time  string `json:"time"`
}

func printQueryJSON(w io.Writer, s *session, prayerName string, list []listedDay) error {
	out := queryJSONMulti{
		Location: s.jsonLocation(),
		Prayer:   strings.ToLower(prayerName),
		Days:     make([]queryJSONDay, 0, len(list)),
	}
	for _, d := range list {
		out.Days = append(out.Days, queryJSONDay{
			Date:  d.Date.Format("02 Jan 2006"),
			Hijri: d.Hijri.Format(),
			Time:  queryTime(s, d),
		})
	}
	return writeJSON(w, out)
}
