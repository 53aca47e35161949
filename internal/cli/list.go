package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-times/internal/display"
)

const maxListDays = 366

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// parseDays reads a positive day count, also accepting "week" and "month".
func parseDays(s string) (int, error) {
	switch s {
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number of days: %q (must be a positive integer, 'week', or 'month')", s)
	}
	if n > maxListDays {
		return 0, fmt.Errorf("invalid number of days: %d (at most %d)", n, maxListDays)
	}
	return n, nil
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	n := defaultDays
	if len(args) > 0 {
		var err error
		if n, err = parseDays(args[0]); err != nil {
			return err
		}
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	days, err := s.days(n)
	if err != nil {
		return err
	}

	if FlagJSON {
		return printListJSON(cmd.OutOrStdout(), s, days)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Boldf("Prayer Times, %d Days", n))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.place.Label())
	fmt.Fprintf(w, "  %s\n", display.Gray(s.place.Timezone))
	fmt.Fprintln(w)

	headers := append([]string{"Date"}, s.names...)
	tbl := display.NewTable(headers)
	for i, d := range days {
		row := []string{d.Date.Format("Mon 02 Jan")}
		for _, p := range d.Prayers {
			row = append(row, p.Time.Format(s.layout))
		}
		tbl.AddRow(row)

		// Highlight today's row.
		if s.isToday(d.Date) {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	return nil
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date    string            `json:"date"`
	Hijri   string            `json:"hijri"`
	Timings map[string]string `json:"timings"`
}

func printListJSON(w io.Writer, s *session, days []listedDay) error {
	out := listJSONOutput{
		Location: s.jsonLocation(),
		Days:     make([]listJSONDay, 0, len(days)),
	}

	for _, d := range days {
		timings := make(map[string]string, len(d.Prayers))
		for _, p := range d.Prayers {
			timings[strings.ToLower(p.Name)] = p.Time.Format(s.layout)
		}
		out.Days = append(out.Days, listJSONDay{
			Date:    d.Date.Format("02 Jan 2006"),
			Hijri:   d.Hijri.Format(),
			Timings: timings,
		})
	}

	return writeJSON(w, out)
}
