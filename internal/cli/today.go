package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-times/internal/display"
	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
)

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	_, prayers, err := s.day(s.now)
	if err != nil {
		return err
	}

	// Find current and next prayers.
	current := prayer.CurrentPrayer(prayers, s.now)
	next, err := s.next(prayers)
	if err != nil {
		return err
	}

	if FlagJSON {
		return printTodayJSON(cmd.OutOrStdout(), s, prayers, current, next)
	}

	printTodayRich(cmd.OutOrStdout(), s, prayers, current, next)
	return nil
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func printTodayRich(w io.Writer, s *session, prayers []prayer.Prayer, current, next *prayer.Prayer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintf(w, "  %s\n", display.Gray(strings.Repeat("─", min(max(display.Width()-4, 0), 36))))

	// Location and date info.
	fmt.Fprintf(w, "  %s\n", s.place.Label())
	fmt.Fprintf(w, "  %s\n", display.Gray(fmt.Sprintf("%s · %s", s.place.Timezone, s.calc.Parameters().Method.Description())))
	fmt.Fprintf(w, "  %s\n", s.now.Format("Monday, 02 Jan 2006"))
	fmt.Fprintf(w, "  %s\n", s.hijriDate().Format())
	fmt.Fprintln(w)

	// Find the max prayer name length for alignment.
	maxNameLen := 0
	for _, p := range prayers {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	for _, p := range prayers {
		line := fmt.Sprintf("  %s  %s", display.PadRight(p.Name, maxNameLen), p.Time.Format(s.layout))

		switch {
		case current != nil && p.Name == current.Name && p.Time.Equal(current.Time):
			// Current prayer: dimmed.
			fmt.Fprintln(w, display.Dim(line))
		case next != nil && p.Name == next.Name && p.Time.Equal(next.Time):
			// Next prayer: accent color + countdown.
			remaining := prayer.FormatRemaining(prayer.TimeRemaining(p, s.now))
			fmt.Fprintln(w, display.Accent(line)+display.Accent(fmt.Sprintf("  <- next in %s", remaining)))
		default:
			fmt.Fprintln(w, line)
		}
	}

	// Tomorrow's first prayer is shown below the list once today is over.
	if next != nil && !sameDay(next.Time, s.now) {
		remaining := prayer.FormatRemaining(prayer.TimeRemaining(*next, s.now))
		fmt.Fprintln(w)
		fmt.Fprintln(w, display.Accent(fmt.Sprintf("  %s  %s  <- tomorrow, in %s", display.PadRight(next.Name, maxNameLen), next.Time.Format(s.layout), remaining)))
	}

	fmt.Fprintln(w)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location todayJSONLocation `json:"location"`
	Method   string            `json:"method"`
	Date     todayJSONDate     `json:"date"`
	Timings  map[string]string `json:"timings"`
	Current  string            `json:"current"`
	Next     *todayJSONNext    `json:"next"`
}

type todayJSONLocation struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, s *session, prayers []prayer.Prayer, current, next *prayer.Prayer) error {
	timings := make(map[string]string, len(prayers))
	for _, p := range prayers {
		timings[strings.ToLower(p.Name)] = p.Time.Format(s.layout)
	}

	out := todayJSON{
		Location: s.jsonLocation(),
		Method: s.calc.Parameters().Method.String(),
		Date: todayJSONDate{
			Gregorian: s.now.Format("02 Jan 2006"),
			Hijri:     s.hijriDate().Format(),
		},
		Timings: timings,
	}

	if current != nil {
		out.Current = strings.ToLower(current.Name)
	}

	if next != nil {
		out.Next = &todayJSONNext{
			Prayer:    strings.ToLower(next.Name),
			Time:      next.Time.Format(s.layout),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(*next, s.now)),
		}
	}

	return writeJSON(w, out)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
