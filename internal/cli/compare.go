package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/prayer-times/internal/api"
	"github.com/smokyabdulrahman/prayer-times/internal/display"
	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
)

var (
	flagCompareDays      string
	flagCompareBaseURL   string
	flagCompareTolerance int
	flagCompareWorkers   int
)

// compareNames are the events Al Adhan reports under the same name.
var compareNames = prayer.DefaultPrayerNames

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare local times against the Al Adhan API",
		Long: "Compute prayer times locally and fetch the same days from the Al Adhan API\n" +
			"(or any server with the same shape, such as 'prayer-times serve'),\n" +
			"then print the difference in minutes for each prayer.",
		Args: cobra.NoArgs,
		RunE: runCompare,
	}

	cmd.Flags().StringVar(&flagCompareDays, "days", "1", "Number of days to compare (or 'week'/'month')")
	cmd.Flags().StringVar(&flagCompareBaseURL, "base-url", "", "API base URL (default: https://api.aladhan.com/v1)")
	cmd.Flags().IntVar(&flagCompareTolerance, "tolerance", 2, "Largest difference in minutes that counts as a match")
	cmd.Flags().IntVar(&flagCompareWorkers, "workers", 4, "Concurrent API requests")

	return cmd
}

// compareDay is the local and remote result for one date.
type compareDay struct {
	Date   string            `json:"date"`
	Deltas map[string]int    `json:"deltas"`
	Local  map[string]string `json:"local"`
	Remote map[string]string `json:"remote"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	n, err := parseDays(flagCompareDays)
	if err != nil {
		return fmt.Errorf("invalid --days value: %w", err)
	}
	if flagCompareWorkers < 1 {
		return fmt.Errorf("invalid --workers %d: must be positive", flagCompareWorkers)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	s.names = compareNames

	params := s.calc.Parameters()
	if params.Method == prayer.Other {
		return fmt.Errorf("compare needs a preset method; custom angles have no Al Adhan id")
	}
	q := api.Query{
		Latitude:  s.place.Latitude,
		Longitude: s.place.Longitude,
		Method:    params.Method.AladhanID(),
		School:    int(params.Madhab),
		Timezone:  s.place.Timezone,
	}

	local, err := s.days(n)
	if err != nil {
		return err
	}

	client := api.NewClient(flagCompareBaseURL)
	results := make([]compareDay, len(local))

	g, ctx := errgroup.WithContext(commandContext(cmd))
	g.SetLimit(flagCompareWorkers)
	for i, d := range local {
		i, d := i, d
		g.Go(func() error {
			resp, err := client.FetchByCoordinates(ctx, d.Date, q)
			if err != nil {
				return fmt.Errorf("%s: %w", d.Date.Format("2006-01-02"), err)
			}
			res, err := diffDay(s, d, resp.Data.Timings)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	worst, misses := 0, 0
	for _, r := range results {
		for _, delta := range r.Deltas {
			if abs(delta) > worst {
				worst = abs(delta)
			}
			if abs(delta) > flagCompareTolerance {
				misses++
			}
		}
	}
	log.Info().Int("days", n).Int("worst", worst).Int("misses", misses).Str("base_url", client.BaseURL).Msg("comparison done")

	w := cmd.OutOrStdout()
	if FlagJSON {
		if err := writeJSON(w, compareJSON{Method: params.Method.String(), Tolerance: flagCompareTolerance, Worst: worst, Days: results}); err != nil {
			return err
		}
	} else {
		printCompareTable(w, s, results, worst, misses)
	}

	if misses > 0 {
		return fmt.Errorf("%d times differ by more than %d min (worst %d min)", misses, flagCompareTolerance, worst)
	}
	return nil
}

type compareJSON struct {
	Method    string       `json:"method"`
	Tolerance int          `json:"tolerance"`
	Worst     int          `json:"worst"`
	Days      []compareDay `json:"days"`
}

// diffDay subtracts the remote clock times from the local ones. A positive
// delta means the local time is later.
func diffDay(s *session, d listedDay, remote api.Timings) (compareDay, error) {
	y, m, dd := d.Date.Date()
	day := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)

	out := compareDay{
		Date:   d.Date.Format("2006-01-02"),
		Deltas: make(map[string]int, len(d.Prayers)),
		Local:  make(map[string]string, len(d.Prayers)),
		Remote: make(map[string]string, len(d.Prayers)),
	}
	for _, p := range d.Prayers {
		at, err := remote.At(p.Name, day, s.tz)
		if err != nil {
			return compareDay{}, fmt.Errorf("%s %s: %w", out.Date, p.Name, err)
		}
		out.Local[p.Name] = p.Time.Format("15:04")
		out.Remote[p.Name] = at.Format("15:04")
		out.Deltas[p.Name] = int(math.Round(p.Time.Truncate(time.Minute).Sub(at).Minutes()))
	}
	return out, nil
}

func printCompareTable(w io.Writer, s *session, results []compareDay, worst, misses int) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Local minus remote, in minutes"))
	fmt.Fprintf(w, "  %s\n", s.place.Label())
	fmt.Fprintln(w)

	tbl := display.NewTable(append([]string{"Date"}, compareNames...))
	for _, r := range results {
		row := []string{r.Date}
		for _, name := range compareNames {
			delta := r.Deltas[name]
			cell := strconv.Itoa(delta)
			if delta > 0 {
				cell = "+" + cell
			}
			if abs(delta) > flagCompareTolerance {
				cell += " !"
			}
			row = append(row, cell)
		}
		tbl.AddRow(row)
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	if misses == 0 {
		fmt.Fprintf(w, "  %s\n", display.Green(fmt.Sprintf("All times within %d min (worst %d min)", flagCompareTolerance, worst)))
	} else {
		fmt.Fprintf(w, "  %s\n", display.Yellow(fmt.Sprintf("%d times outside %d min, marked with !", misses, flagCompareTolerance)))
	}
	fmt.Fprintln(w)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
