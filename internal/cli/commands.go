package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-times/internal/cache"
	"github.com/smokyabdulrahman/prayer-times/internal/config"
	"github.com/smokyabdulrahman/prayer-times/internal/display"
	"github.com/smokyabdulrahman/prayer-times/internal/hijri"
	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  prayer-times config set latitude 24.7136\n  prayer-times config set longitude 46.6753\n  prayer-times config set method UmmAlQura\n  prayer-times config set time_format 12h\n  prayer-times config set prayers Fajr,Dhuhr,Asr,Maghrib,Isha",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		Args:  cobra.NoArgs,
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the configuration stored on disk.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		if shown == "" {
			shown = display.Gray("(not set)")
		}
		if key == "method" && val != "" {
			shown = formatMethodValue(val)
		}
		fmt.Fprintf(w, "  %-20s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	log.Info().Str("key", key).Str("value", value).Msg("config updated")
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// runConfigReset deletes the config file and the cached geolocation.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	if c, err := cache.New(effectiveConfig().CacheDir); err == nil {
		if err := c.ClearGeo(); err != nil {
			log.Warn().Err(err).Msg("failed to clear cached location")
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatMethodValue adds the method description to the stored value.
func formatMethodValue(val string) string {
	if m, ok := prayer.LookupMethod(val); ok {
		return fmt.Sprintf("%s (%s)", val, m.Description())
	}
	return val
}

// methodJSON is one row of `methods --json`.
type methodJSON struct {
	Name         string  `json:"name"`
	ID           int     `json:"id"`
	Description  string  `json:"description"`
	FajrAngle    float64 `json:"fajr_angle"`
	IshaAngle    float64 `json:"isha_angle,omitempty"`
	IshaInterval int     `json:"isha_interval,omitempty"`
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the table of supported calculation methods with their twilight angles.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if FlagJSON {
				out := make([]methodJSON, 0, len(prayer.Methods))
				for _, m := range prayer.Methods {
					p := m.Parameters()
					out = append(out, methodJSON{
						Name:         m.String(),
						ID:           m.AladhanID(),
						Description:  m.Description(),
						FajrAngle:    p.FajrAngle,
						IshaAngle:    p.IshaAngle,
						IshaInterval: p.IshaInterval,
					})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Supported calculation methods:")
			fmt.Fprintln(w)

			tbl := display.NewTable([]string{"Name", "ID", "Fajr", "Isha", "Description"})
			for _, m := range prayer.Methods {
				p := m.Parameters()
				tbl.AddRow([]string{
					m.String(),
					strconv.Itoa(m.AladhanID()),
					formatAngle(p.FajrAngle),
					formatIsha(p),
					m.Description(),
				})
			}
			fmt.Fprint(w, tbl.Render())
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Use --method <name or ID> to select a calculation method.")
			fmt.Fprintln(w, "If omitted, MuslimWorldLeague is used.")
			return nil
		},
	}
}

func formatAngle(a float64) string {
	if a == 0 {
		return "-"
	}
	return strconv.FormatFloat(a, 'f', -1, 64) + "°"
}

func formatIsha(p prayer.CalculationParameters) string {
	if p.IshaInterval > 0 {
		return fmt.Sprintf("%d min", p.IshaInterval)
	}
	return formatAngle(p.IshaAngle)
}

var (
	flagHijriAdjust  int
	flagHijriExplain bool
)

func newHijriCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hijri [YYYY-MM-DD]",
		Short: "Convert a Gregorian date to the Hijri calendar",
		Long:  "Print the tabular Hijri date for today, or for the given Gregorian date.\nUse --explain to show every step of the conversion.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHijri,
	}

	cmd.Flags().IntVar(&flagHijriAdjust, "adjust", 0, "Day adjustment (overrides hijri_adjustment)")
	cmd.Flags().BoolVar(&flagHijriExplain, "explain", false, "Show the intermediate values of the conversion")

	return cmd
}

func runHijri(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig()

	adjust := cfg.HijriAdjustment
	if cmd.Flags().Changed("adjust") {
		adjust = flagHijriAdjust
	}

	date := nowFunc()
	if len(args) > 0 {
		d, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q, use YYYY-MM-DD", args[0])
		}
		date = d
	}

	ex := hijri.Explain(adjust, date)

	w := cmd.OutOrStdout()
	if FlagJSON {
		if flagHijriExplain {
			return writeJSON(w, ex)
		}
		return writeJSON(w, hijriJSON{
			Gregorian: date.Format("2006-01-02"),
			Hijri:     ex.Date.Numeric(),
			Formatted: ex.Date.Format(),
			Weekday:   ex.Date.WeekdayName(),
			Month:     ex.Date.MonthName(),
			MonthAr:   ex.Date.MonthNameArabic(),
		})
	}

	fmt.Fprintln(w, ex.Date.String())
	if !flagHijriExplain {
		return nil
	}

	fmt.Fprintln(w)
	rows := [][2]string{
		{"input", ex.Input.Format("2006-01-02")},
		{"adjustment", strconv.Itoa(ex.Adjustment)},
		{"century correction", strconv.Itoa(ex.CenturyCorrection)},
		{"julian day number", strconv.Itoa(ex.JulianDayNumber)},
		{"civil date", ex.Civil.String()},
		{"days since epoch", fmt.Sprintf("%d (epoch %d)", ex.DaysSinceEpoch, ex.Epoch)},
		{"cycle", fmt.Sprintf("%d (of %d days)", ex.Cycle, ex.CycleDays)},
		{"cycle remainder", strconv.Itoa(ex.CycleRemainder)},
		{"year in cycle", strconv.Itoa(ex.YearInCycle)},
		{"day of year", strconv.Itoa(ex.DayOfYear)},
		{"month", fmt.Sprintf("%d %s (%s)", ex.Date.Month+1, ex.Date.MonthName(), ex.Date.MonthNameArabic())},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s %s\n", display.Cyan(display.PadRight(r[0], 20)), r[1])
	}
	return nil
}

type hijriJSON struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
	Formatted string `json:"formatted"`
	Weekday   string `json:"weekday"`
	Month     string `json:"month"`
	MonthAr   string `json:"month_ar"`
}
