package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/prayer-times/internal/cache"
	"github.com/smokyabdulrahman/prayer-times/internal/config"
	"github.com/smokyabdulrahman/prayer-times/internal/geo"
	"github.com/smokyabdulrahman/prayer-times/internal/hijri"
	"github.com/smokyabdulrahman/prayer-times/internal/logger"
	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

// nowFunc is the clock; tests pin it.
var nowFunc = time.Now

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options are the parsed command line flags.
type options struct {
	format      string
	showVersion bool
	listMethods bool
	logLevel    string
	// settings are flag values keyed by config key, set only when given.
	settings map[string]string
}

// settingFlags maps flags onto the config keys they set.
var settingFlags = []struct {
	flag, key, usage string
}{
	{"latitude", "latitude", "Latitude for prayer time calculation"},
	{"longitude", "longitude", "Longitude for prayer time calculation"},
	{"timezone", "timezone", "IANA timezone, e.g. Asia/Riyadh (default: detected or local)"},
	{"method", "method", "Calculation method name or Al Adhan id (see --list-methods)"},
	{"school", "madhab", "Juristic school: shafi (0) or hanafi (1)"},
	{"high-latitude-rule", "high_latitude_rule", "middleofthenight, seventhofthenight or twilightangle"},
	{"time-format", "time_format", "Time format: 12h or 24h"},
	{"prayers", "prayers", "Comma-separated list of prayers to track (default: Fajr,Sunrise,Dhuhr,Asr,Maghrib,Isha)"},
	{"hijri-adjustment", "hijri_adjustment", "Days added to the Hijri date shown by {{.Hijri}}"},
	{"cache-dir", "cache_dir", "Cache directory (default: ~/.cache/prayer-times/)"},
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := pflag.NewFlagSet("tmux-prayer-times", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := options{settings: make(map[string]string)}
	values := make(map[string]*string, len(settingFlags))
	for _, f := range settingFlags {
		values[f.flag] = fs.String(f.flag, "", f.usage)
	}
	fs.StringVar(&opts.format, "format", prayer.FormatNameAndTime, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template (e.g. '{{.Name}} in {{.Remaining}}'). Template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes, .Fard, .Hijri")
	fs.StringVar(&opts.logLevel, "log-level", "off", "Log level written to stderr: debug, info, warn, error or off")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&opts.listMethods, "list-methods", false, "Print supported calculation methods and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	for _, f := range settingFlags {
		if fs.Changed(f.flag) {
			opts.settings[f.key] = *values[f.flag]
		}
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "tmux-prayer-times %s\n", version)
		return 0
	}

	if opts.listMethods {
		printMethods(stdout)
		return 0
	}

	log := logger.Setup(opts.logLevel, logger.FormatText, stderr)
	if err := status(context.Background(), opts, stdout, log); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// printMethods prints the table of supported calculation methods.
func printMethods(w io.Writer) {
	fmt.Fprintln(w, "Supported calculation methods:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-4s %-22s %s\n", "ID", "Name", "Description")
	fmt.Fprintf(w, "  %-4s %-22s %s\n", "──", "────", "───────────")
	for _, m := range prayer.Methods {
		fmt.Fprintf(w, "  %-4s %-22s %s\n", strconv.Itoa(m.AladhanID()), m.String(), m.Description())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use --method <name or ID> to select a calculation method.")
	fmt.Fprintln(w, "If omitted, MuslimWorldLeague is used.")
}

// status prints the next prayer in opts.format.
func status(ctx context.Context, opts options, w io.Writer, log zerolog.Logger) error {
	var cfg config.Config
	for _, f := range settingFlags {
		value, ok := opts.settings[f.key]
		if !ok {
			continue
		}
		if err := cfg.Set(f.key, value); err != nil {
			return fmt.Errorf("--%s: %w", f.flag, err)
		}
	}
	cfg = cfg.WithDefaults()

	where, err := resolveLocation(ctx, &cfg, log)
	if err != nil {
		return err
	}

	tzName := cfg.Timezone
	if tzName == "" {
		tzName = where.Timezone
	}
	loc := time.Local
	if tzName != "" {
		if loc, err = time.LoadLocation(tzName); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", tzName, err)
		}
	}

	coords := where.Coordinates()
	params, err := cfg.Parameters(coords)
	if err != nil {
		return err
	}
	calc, err := prayer.NewCalculator(coords, params, prayer.WithLogger(log))
	if err != nil {
		return err
	}
	names, err := cfg.PrayerNames()
	if err != nil {
		return err
	}

	now := nowFunc().In(loc)
	prayers, err := tracked(calc, now, names, loc)
	if err != nil {
		return err
	}

	// Find the next prayer.
	next := prayer.NextPrayer(prayers, now)

	// If all today's prayers have passed, use tomorrow's first prayer.
	if next == nil {
		tomorrow, err := tracked(calc, now.AddDate(0, 0, 1), names, loc)
		if err != nil {
			// Keep the status bar readable when tomorrow cannot be computed.
			log.Warn().Err(err).Msg("tomorrow not computable")
			if len(prayers) > 0 {
				fmt.Fprintf(w, "%s --:--", prayers[len(prayers)-1].Name)
				return nil
			}
			return err
		}
		next = prayer.NextPrayer(tomorrow, now)
	}

	if next == nil {
		return fmt.Errorf("could not determine next prayer")
	}

	fmt.Fprint(w, prayer.FormatOutput(*next, now, prayer.FormatOptions{
		Mode:       opts.format,
		TimeFormat: cfg.TimeLayout(),
		Hijri:      hijri.Convert(cfg.HijriAdjustment, now).Format(),
	}))
	return nil
}

// tracked computes date's events, keeps the named ones and converts them to loc.
func tracked(calc *prayer.Calculator, date time.Time, names []string, loc *time.Location) ([]prayer.Prayer, error) {
	day, err := calc.Daily(date)
	if err != nil {
		return nil, err
	}
	events, err := prayer.Select(day.Events, names)
	if err != nil {
		return nil, err
	}
	return prayer.InLocation(events, loc), nil
}

// resolveLocation determines the effective location from flags, the cached
// geolocation or IP auto-detection, in that order.
func resolveLocation(ctx context.Context, cfg *config.Config, log zerolog.Logger) (geo.Location, error) {
	if cfg.HasCoordinates() {
		return geo.Location{Latitude: cfg.Latitude, Longitude: cfg.Longitude}, nil
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip caching.
		log.Warn().Err(err).Msg("cache disabled")
		c = nil
	}
	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			return *cached, nil
		}
	}

	detected, err := geo.DetectLocation(ctx)
	if err != nil {
		return geo.Location{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	if c != nil {
		if err := c.SaveGeo(detected); err != nil {
			log.Warn().Err(err).Msg("failed to cache geolocation")
		}
	}
	return *detected, nil
}
