package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/prayer-times/internal/config"
	"github.com/smokyabdulrahman/prayer-times/internal/display"
	"github.com/smokyabdulrahman/prayer-times/internal/logger"
)

// Global flags shared across all subcommands.
var (
	FlagCity       string
	FlagCountry    string
	FlagLatitude   float64
	FlagLongitude  float64
	FlagTimezone   string
	FlagMethod     string
	FlagMadhab     string
	FlagJSON       bool
	FlagNoColor    bool
	FlagCacheDir   string
	FlagTimeFormat string
	FlagLogLevel   string
)

// loadedConfig holds the config loaded during PersistentPreRunE, with the
// environment and explicitly set flags already applied.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// log is the command logger, built from the effective log level.
var log = zerolog.Nop()

// nowFunc is the clock used by every command.
var nowFunc = time.Now

// flagKeys maps persistent flags onto the config keys they override.
var flagKeys = []struct {
	flag, key string
	value     func() string
}{
	{"city", "city", func() string { return FlagCity }},
	{"country", "country", func() string { return FlagCountry }},
	{"latitude", "latitude", func() string { return fmt.Sprint(FlagLatitude) }},
	{"longitude", "longitude", func() string { return fmt.Sprint(FlagLongitude) }},
	{"timezone", "timezone", func() string { return FlagTimezone }},
	{"method", "method", func() string { return FlagMethod }},
	{"madhab", "madhab", func() string { return FlagMadhab }},
	{"cache-dir", "cache_dir", func() string { return FlagCacheDir }},
	{"time-format", "time_format", func() string { return FlagTimeFormat }},
	{"log-level", "log_level", func() string { return FlagLogLevel }},
}

// NewRootCmd creates the root command for the prayer-times CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "prayer-times",
		Short:   "Islamic prayer times CLI",
		Long:    "A full-featured CLI for Islamic prayer times, computed locally from solar position.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			loadedConfig = cfg

			log = logger.Setup(cfg.WithDefaults().LogLevel, logger.FormatText, cmd.ErrOrStderr())
			if FlagNoColor || FlagJSON {
				display.SetEnabled(false)
			}
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "City label shown with the times (needs --latitude/--longitude)")
	pf.StringVar(&FlagCountry, "country", "", "Country label shown with the times")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone for displayed times, e.g. Asia/Riyadh")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method name or Al Adhan id (see 'methods')")
	pf.StringVar(&FlagMadhab, "madhab", "", "Asr convention: shafi or hanafi")
	pf.StringVar(&FlagMadhab, "school", "", "Alias for --madhab (0=Shafi, 1=Hanafi)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.BoolVar(&FlagNoColor, "no-color", false, "Disable colored output")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/prayer-times/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn, error or off")

	// Register subcommands.
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newHijriCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newCompareCmd())

	return rootCmd
}

// loadConfig merges the configuration sources,
// applying the priority: CLI flags > environment > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set, and
// routes every override through Config.Set so flags are validated like
// `config set`.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()
	for _, f := range flagKeys {
		if !flagWasSet(flags, root, f.flag) {
			continue
		}
		if err := cfg.Set(f.key, f.value()); err != nil {
			return nil, fmt.Errorf("--%s: %w", f.flag, err)
		}
	}
	if flagWasSet(flags, root, "school") {
		if err := cfg.Set("madhab", FlagMadhab); err != nil {
			return nil, fmt.Errorf("--school: %w", err)
		}
	}
	return cfg, nil
}

// effectiveConfig returns the merged configuration with defaults filled in.
func effectiveConfig() config.Config {
	if loadedConfig == nil {
		return config.Config{}.WithDefaults()
	}
	return loadedConfig.WithDefaults()
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
