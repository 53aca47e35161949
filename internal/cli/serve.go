package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-times/internal/api"
	"github.com/smokyabdulrahman/prayer-times/internal/config"
	"github.com/smokyabdulrahman/prayer-times/internal/logger"
	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
	"github.com/smokyabdulrahman/prayer-times/internal/store"
)

var (
	flagServeAddr      string
	flagServeDB        string
	flagServeNoDB      bool
	flagServeLogFormat string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times over HTTP",
		Long: "Run an HTTP server answering Al Adhan style requests from the local calculator.\n\n" +
			"Endpoints:\n" +
			"  GET /health\n" +
			"  GET /v1/timings[/{DD-MM-YYYY}]?latitude=..&longitude=..\n" +
			"  GET /v1/calendar/{year}/{month}?latitude=..&longitude=..\n" +
			"  GET /v1/gToH[/{DD-MM-YYYY}]\n" +
			"  GET /v1/methods",
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagServeAddr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&flagServeDB, "db", "", "SQLite timetable cache (default: ~/.local/share/prayer-times/timetable.db)")
	cmd.Flags().BoolVar(&flagServeNoDB, "no-db", false, "Compute every calendar request without the SQLite cache")
	cmd.Flags().StringVar(&flagServeLogFormat, "log-format", logger.FormatJSON, "Request log format: json or text")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig()

	// Request logs are info level; show them unless a level was chosen.
	level := cfg.LogLevel
	if loadedConfig == nil || loadedConfig.LogLevel == "" {
		level = "info"
	}
	srvLog := logger.Setup(level, flagServeLogFormat, cmd.ErrOrStderr()).
		With().Str("component", "api").Logger()

	opts := []api.Option{api.WithLogger(srvLog)}

	method, ok := prayer.LookupMethod(cfg.Method)
	if !ok {
		return fmt.Errorf("unknown method %q", cfg.Method)
	}
	opts = append(opts, api.WithDefaultMethod(method))

	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
		opts = append(opts, api.WithDefaultLocation(loc))
	}

	if !flagServeNoDB {
		st, err := openStore(flagServeDB)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, api.WithStore(st))
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.NewServer(opts...).ListenAndServe(ctx, flagServeAddr)
}

// openStore opens the timetable database at path, or the default location.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		var err error
		if path, err = config.DefaultDBPath(); err != nil {
			return nil, err
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Msg("timetable store opened")
	return st, nil
}

// commandContext returns cmd's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
