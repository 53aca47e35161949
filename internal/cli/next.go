package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nSuitable for status bars such as tmux.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	// Priority: --prayers flag > config > defaults.
	if cmd.Flags().Changed("prayers") {
		if s.names, err = prayer.ParsePrayerNames(flagPrayers); err != nil {
			return err
		}
	}

	_, prayers, err := s.day(s.now)
	if err != nil {
		return err
	}
	next, err := s.next(prayers)
	if err != nil {
		return err
	}

	output := prayer.FormatOutput(*next, s.now, prayer.FormatOptions{
		Mode:       flagFormat,
		TimeFormat: s.layout,
		Hijri:      s.hijriDate().Format(),
	})
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}
