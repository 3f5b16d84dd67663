package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/app"
	"github.com/agent-platform/worldclock/internal/display"
	"github.com/agent-platform/worldclock/internal/ticker"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live-updating world clock display",
	Long: `Redraws every world clock once per tick (every second by default) until
interrupted. Holidays are refreshed in the background once an hour.

Examples:
  worldclock watch
  worldclock watch --interval 1m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a.WarmHolidays()
		src := newTickSource(a, watchInterval)
		sub := src.Subscribe()
		go src.Run(ctx)

		display.Watch(ctx, os.Stdout, src.Now(), sub, func(now time.Time) display.Board {
			return a.Board(now, nil)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", time.Second, "redraw interval")
}

// newTickSource returns a tick source that also refreshes holidays when
// they are enabled.
func newTickSource(a *app.App, interval time.Duration) *ticker.Source {
	opts := []ticker.Option{ticker.WithInterval(interval)}
	if a.Config().Holidays.Enabled {
		opts = append(opts, ticker.WithRefresher(a.Holidays()))
	}
	return ticker.New(a.Clock(), opts...)
}
