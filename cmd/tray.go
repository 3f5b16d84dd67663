package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/tray"
)

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Show the summary line in the menu bar",
	Long: `Runs a menu bar (system tray) item titled with the summary line. The menu
lists every world clock with its offset and next holiday.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a.WarmHolidays()
		src := newTickSource(a, time.Second)
		go src.Run(ctx)

		tray.New(a, src).Run(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trayCmd)
}
