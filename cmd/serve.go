package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/api"
	"github.com/agent-platform/worldclock/internal/holiday"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the world clocks over HTTP and WebSocket",
	Long: `Starts a JSON API on localhost:

  GET /api/health
  GET /api/clocks
  GET /api/board
  GET /api/summary
  GET /api/convert?t=3pm
  GET /api/holidays/{code}
  GET /api/ws            board frames pushed every second

Holidays are refreshed on the cron schedule set by holidays.refresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		cfg := a.Config()
		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Holidays.Enabled {
			a.WarmHolidays()
			sched, err := holiday.NewScheduler(a.Holidays(), cfg.Holidays.Refresh)
			if err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
		}

		src := newTickSource(a, 0)
		go src.Run(ctx)

		addr := fmt.Sprintf("127.0.0.1:%d", port)
		fmt.Printf("worldclock API listening on http://%s/api\n", addr)
		if err := api.NewServer(a, src).ListenAndServe(ctx, addr); err != nil {
			return err
		}
		log.Info().Msg("api server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default: server.port from config)")
}
