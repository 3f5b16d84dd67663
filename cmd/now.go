package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/display"
)

var nowFormat string

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Print every world clock once",
	Long: `Prints the local time and every world clock with its offset, day/night
state, calendar-day badge and next public holiday.

Holidays that are not cached yet are fetched first, waiting at most a few
seconds; anything slower shows up on the next run.

Examples:
  worldclock now
  worldclock now --format table
  worldclock now --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		a.WarmHolidays()
		waitHolidays(a, holidayWait)
		b := a.Board(a.Clock().Now(), nil)
		return printBoard(b, nowFormat)
	},
}

func init() {
	rootCmd.AddCommand(nowCmd)
	nowCmd.Flags().StringVarP(&nowFormat, "format", "f", "board", "output format: board, table, json")
}

func printBoard(b display.Board, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case "table":
		fmt.Printf("%s  %s (%s)\n\n", b.Local.Time, b.Local.Date, b.Local.Zone)
		factsTable(os.Stdout, b.Clocks)
		return nil
	case "board", "":
		display.Render(os.Stdout, b)
		return nil
	default:
		return fmt.Errorf("unknown format %q (use board, table or json)", format)
	}
}
