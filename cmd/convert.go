package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var convertFormat string

var convertCmd = &cobra.Command{
	Use:   "convert <time>",
	Short: "Show a local time in every world clock's zone",
	Long: `Reads a local wall-clock time for today and shows what time it is at that
moment in every world clock's zone.

Accepted forms: "9", "9am", "9 pm", "14:30", "2:30pm", "1430".

Examples:
  worldclock convert 3pm
  worldclock convert 09:30
  worldclock convert "2:30 pm" --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		a.WarmHolidays()
		waitHolidays(a, holidayWait)

		text := strings.Join(args, " ")
		b, ok := a.Convert(text, a.Clock().Now())
		if !ok {
			return fmt.Errorf("cannot read %q as a time (try 9am, 14:30 or 2:30pm)", text)
		}
		return printBoard(b, convertFormat)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "table", "output format: board, table, json")
}
