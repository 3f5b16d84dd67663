package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/display"
	"github.com/agent-platform/worldclock/internal/store"
)

var (
	summaryPreset string
	summaryFormat string
	summaryList   bool
	summarySave   bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the one-line status text",
	Long: `Prints the local time followed by every world clock shown in the menu bar,
for use in status bars and prompts.

World clocks are included only when enabled with:
  worldclock prefs set menubar true

Examples:
  worldclock summary
  worldclock summary --preset "12-hour"
  worldclock summary --format "EEE HH:mm" --save
  worldclock summary --list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if summaryList {
			return listPresets()
		}

		pattern := summaryFormat
		if summaryPreset != "" {
			p, err := presetPattern(summaryPreset)
			if err != nil {
				return err
			}
			pattern = p
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		if pattern != "" {
			if summarySave {
				if err := a.UpdatePreferences(func(p *store.Preferences) error {
					p.MenuBarFormat = pattern
					return nil
				}); err != nil {
					return err
				}
			} else {
				fmt.Println(a.SummaryFormat(a.Clock().Now(), pattern))
				return nil
			}
		}

		fmt.Println(a.Summary(a.Clock().Now()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryPreset, "preset", "p", "", "use a named format preset")
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "", "local time pattern, e.g. \"h:mm a\"")
	summaryCmd.Flags().BoolVar(&summaryList, "list", false, "list format presets")
	summaryCmd.Flags().BoolVar(&summarySave, "save", false, "store the format as the default")
}

func listPresets() error {
	now := time.Now()
	table := newTable(os.Stdout, "Preset", "Pattern", "Example")
	for _, p := range display.Presets {
		table.Append([]string{p.Label, p.Pattern, display.FormatPattern(now, p.Pattern)})
	}
	table.Render()
	return nil
}
