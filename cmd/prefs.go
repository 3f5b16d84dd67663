package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/store"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change display preferences",
	Long: `Display preferences are stored next to the clock list.

Keys:
  local-format   pattern for the local time, e.g. "HH:mm" or "h:mm a"
  world-format   pattern for world clock times
  menubar        include world clocks in the summary line (true/false)
  world-first    put world clocks before the local time (true/false)

Examples:
  worldclock prefs
  worldclock prefs set local-format "EEE HH:mm"
  worldclock prefs set menubar true`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		p := a.Preferences()
		table := newTable(os.Stdout, "Key", "Value")
		table.Append([]string{"local-format", p.MenuBarFormat})
		table.Append([]string{"world-format", p.WorldClockFormat})
		table.Append([]string{"menubar", strconv.FormatBool(p.ShowWorldClocksInMenuBar)})
		table.Append([]string{"world-first", strconv.FormatBool(p.WorldFirst)})
		table.Render()
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := strings.ToLower(args[0]), args[1]

		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.UpdatePreferences(func(p *store.Preferences) error {
			return setPreference(p, key, value)
		}); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", key, value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsSetCmd)
}

func setPreference(p *store.Preferences, key, value string) error {
	switch key {
	case "local-format":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		p.MenuBarFormat = value
	case "world-format":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		p.WorldClockFormat = value
	case "menubar", "world-first":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s takes true or false: %w", key, err)
		}
		if key == "menubar" {
			p.ShowWorldClocksInMenuBar = b
		} else {
			p.WorldFirst = b
		}
	default:
		return fmt.Errorf("unknown preference %q", key)
	}
	return nil
}
