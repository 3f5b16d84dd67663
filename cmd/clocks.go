package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/app"
	"github.com/agent-platform/worldclock/internal/geo"
	"github.com/agent-platform/worldclock/internal/ui"
	"github.com/agent-platform/worldclock/internal/worldclock"
	"github.com/agent-platform/worldclock/internal/zone"
)

var (
	addLabel   string
	addCountry string
	addAt      string
	addMenuBar bool
)

var clocksCmd = &cobra.Command{
	Use:   "clocks",
	Short: "Manage world clocks",
	Long: `Add, remove, reorder and edit world clocks.

A clock is referenced by its position in "clocks list", its label, or an ID
prefix of at least four characters.

Examples:
  worldclock clocks list
  worldclock clocks add Tokyo
  worldclock clocks add America/New_York --label NYC --menubar
  worldclock clocks add --at 48.85,2.35
  worldclock clocks move NYC 1
  worldclock clocks country Tokyo JP
  worldclock clocks remove 3`,
}

var clocksListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List world clocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		clocks := a.Clocks()
		if len(clocks) == 0 {
			fmt.Println(ui.Dimf("No world clocks yet. Add one with: worldclock clocks add <city or zone>"))
			return nil
		}

		now := a.Clock().Now()
		table := newTable(os.Stdout, "#", "", "Label", "Zone", "Offset", "Country", "Menu bar", "ID")
		for i, c := range clocks {
			offset := ui.Dimf("unknown zone")
			if loc, ok := a.Registry().Resolve(c.TimeZoneIdentifier); ok {
				offset = zone.FriendlyOffset(loc, now)
			}
			country, flag := "", ""
			if code, ok := a.CountryFor(c); ok {
				country = code
				if c.CountryCode != nil {
					country += " (set)"
				}
				flag = zone.FlagEmoji(code)
			}
			menu := ""
			if c.ShowInMenuBar {
				menu = ui.Greenf("yes")
			}
			table.Append([]string{
				strconv.Itoa(i + 1),
				flag,
				c.Label,
				c.TimeZoneIdentifier,
				offset,
				country,
				menu,
				shortID(c.ID),
			})
		}
		table.Render()
		return nil
	},
}

var clocksAddCmd = &cobra.Command{
	Use:   "add [city or zone]",
	Short: "Add a world clock",
	Long: `Adds a world clock by IANA zone identifier, by city name, or by map
coordinate (--at lat,lng). The label defaults to the city name.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		var place geo.Place
		switch {
		case addAt != "":
			lat, lng, err := parseLatLng(addAt)
			if err != nil {
				return err
			}
			place, err = a.Places().Reverse(cmd.Context(), lat, lng)
			if err != nil {
				return fmt.Errorf("locate %s: %w", addAt, err)
			}
		case len(args) > 0:
			query := strings.Join(args, " ")
			places, err := a.Places().Search(cmd.Context(), query)
			if errors.Is(err, geo.ErrNoResult) {
				return fmt.Errorf("no city or zone matches %q (try \"worldclock zones lookup %s\")", query, query)
			}
			if err != nil {
				return fmt.Errorf("search %q: %w", query, err)
			}
			place = places[0]
		default:
			return errors.New("give a city, a zone identifier, or --at lat,lng")
		}

		label := addLabel
		if label == "" {
			label = place.Name
		}
		c, err := a.AddClock(label, place.Zone, addCountry)
		if err != nil {
			return err
		}
		if addMenuBar {
			if err := setMenuBar(a, c.ID, true); err != nil {
				return err
			}
		}

		fmt.Printf("Added %s (%s)\n", ui.Boldf("%s", c.Label), c.TimeZoneIdentifier)
		return nil
	},
}

var clocksRemoveCmd = &cobra.Command{
	Use:     "remove <clock>",
	Aliases: []string{"rm"},
	Short:   "Remove a world clock",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editClocks(func(l *worldclock.List) (string, error) {
			i, err := lookupClock(*l, args[0])
			if err != nil {
				return "", err
			}
			removed, err := l.RemoveAt(i)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Removed %s", removed.Label), nil
		})
	},
}

var clocksMoveCmd = &cobra.Command{
	Use:   "move <clock> <position>",
	Short: "Move a world clock to a position (1 = first)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("position must be a number: %w", err)
		}
		return editClocks(func(l *worldclock.List) (string, error) {
			from, err := lookupClock(*l, args[0])
			if err != nil {
				return "", err
			}
			if pos < 1 || pos > len(*l) {
				return "", fmt.Errorf("position %d: %w", pos, worldclock.ErrIndexOutOfRange)
			}
			to := pos - 1
			if to > from {
				to++
			}
			label := (*l)[from].Label
			if err := l.Move(from, to); err != nil {
				return "", err
			}
			return fmt.Sprintf("Moved %s to position %d", label, pos), nil
		})
	},
}

var clocksRenameCmd = &cobra.Command{
	Use:   "rename <clock> <label>",
	Short: "Change a world clock's label",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := strings.Join(args[1:], " ")
		return editClocks(func(l *worldclock.List) (string, error) {
			i, err := lookupClock(*l, args[0])
			if err != nil {
				return "", err
			}
			old := (*l)[i].Label
			(*l)[i].Label = label
			return fmt.Sprintf("Renamed %s to %s", old, label), nil
		})
	},
}

var clocksShowCmd = &cobra.Command{
	Use:   "show <clock>",
	Short: "Include a world clock in the summary line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleMenuBar(args[0], true)
	},
}

var clocksHideCmd = &cobra.Command{
	Use:   "hide <clock>",
	Short: "Leave a world clock out of the summary line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleMenuBar(args[0], false)
	},
}

var clocksCountryCmd = &cobra.Command{
	Use:   "country <clock> <code|auto>",
	Short: "Override the country used for holidays",
	Long: `Sets the two-letter country code used for a clock's holidays. "auto" clears
the override so the country is derived from the time zone again.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := args[1]
		if strings.EqualFold(code, "auto") {
			code = ""
		} else if len(code) != 2 {
			return fmt.Errorf("country code must have two letters, got %q", code)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		var updated worldclock.Clock
		if err := a.UpdateClocks(func(l *worldclock.List) error {
			i, err := lookupClock(*l, args[0])
			if err != nil {
				return err
			}
			(*l)[i] = (*l)[i].WithCountry(code)
			updated = (*l)[i]
			return nil
		}); err != nil {
			return err
		}

		resolved, ok := a.CountryFor(updated)
		if !ok {
			fmt.Printf("%s has no country; holidays are not shown\n", updated.Label)
			return nil
		}
		a.HolidayStatus(resolved)
		fmt.Printf("%s now uses holidays for %s %s\n", updated.Label, zone.FlagEmoji(resolved), resolved)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clocksCmd)
	clocksCmd.AddCommand(clocksListCmd, clocksAddCmd, clocksRemoveCmd, clocksMoveCmd,
		clocksRenameCmd, clocksShowCmd, clocksHideCmd, clocksCountryCmd)

	clocksAddCmd.Flags().StringVarP(&addLabel, "label", "l", "", "display label (default: city name)")
	clocksAddCmd.Flags().StringVarP(&addCountry, "country", "c", "", "two-letter country code for holidays")
	clocksAddCmd.Flags().StringVar(&addAt, "at", "", "pick the zone at a map coordinate, as lat,lng")
	clocksAddCmd.Flags().BoolVarP(&addMenuBar, "menubar", "m", false, "include in the summary line")
}

// lookupClock resolves a 1-based position, ID, ID prefix or label.
func lookupClock(l worldclock.List, ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(l) {
			return -1, fmt.Errorf("clock %d: %w", n, worldclock.ErrIndexOutOfRange)
		}
		return n - 1, nil
	}
	return l.Lookup(ref)
}

// editClocks applies fn to the stored list and prints its message.
func editClocks(fn func(*worldclock.List) (string, error)) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	var msg string
	if err := a.UpdateClocks(func(l *worldclock.List) error {
		var err error
		msg, err = fn(l)
		return err
	}); err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func setMenuBar(a *app.App, id string, show bool) error {
	return a.UpdateClocks(func(l *worldclock.List) error {
		return l.Update(id, func(c *worldclock.Clock) { c.ShowInMenuBar = show })
	})
}

func toggleMenuBar(ref string, show bool) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	i, err := lookupClock(a.Clocks(), ref)
	if err != nil {
		return err
	}
	c := a.Clocks()[i]
	if err := setMenuBar(a, c.ID, show); err != nil {
		return err
	}

	state := "hidden from"
	if show {
		state = "shown in"
	}
	fmt.Printf("%s is %s the summary line\n", c.Label, state)
	if show && !a.Preferences().ShowWorldClocksInMenuBar {
		fmt.Println(ui.Dimf("World clocks are off in the summary; enable with: worldclock prefs set menubar true"))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
