package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/app"
	"github.com/agent-platform/worldclock/internal/geo"
	"github.com/agent-platform/worldclock/internal/zone"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Look up time zones by city or coordinate",
	Long: `Finds IANA time zones without adding a clock.

Examples:
  worldclock zones lookup san
  worldclock zones lookup Asia/Kolkata
  worldclock zones locate 35.68,139.69`,
}

var zonesLookupCmd = &cobra.Command{
	Use:   "lookup <city or zone>",
	Short: "Search cities and zone identifiers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		places, err := a.Places().Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printPlaces(a, places)
		return nil
	},
}

var zonesLocateCmd = &cobra.Command{
	Use:   "locate <lat,lng>",
	Short: "Find the zone at a map coordinate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lng, err := parseLatLng(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		place, err := a.Places().Reverse(cmd.Context(), lat, lng)
		if err != nil {
			return err
		}
		printPlaces(a, []geo.Place{place})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(zonesCmd)
	zonesCmd.AddCommand(zonesLookupCmd, zonesLocateCmd)
}

func printPlaces(a *app.App, places []geo.Place) {
	now := a.Clock().Now()
	table := newTable(os.Stdout, "", "City", "Zone", "Offset", "Local time")
	for _, p := range places {
		offset, local := "", ""
		if loc, ok := a.Registry().Resolve(p.Zone); ok {
			offset = zone.FriendlyOffset(loc, now)
			local = now.In(loc).Format("Mon 15:04")
		}
		table.Append([]string{zone.FlagEmoji(p.CountryCode), p.Name, p.Zone, offset, local})
	}
	table.Render()
	fmt.Printf("\n%d match(es)\n", len(places))
}
