package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agent-platform/worldclock/internal/app"
	"github.com/agent-platform/worldclock/internal/holiday"
	"github.com/agent-platform/worldclock/internal/ui"
	"github.com/agent-platform/worldclock/internal/zone"
)

// holidayWait bounds how long one-shot commands wait for holiday fetches.
const holidayWait = 3 * time.Second

var (
	holidaysOffline bool
	exportOutput    string
)

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "Upcoming public holidays of your world clocks' countries",
	Long: `Lists, refreshes and exports the upcoming public holidays of the countries
of your world clocks, or of the country codes given as arguments.

Examples:
  worldclock holidays list
  worldclock holidays list JP DE
  worldclock holidays refresh
  worldclock holidays export JP -o japan.ics`,
}

var holidaysListCmd = &cobra.Command{
	Use:   "list [country...]",
	Short: "List upcoming public holidays",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		codes := countryCodes(a, args)
		if len(codes) == 0 {
			fmt.Println(ui.Dimf("No countries. Add a world clock or pass a country code."))
			return nil
		}
		if !holidaysOffline {
			fetchAll(a, codes)
		}

		table := newTable(os.Stdout, "Country", "Date", "Holiday", "English name")
		rows := 0
		for _, code := range codes {
			for _, h := range a.Holidays().Holidays(code) {
				table.Append([]string{zone.FlagEmoji(code) + " " + code, h.Date, h.LocalName, h.Name})
				rows++
			}
		}
		if rows == 0 {
			fmt.Println(ui.Dimf("No holidays cached for %s.", strings.Join(codes, ", ")))
			return nil
		}
		table.Render()
		return nil
	},
}

var holidaysRefreshCmd = &cobra.Command{
	Use:   "refresh [country...]",
	Short: "Fetch holidays again and show the cache state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		codes := countryCodes(a, args)
		fetchAll(a, codes)

		table := newTable(os.Stdout, "Country", "State", "Next holiday", "Cached")
		for _, code := range codes {
			e, _ := a.Holidays().Entry(code)
			next := "-"
			if e.Next != nil {
				next = e.Next.Date + " " + e.Next.LocalName
			}
			table.Append([]string{
				zone.FlagEmoji(code) + " " + code,
				ui.StatusColor(e.State),
				next,
				fmt.Sprintf("%d", len(e.Holidays)),
			})
		}
		table.Render()
		return nil
	},
}

var holidaysExportCmd = &cobra.Command{
	Use:   "export [country...]",
	Short: "Export upcoming holidays as an iCalendar (.ics) file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		codes := countryCodes(a, args)
		if !holidaysOffline {
			fetchAll(a, codes)
		}

		var all []holiday.Holiday
		for _, code := range codes {
			all = append(all, a.Holidays().Holidays(code)...)
		}
		sort.SliceStable(all, func(i, j int) bool { return all[i].Date < all[j].Date })

		var w io.Writer = os.Stdout
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOutput, err)
			}
			defer f.Close()
			w = f
		}
		if err := holiday.WriteICS(w, all, a.Clock().Now()); err != nil {
			return err
		}
		if w != os.Stdout {
			fmt.Fprintf(os.Stderr, "Exported %d holidays to %s\n", len(all), exportOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(holidaysCmd)
	holidaysCmd.AddCommand(holidaysListCmd, holidaysRefreshCmd, holidaysExportCmd)

	holidaysCmd.PersistentFlags().BoolVar(&holidaysOffline, "offline", false, "use cached holidays only")
	holidaysExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
}

// countryCodes returns the upper-cased codes in args, or the distinct
// countries of the configured clocks in list order.
func countryCodes(a *app.App, args []string) []string {
	seen := make(map[string]bool)
	var codes []string
	add := func(code string) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" && !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}

	if len(args) > 0 {
		for _, arg := range args {
			add(arg)
		}
		return codes
	}
	for _, c := range a.Clocks() {
		if code, ok := a.CountryFor(c); ok {
			add(code)
		}
	}
	return codes
}

func fetchAll(a *app.App, codes []string) {
	for _, code := range codes {
		a.Holidays().FetchIfNeeded(code)
	}
	a.Holidays().Wait()
}
