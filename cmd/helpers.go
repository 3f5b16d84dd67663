package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"

	"github.com/agent-platform/worldclock/internal/app"
	"github.com/agent-platform/worldclock/internal/display"
)

// openApp loads the config and opens the application state. Callers must
// call closeApp when done.
func openApp() (*app.App, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("open worldclock: %w", err)
	}
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		log.Warn().Err(err).Msg("close worldclock")
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetColumnSeparator("  ")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	return table
}

// factsTable renders clocks as a plain table, used where the colored board
// would be too wide.
func factsTable(w io.Writer, facts []display.Facts) {
	table := newTable(w, "#", "", "Clock", "Time", "Day", "Offset", "Zone", "Holiday")
	for i, f := range facts {
		offset := f.UTCOffsetLabel
		if f.FriendlyOffset != "" {
			offset += " (" + f.FriendlyOffset + ")"
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			f.Flag,
			f.Label,
			f.FormattedTime,
			f.DayBadge,
			offset,
			f.TimeZone,
			f.HolidaySummary,
		})
	}
	table.Render()
}

// parseLatLng reads "lat,lng".
func parseLatLng(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected lat,lng but got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse longitude: %w", err)
	}
	return lat, lng, nil
}

// presetPattern returns the pattern of the preset with the given label,
// case-insensitively.
func presetPattern(label string) (string, error) {
	for _, p := range display.Presets {
		if strings.EqualFold(p.Label, label) {
			return p.Pattern, nil
		}
	}
	names := make([]string, 0, len(display.Presets))
	for _, p := range display.Presets {
		names = append(names, strconv.Quote(p.Label))
	}
	return "", fmt.Errorf("unknown preset %q (choose one of %s)", label, strings.Join(names, ", "))
}

// waitHolidays gives background holiday fetches up to d to finish so a
// one-shot command can show their results.
func waitHolidays(a *app.App, d time.Duration) {
	done := make(chan struct{})
	go func() {
		a.Holidays().Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		log.Debug().Dur("timeout", d).Msg("holiday fetches still running")
	}
}
