package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/agent-platform/worldclock/internal/ui"
)

const ruleWidth = 64

// Render writes the board as a terminal table.
func Render(w io.Writer, b Board) {
	title := "🌍 World Clock"
	if b.Converted {
		title = "🔁 Time Converter"
	}
	fmt.Fprintf(w, " %s %s\n", ui.Boldf("%s", title), ui.Dimf("(%s)", b.Local.Zone))
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
	fmt.Fprintf(w, "  %-24s %s  %s\n", "Local", ui.Boldf("%s", b.Local.Time), ui.Dimf("%s", b.Local.Date))
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))

	if len(b.Clocks) == 0 {
		fmt.Fprintf(w, "  %s\n", ui.Dimf("No world clocks yet. Add one with: worldclock clocks add <zone>"))
	}
	for _, f := range b.Clocks {
		renderClock(w, f)
	}

	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
}

func renderClock(w io.Writer, f Facts) {
	flag := f.Flag
	if flag == "" {
		flag = "  "
	}
	if !f.Available {
		fmt.Fprintf(w, "  %s %s %-20s %s %s\n",
			ui.DayIcon(true), flag, f.Label,
			ui.Dimf("%s", f.FormattedTime),
			ui.Dimf("unknown zone %s", f.TimeZone),
		)
		return
	}

	fmt.Fprintf(w, "  %s %s %s %s  %s %s",
		ui.DayIcon(f.IsDaytime), flag,
		ui.Yellowf("%-20s", f.Label),
		ui.Boldf("%s", f.FormattedTime),
		ui.OffsetColor(f.UTCOffsetLabel),
		ui.Dimf("%s", f.FriendlyOffset),
	)
	if f.DayBadge != "" {
		fmt.Fprintf(w, "  %s", ui.BadgeColor(f.DayBadge))
	}
	fmt.Fprintln(w)
	if f.HolidaySummary != "" {
		fmt.Fprintf(w, "       %s\n", ui.Cyanf("%s", f.HolidaySummary))
	}
}
