// Package ui holds the ANSI styling shared by the terminal renderers.
package ui

import (
	"fmt"
	"os"
)

// Escape sequences. Colors are only emitted while ColorEnabled.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"

	ClearScreen = "\033[2J"
	CursorHome  = "\033[H"
)

var colorEnabled = true

func init() {
	if os.Getenv("NO_COLOR") != "" {
		colorEnabled = false
	}
}

// SetColor enables or disables color output.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled reports whether escape sequences are emitted.
func ColorEnabled() bool {
	return colorEnabled
}

func colorize(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + Reset
}

// Boldf formats and emboldens.
func Boldf(format string, a ...any) string { return paint(Bold, format, a) }

// Greenf formats in green.
func Greenf(format string, a ...any) string { return paint(Green, format, a) }

// Yellowf formats in yellow.
func Yellowf(format string, a ...any) string { return paint(Yellow, format, a) }

// Cyanf formats in cyan.
func Cyanf(format string, a ...any) string { return paint(Cyan, format, a) }

// Dimf formats dimmed.
func Dimf(format string, a ...any) string { return paint(Dim, format, a) }

func paint(color, format string, a []any) string {
	return colorize(color, fmt.Sprintf(format, a...))
}

// DayIcon returns the sun or moon marker for a clock.
func DayIcon(daytime bool) string {
	if daytime {
		return "☀"
	}
	return "☾"
}

// BadgeColor colors a calendar-day badge: Tomorrow in yellow, Yesterday in
// blue. Empty badges stay empty.
func BadgeColor(badge string) string {
	switch badge {
	case "":
		return ""
	case "Tomorrow":
		return colorize(Yellow, badge)
	case "Yesterday":
		return colorize(Blue, badge)
	default:
		return colorize(Dim, badge)
	}
}

// OffsetColor colors an offset label by direction: ahead of local in green,
// behind in magenta, same zone dimmed.
func OffsetColor(label string) string {
	switch {
	case label == "":
		return ""
	case label[0] == '-':
		return colorize(Magenta, label)
	case len(label) > 1 && label[:2] == "+0":
		return colorize(Dim, label)
	default:
		return colorize(Green, label)
	}
}

// StatusColor colors a holiday cache state for listings.
func StatusColor(status string) string {
	switch status {
	case "resolved":
		return colorize(Green, status)
	case "fetching":
		return colorize(Yellow, status)
	default:
		return colorize(Dim, status)
	}
}
