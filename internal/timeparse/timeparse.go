// Package timeparse recovers a wall-clock time of day from loosely typed user
// input such as "15:30", "9.45", "3pm" or "1430".
package timeparse

import (
	"strconv"
	"strings"
	"time"
)

// Format is one accepted input shape. Pattern is the Unicode notation shown
// to users; Layout is the equivalent Go reference layout.
type Format struct {
	Pattern string
	Layout  string
}

// Formats lists the accepted shapes in priority order. The first layout that
// parses wins; the order decides between interpretations that are all valid.
var Formats = []Format{
	{Pattern: "HH:mm", Layout: "15:04"},
	{Pattern: "H:mm", Layout: "15:04"},
	{Pattern: "HH.mm", Layout: "15.04"},
	{Pattern: "h:mm a", Layout: "3:04 PM"},
	{Pattern: "h:mma", Layout: "3:04PM"},
	{Pattern: "h a", Layout: "3 PM"},
	{Pattern: "ha", Layout: "3PM"},
	{Pattern: "HHmm", Layout: "1504"},
	{Pattern: "HH", Layout: "15"},
}

// Parse interprets text as a time of day on ref's calendar day in the local
// zone. It reports false for anything it cannot read; that is an expected
// outcome, not an error.
func Parse(text string, ref time.Time) (time.Time, bool) {
	return ParseIn(text, ref, time.Local)
}

// ParseIn is Parse with an explicit zone standing in for local time.
func ParseIn(text string, ref time.Time, loc *time.Location) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	hour, minute, ok := parseClock(text)
	if !ok {
		return time.Time{}, false
	}
	y, m, d := ref.In(loc).Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc), true
}

func parseClock(text string) (hour, minute int, ok bool) {
	// Go only recognises upper-case meridiem markers for the "PM" layout.
	upper := strings.ToUpper(text)
	for _, f := range Formats {
		t, err := time.Parse(f.Layout, upper)
		if err == nil {
			return t.Hour(), t.Minute(), true
		}
	}

	n, err := strconv.Atoi(text)
	if err != nil || n < 0 || n > 23 {
		return 0, 0, false
	}
	return n, 0, true
}
