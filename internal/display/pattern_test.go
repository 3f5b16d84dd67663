package display

import (
	"testing"
	"time"
)

func TestFormatPattern(t *testing.T) {
	// Monday of ISO week 2.
	at := time.Date(2026, 1, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		pattern string
		want    string
	}{
		{"HH:mm", "14:07"},
		{"h:mm a", "2:07 PM"},
		{"HH:mm:ss", "14:07:09"},
		{"EEE HH:mm", "Mon 14:07"},
		{"'W'w · EEE HH:mm", "W2 · Mon 14:07"},
		{"dd MMM HH:mm", "05 Jan 14:07"},
		{"yyyy-MM-dd HH:mm", "2026-01-05 14:07"},
		{"EEEE, d MMMM", "Monday, 5 January"},
		{"EEEEE", "M"},
		{"yy", "26"},
		{"'o''clock'", "o'clock"},
		{"''", "'"},
		{"Z", "+0000"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := FormatPattern(at, tt.pattern); got != tt.want {
				t.Errorf("FormatPattern(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestFormatPattern_ISOWeekAcrossNewYear(t *testing.T) {
	// Friday 1 January 2027 still belongs to ISO week 53 of 2026.
	at := time.Date(2027, 1, 1, 9, 0, 0, 0, time.UTC)

	if got := FormatPattern(at, "'W'w · EEE"); got != "W53 · Fri" {
		t.Errorf("cal week = %q, want %q", got, "W53 · Fri")
	}
	if got := FormatPattern(at, "YYYY-'W'ww"); got != "2026-W53" {
		t.Errorf("week year = %q, want %q", got, "2026-W53")
	}
	if got := FormatPattern(at, "yyyy"); got != "2027" {
		t.Errorf("calendar year = %q, want %q", got, "2027")
	}
}

func TestFormatPattern_TwelveHourClock(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "12 AM"},
		{9, "9 AM"},
		{12, "12 PM"},
		{23, "11 PM"},
	}
	for _, tt := range tests {
		at := time.Date(2026, 3, 1, tt.hour, 0, 0, 0, time.UTC)
		if got := FormatPattern(at, "h a"); got != tt.want {
			t.Errorf("hour %d: got %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestPresetsFormat(t *testing.T) {
	at := time.Date(2026, 7, 4, 8, 30, 0, 0, time.UTC)
	for _, p := range Presets {
		if got := FormatPattern(at, p.Pattern); got == "" {
			t.Errorf("preset %q rendered empty", p.Label)
		}
	}
}
