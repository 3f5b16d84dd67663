package ui

import (
	"strings"
	"testing"
)

func TestColorizeEnabled(t *testing.T) {
	SetColor(true)
	defer SetColor(true)

	got := colorize(Red, "hello")
	if !strings.HasPrefix(got, Red) {
		t.Errorf("colorize() missing color prefix")
	}
	if !strings.HasSuffix(got, Reset) {
		t.Errorf("colorize() missing reset suffix")
	}
}

func TestColorizeDisabled(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	got := colorize(Red, "hello")
	if got != "hello" {
		t.Errorf("colorize() with color disabled = %q, want %q", got, "hello")
	}
}

func TestColorFunctions(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	tests := []struct {
		name string
		fn   func(string, ...any) string
	}{
		{name: "Boldf", fn: Boldf},
		{name: "Greenf", fn: Greenf},
		{name: "Yellowf", fn: Yellowf},
		{name: "Cyanf", fn: Cyanf},
		{name: "Dimf", fn: Dimf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("%s in %d", "Tokyo", 9)
			if got != "Tokyo in 9" {
				t.Errorf("%s() = %q", tt.name, got)
			}
		})
	}
}

func TestBadgeColor(t *testing.T) {
	SetColor(true)
	defer SetColor(true)

	if got := BadgeColor(""); got != "" {
		t.Errorf("BadgeColor(\"\") = %q, want empty", got)
	}
	if got := BadgeColor("Tomorrow"); !strings.Contains(got, Yellow) {
		t.Errorf("BadgeColor(Tomorrow) = %q, want yellow", got)
	}
	if got := BadgeColor("Yesterday"); !strings.Contains(got, Blue) {
		t.Errorf("BadgeColor(Yesterday) = %q, want blue", got)
	}
}

func TestOffsetColor(t *testing.T) {
	SetColor(true)
	defer SetColor(true)

	tests := []struct {
		label string
		color string
	}{
		{"+9h from local", Green},
		{"-5h from local", Magenta},
		{"+0h from local", Dim},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := OffsetColor(tt.label)
			if !strings.HasPrefix(got, tt.color) {
				t.Errorf("OffsetColor(%q) = %q", tt.label, got)
			}
		})
	}
	if got := OffsetColor(""); got != "" {
		t.Errorf("OffsetColor(\"\") = %q, want empty", got)
	}
}

func TestDayIcon(t *testing.T) {
	if DayIcon(true) == DayIcon(false) {
		t.Error("day and night icons should differ")
	}
}

func TestStatusColorDisabled(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	for _, s := range []string{"resolved", "fetching", "absent"} {
		if got := StatusColor(s); got != s {
			t.Errorf("StatusColor(%q) = %q", s, got)
		}
	}
}
