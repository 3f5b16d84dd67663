package display

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agent-platform/worldclock/internal/holiday"
	"github.com/agent-platform/worldclock/internal/ui"
	"github.com/agent-platform/worldclock/internal/worldclock"
	"github.com/agent-platform/worldclock/internal/zone"
)

type stubHolidays map[string]holiday.Holiday

func (s stubHolidays) Lookup(code string) (holiday.Holiday, bool) {
	h, ok := s[code]
	return h, ok
}

func newProjector(h HolidayLookup) *Projector {
	return &Projector{
		Registry: zone.NewRegistry(zone.Table{
			"Asia/Tokyo":       "JP",
			"America/New_York": "US",
			"Asia/Kolkata":     "IN",
		}),
		Holidays: h,
		Local:    time.UTC,
	}
}

func tokyo(show bool) worldclock.Clock {
	c := worldclock.New("Tokyo", "Asia/Tokyo")
	c.ShowInMenuBar = show
	return c
}

func TestSummary(t *testing.T) {
	live := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p := newProjector(nil)

	if got := p.Summary([]worldclock.Clock{tokyo(true)}, live); got != "10:00 | Tokyo 19:00" {
		t.Errorf("Summary = %q", got)
	}

	p.WorldFirst = true
	if got := p.Summary([]worldclock.Clock{tokyo(true)}, live); got != "Tokyo 19:00 | 10:00" {
		t.Errorf("Summary world first = %q", got)
	}

	if got := p.Summary([]worldclock.Clock{tokyo(false)}, live); got != "10:00" {
		t.Errorf("Summary without visible clocks = %q", got)
	}
}

func TestSummary_SkipsUnresolvable(t *testing.T) {
	live := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p := newProjector(nil)

	broken := worldclock.New("Nowhere", "Mars/Olympus")
	broken.ShowInMenuBar = true
	ny := worldclock.New("NYC", "America/New_York")
	ny.ShowInMenuBar = true

	got := p.Summary([]worldclock.Clock{broken, tokyo(true), ny}, live)
	if got != "10:00 | Tokyo 19:00 | NYC 05:00" {
		t.Errorf("Summary = %q", got)
	}
}

func TestSummary_Formats(t *testing.T) {
	live := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p := newProjector(nil)
	p.LocalFormat = "h:mm a"
	p.WorldFormat = "EEE HH:mm"

	if got := p.Summary([]worldclock.Clock{tokyo(true)}, live); got != "10:00 AM | Tokyo Thu 19:00" {
		t.Errorf("Summary = %q", got)
	}
}

func TestProject_DayBadge(t *testing.T) {
	p := newProjector(nil)
	ny := worldclock.New("NYC", "America/New_York")

	tests := []struct {
		name  string
		clock worldclock.Clock
		live  time.Time
		want  string
	}{
		{"tokyo tomorrow", tokyo(false), time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC), "Tomorrow"},
		{"tokyo same day", tokyo(false), time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC), ""},
		{"new york yesterday", ny, time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC), "Yesterday"},
		{"new york same day", ny, time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC), ""},
		{"across new year", tokyo(false), time.Date(2026, 12, 31, 20, 0, 0, 0, time.UTC), "Tomorrow"},
		{"back into old year", ny, time.Date(2027, 1, 1, 2, 0, 0, 0, time.UTC), "Yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := p.Project(tt.clock, tt.live, nil)
			if f.DayBadge != tt.want {
				t.Errorf("DayBadge = %q, want %q", f.DayBadge, tt.want)
			}
		})
	}
}

func TestProject_OffsetLabel(t *testing.T) {
	live := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	p := newProjector(nil)

	tests := []struct {
		zone string
		want string
	}{
		{"Asia/Tokyo", "+9h from local"},
		{"America/New_York", "-5h from local"},
		{"Asia/Kolkata", "+5h from local"},
		{"America/St_Johns", "-3h from local"},
		{"UTC", "+0h from local"},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			f := p.Project(worldclock.New("x", tt.zone), live, nil)
			if f.UTCOffsetLabel != tt.want {
				t.Errorf("UTCOffsetLabel = %q, want %q", f.UTCOffsetLabel, tt.want)
			}
		})
	}
}

func TestProject_Daytime(t *testing.T) {
	p := newProjector(nil)

	tests := []struct {
		utcHour, utcMinute int
		want               bool
	}{
		{21, 0, true},   // 06:00 Tokyo
		{20, 59, false}, // 05:59 Tokyo
		{10, 59, true},  // 19:59 Tokyo
		{11, 0, false},  // 20:00 Tokyo
	}
	for _, tt := range tests {
		live := time.Date(2026, 1, 15, tt.utcHour, tt.utcMinute, 0, 0, time.UTC)
		if got := p.Project(tokyo(false), live, nil).IsDaytime; got != tt.want {
			t.Errorf("%02d:%02d UTC: IsDaytime = %v, want %v", tt.utcHour, tt.utcMinute, got, tt.want)
		}
	}
}

func TestProject_Unresolvable(t *testing.T) {
	p := newProjector(nil)
	f := p.Project(worldclock.New("Nowhere", "Mars/Olympus"), time.Now(), nil)

	if f.Available {
		t.Error("Available should be false")
	}
	if f.FormattedTime != Unavailable {
		t.Errorf("FormattedTime = %q, want %q", f.FormattedTime, Unavailable)
	}
	if f.UTCOffsetLabel != "" || f.DayBadge != "" {
		t.Errorf("unexpected derived facts: %+v", f)
	}
	if !f.IsDaytime {
		t.Error("unresolvable zones count as daytime")
	}
}

func TestProject_UnresolvableHidesCountryAndHoliday(t *testing.T) {
	live := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p := newProjector(stubHolidays{"JP": {Date: "2026-01-15", LocalName: "成人の日", CountryCode: "JP"}})

	f := p.Project(worldclock.New("Nowhere", "Mars/Olympus").WithCountry("JP"), live, nil)
	if f.Available || f.FormattedTime != Unavailable {
		t.Errorf("clock should be unavailable: %+v", f)
	}
	if f.HolidaySummary != "" || f.Flag != "" || f.CountryCode != "" {
		t.Errorf("unresolvable zone leaked country facts: %+v", f)
	}
}

func TestProject_Holiday(t *testing.T) {
	live := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		want string
	}{
		{"today", "2026-01-15", "Today · 成人の日"},
		{"tomorrow", "2026-01-16", "Tomorrow · 成人の日"},
		{"later", "2026-02-11", "Feb 11 · 成人の日"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProjector(stubHolidays{
				"JP": {Date: tt.date, LocalName: "成人の日", Name: "Coming of Age Day", CountryCode: "JP"},
			})
			f := p.Project(tokyo(false), live, nil)
			if f.HolidaySummary != tt.want {
				t.Errorf("HolidaySummary = %q, want %q", f.HolidaySummary, tt.want)
			}
		})
	}
}

func TestProject_HolidaySuppressedOnOverride(t *testing.T) {
	live := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p := newProjector(stubHolidays{"JP": {Date: "2026-01-15", LocalName: "x"}})

	override := live.Add(3 * time.Hour)
	f := p.Project(tokyo(false), live, &override)
	if f.HolidaySummary != "" {
		t.Errorf("HolidaySummary = %q, want empty", f.HolidaySummary)
	}
	if f.FormattedTime != "22:00" {
		t.Errorf("FormattedTime = %q, want override time 22:00", f.FormattedTime)
	}
}

func TestProject_CountryOverride(t *testing.T) {
	live := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p := newProjector(stubHolidays{
		"JP": {Date: "2026-01-15", LocalName: "jp"},
		"DE": {Date: "2026-01-15", LocalName: "de"},
	})

	f := p.Project(tokyo(false).WithCountry("de"), live, nil)
	if f.HolidaySummary != "Today · de" {
		t.Errorf("HolidaySummary = %q", f.HolidaySummary)
	}
	if f.Flag != "🇩🇪" {
		t.Errorf("Flag = %q", f.Flag)
	}
}

func TestConvert(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p := newProjector(nil)

	at, facts, ok := p.Convert([]worldclock.Clock{tokyo(false)}, "9am", now)
	if !ok {
		t.Fatal("Convert returned !ok")
	}
	if !at.Equal(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("at = %v", at)
	}
	if len(facts) != 1 || facts[0].FormattedTime != "18:00" {
		t.Errorf("facts = %+v", facts)
	}

	if _, _, ok := p.Convert([]worldclock.Clock{tokyo(false)}, "later", now); ok {
		t.Error("Convert accepted invalid input")
	}
}

func TestBoard(t *testing.T) {
	live := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p := newProjector(nil)

	b := p.Board([]worldclock.Clock{tokyo(true)}, live, nil)
	if b.Local.Time != "10:00" || b.Local.Date != "Thursday, 15 January 2026" {
		t.Errorf("header = %+v", b.Local)
	}
	if b.Converted {
		t.Error("Converted should be false without override")
	}
	if len(b.Clocks) != 1 || b.Summary != "10:00 | Tokyo 19:00" {
		t.Errorf("board = %+v", b)
	}
}

func TestRender(t *testing.T) {
	ui.SetColor(false)
	defer ui.SetColor(true)

	live := time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)
	p := newProjector(nil)
	b := p.Board([]worldclock.Clock{tokyo(false), worldclock.New("Nowhere", "Mars/Olympus")}, live, nil)

	var buf bytes.Buffer
	Render(&buf, b)
	out := buf.String()

	for _, want := range []string{"World Clock", "Tokyo", "05:00", "+9h from local", "UTC+9", "Tomorrow", "unknown zone Mars/Olympus"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q:\n%s", want, out)
		}
	}
}

func TestRender_Empty(t *testing.T) {
	ui.SetColor(false)
	defer ui.SetColor(true)

	var buf bytes.Buffer
	Render(&buf, newProjector(nil).Board(nil, time.Now(), nil))
	if !strings.Contains(buf.String(), "No world clocks yet") {
		t.Errorf("missing empty hint:\n%s", buf.String())
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	ui.SetColor(false)
	defer ui.SetColor(true)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan time.Time)
	p := newProjector(nil)
	clocks := []worldclock.Clock{tokyo(false)}

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		Watch(ctx, &buf, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC), ticks, func(now time.Time) Board {
			return p.Board(clocks, now, nil)
		})
	}()

	ticks <- time.Date(2026, 1, 15, 10, 0, 1, 0, time.UTC)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	if !strings.Contains(buf.String(), "Goodbye!") {
		t.Errorf("missing goodbye:\n%s", buf.String())
	}
}
