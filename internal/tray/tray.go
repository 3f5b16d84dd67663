// Package tray shows the summary line in the system tray and lists every
// world clock in its menu.
package tray

import (
	"context"
	"strings"
	"time"

	"fyne.io/systray"
	"github.com/rs/zerolog/log"

	"github.com/agent-platform/worldclock/internal/display"
)

// Backend supplies the frames shown in the tray.
type Backend interface {
	Board(now time.Time, override *time.Time) display.Board
	WarmHolidays()
}

// Ticks delivers one value per displayed minute or second.
type Ticks interface {
	Now() time.Time
	Subscribe() <-chan time.Time
	Unsubscribe(<-chan time.Time)
}

// App is the tray application.
type App struct {
	backend Backend
	ticks   Ticks
	cancel  context.CancelFunc

	header  *systray.MenuItem
	clocks  []*systray.MenuItem
	refresh *systray.MenuItem
	quit    *systray.MenuItem
}

// New creates a tray application.
func New(b Backend, ticks Ticks) *App {
	return &App{backend: b, ticks: ticks}
}

// Run blocks on the platform event loop until Quit is clicked or ctx is
// cancelled. It must be called from the main goroutine.
func (a *App) Run(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(func() { a.onReady(ctx) }, a.onExit)
}

func (a *App) onReady(ctx context.Context) {
	systray.SetTitle("")
	systray.SetTooltip("World Clock")

	a.header = systray.AddMenuItem("", "Local time")
	a.header.Disable()
	systray.AddSeparator()

	a.refresh = systray.AddMenuItem("Refresh holidays", "Fetch holidays for every clock")
	a.quit = systray.AddMenuItem("Quit", "Quit World Clock")

	a.update(a.ticks.Now())
	go a.loop(ctx)
}

func (a *App) loop(ctx context.Context) {
	sub := a.ticks.Subscribe()
	defer a.ticks.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case now, ok := <-sub:
			if !ok {
				return
			}
			a.update(now)
		case <-a.refresh.ClickedCh:
			a.backend.WarmHolidays()
		case <-a.quit.ClickedCh:
			a.cancel()
			return
		}
	}
}

func (a *App) update(now time.Time) {
	b := a.backend.Board(now, nil)
	systray.SetTitle(b.Summary)
	systray.SetTooltip(Tooltip(b))
	a.header.SetTitle(b.Local.Time + "  " + b.Local.Date)

	lines := MenuLines(b)
	for len(a.clocks) < len(lines) {
		item := systray.AddMenuItem("", "")
		item.Disable()
		a.clocks = append(a.clocks, item)
	}
	for i, item := range a.clocks {
		if i < len(lines) {
			item.SetTitle(lines[i])
			item.Show()
			continue
		}
		item.Hide()
	}
}

func (a *App) onExit() {
	log.Debug().Str("component", "tray").Msg("tray exited")
}

// MenuLines returns one menu line per clock: flag, label, time, day badge,
// offset and holiday.
func MenuLines(b display.Board) []string {
	lines := make([]string, 0, len(b.Clocks))
	for _, f := range b.Clocks {
		var parts []string
		if f.Flag != "" {
			parts = append(parts, f.Flag)
		}
		parts = append(parts, f.Label, f.FormattedTime)
		if f.DayBadge != "" {
			parts = append(parts, f.DayBadge)
		}
		if f.Available {
			parts = append(parts, "("+f.UTCOffsetLabel+")")
		}
		line := strings.Join(parts, " ")
		if f.HolidaySummary != "" {
			line += " · " + f.HolidaySummary
		}
		lines = append(lines, line)
	}
	return lines
}

// Tooltip is the hover text: the local date followed by each clock.
func Tooltip(b display.Board) string {
	var sb strings.Builder
	sb.WriteString(b.Local.Date)
	for _, line := range MenuLines(b) {
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	return sb.String()
}
