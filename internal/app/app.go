// Package app wires configuration, persistence, the zone registry and the
// holiday cache into the object every command works with.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agent-platform/worldclock/internal/clock"
	"github.com/agent-platform/worldclock/internal/config"
	"github.com/agent-platform/worldclock/internal/display"
	"github.com/agent-platform/worldclock/internal/geo"
	"github.com/agent-platform/worldclock/internal/holiday"
	"github.com/agent-platform/worldclock/internal/store"
	"github.com/agent-platform/worldclock/internal/worldclock"
	"github.com/agent-platform/worldclock/internal/zone"
)

// App is the running application state.
type App struct {
	cfg      *config.Config
	clock    clock.Clock
	local    *time.Location
	store    *store.Store
	registry *zone.Registry
	holidays *holiday.Cache
	places   *geo.Searcher

	mu    sync.RWMutex
	prefs store.Preferences
}

// Option customizes New.
type Option func(*options)

type options struct {
	clock   clock.Clock
	fetcher holiday.Fetcher
	local   *time.Location
	table   zone.Table
}

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithFetcher replaces the HTTP holiday client.
func WithFetcher(f holiday.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithLocal sets the zone treated as local instead of time.Local.
func WithLocal(loc *time.Location) Option {
	return func(o *options) { o.local = loc }
}

// WithZoneTable skips reading the zone.tab file.
func WithZoneTable(t zone.Table) Option {
	return func(o *options) { o.table = t }
}

// New opens the store, loads preferences and restores the holiday cache.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := options{clock: clock.Real{}, local: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	table := o.table
	if table == nil {
		t, err := zone.LoadZoneTab(cfg.ZoneTab)
		if err != nil {
			log.Warn().Str("component", "zone").Err(err).Str("path", cfg.ZoneTab).Msg("zone table unavailable, country lookups disabled")
			t = zone.Table{}
		}
		table = t
	}
	registry := zone.NewRegistry(table)

	if store.DetectDialect(cfg.Database) == store.DialectSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	st, err := store.New(cfg.Database)
	if err != nil {
		return nil, err
	}

	defaults := store.DefaultPreferences()
	if cfg.Display.LocalFormat != "" {
		defaults.MenuBarFormat = cfg.Display.LocalFormat
	}
	if cfg.Display.WorldFormat != "" {
		defaults.WorldClockFormat = cfg.Display.WorldFormat
	}
	defaults.WorldFirst = cfg.Display.WorldFirst

	prefs, err := st.LoadPreferences(defaults)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = holiday.NewClient(cfg.Holidays.Endpoint, cfg.Holidays.Timeout())
	}
	cache := holiday.NewCache(fetcher, holiday.WithClock(o.clock))
	if snapshot, err := st.LoadHolidays(); err != nil {
		log.Warn().Str("component", "holiday").Err(err).Msg("ignoring stored holiday snapshot")
	} else {
		cache.Restore(snapshot)
	}

	return &App{
		cfg:      cfg,
		clock:    o.clock,
		local:    o.local,
		store:    st,
		registry: registry,
		holidays: cache,
		places:   geo.NewSearcher(geo.NewOffline(registry)),
		prefs:    prefs,
	}, nil
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Clock returns the clock driving the application.
func (a *App) Clock() clock.Clock { return a.clock }

// Registry returns the zone registry.
func (a *App) Registry() *zone.Registry { return a.registry }

// Holidays returns the holiday cache.
func (a *App) Holidays() *holiday.Cache { return a.holidays }

// Places returns the place searcher.
func (a *App) Places() *geo.Searcher { return a.places }

// Preferences returns a copy of the current preferences.
func (a *App) Preferences() store.Preferences {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p := a.prefs
	p.WorldClocks = append(worldclock.List{}, a.prefs.WorldClocks...)
	return p
}

// Clocks returns the configured clocks in order.
func (a *App) Clocks() worldclock.List {
	return a.Preferences().WorldClocks
}

// UpdatePreferences applies fn to a copy of the preferences and persists the
// result. Nothing changes when fn fails.
func (a *App) UpdatePreferences(fn func(*store.Preferences) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.prefs
	next.WorldClocks = append(worldclock.List{}, a.prefs.WorldClocks...)
	if err := fn(&next); err != nil {
		return err
	}
	if err := a.store.SavePreferences(next); err != nil {
		return err
	}
	a.prefs = next
	return nil
}

// UpdateClocks is UpdatePreferences restricted to the clock list.
func (a *App) UpdateClocks(fn func(*worldclock.List) error) error {
	return a.UpdatePreferences(func(p *store.Preferences) error {
		return fn(&p.WorldClocks)
	})
}

// AddClock validates zoneID and appends a clock. An empty label defaults to
// the city part of the identifier.
func (a *App) AddClock(label, zoneID, country string) (worldclock.Clock, error) {
	zoneID = strings.TrimSpace(zoneID)
	if _, ok := a.registry.Resolve(zoneID); !ok {
		return worldclock.Clock{}, fmt.Errorf("unknown time zone %q", zoneID)
	}
	if strings.TrimSpace(label) == "" {
		label = zone.CityName(zoneID)
	}
	c := worldclock.New(label, zoneID).WithCountry(country)

	if err := a.UpdateClocks(func(l *worldclock.List) error {
		l.Add(c)
		return nil
	}); err != nil {
		return worldclock.Clock{}, err
	}
	a.fetchHoliday(c)
	return c, nil
}

// Projector returns a display projector for the current preferences.
func (a *App) Projector() *display.Projector {
	p := a.Preferences()
	proj := &display.Projector{
		Registry:    a.registry,
		Local:       a.local,
		LocalFormat: p.MenuBarFormat,
		WorldFormat: p.WorldClockFormat,
		WorldFirst:  p.WorldFirst,
	}
	if a.cfg.Holidays.Enabled {
		proj.Holidays = a.holidays
	}
	return proj
}

// summaryClocks returns the clocks eligible for the summary line, which is
// none unless the user enabled world clocks there.
func (a *App) summaryClocks(p store.Preferences) []worldclock.Clock {
	if !p.ShowWorldClocksInMenuBar {
		return nil
	}
	return p.WorldClocks
}

// Summary returns the one-line status text at now.
func (a *App) Summary(now time.Time) string {
	return a.Projector().Summary(a.summaryClocks(a.Preferences()), now)
}

// SummaryFormat is Summary with pattern as the local time format.
func (a *App) SummaryFormat(now time.Time, pattern string) string {
	proj := a.Projector()
	proj.LocalFormat = pattern
	return proj.Summary(a.summaryClocks(a.Preferences()), now)
}

// Board projects every clock at now, or at override in converter mode.
func (a *App) Board(now time.Time, override *time.Time) display.Board {
	p := a.Preferences()
	proj := a.Projector()
	b := proj.Board(p.WorldClocks, now, override)
	b.Summary = proj.Summary(a.summaryClocks(p), now)
	return b
}

// Convert parses text as a local time today and projects every clock at it.
func (a *App) Convert(text string, now time.Time) (display.Board, bool) {
	at, _, ok := a.Projector().Convert(nil, text, now)
	if !ok {
		return display.Board{}, false
	}
	return a.Board(now, &at), true
}

// HolidayStatus returns the cache entry for code and starts a fetch when
// nothing is cached yet.
func (a *App) HolidayStatus(code string) holiday.Entry {
	if a.cfg.Holidays.Enabled {
		a.holidays.FetchIfNeeded(code)
	}
	e, _ := a.holidays.Entry(code)
	return e
}

// CountryFor resolves the holiday country for c.
func (a *App) CountryFor(c worldclock.Clock) (string, bool) {
	return c.ResolveCountry(a.registry)
}

func (a *App) fetchHoliday(c worldclock.Clock) {
	if !a.cfg.Holidays.Enabled {
		return
	}
	if code, ok := a.CountryFor(c); ok {
		a.holidays.FetchIfNeeded(code)
	}
}

// WarmHolidays starts a fetch for every clock's country.
func (a *App) WarmHolidays() {
	for _, c := range a.Clocks() {
		a.fetchHoliday(c)
	}
}

// Close cancels outstanding fetches, persists the holiday snapshot and
// closes the store.
func (a *App) Close() error {
	a.holidays.Close()
	if err := a.store.SaveHolidays(a.holidays.Snapshot()); err != nil {
		log.Warn().Str("component", "holiday").Err(err).Msg("could not persist holiday snapshot")
	}
	return a.store.Close()
}
