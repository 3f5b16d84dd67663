package holiday

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/agent-platform/worldclock/internal/clock"
)

// DefaultRefreshInterval bounds how often tracked countries are re-fetched.
const DefaultRefreshInterval = time.Hour

type state int

const (
	absent state = iota
	inFlight
	resolved
)

func (s state) String() string {
	switch s {
	case inFlight:
		return "fetching"
	case resolved:
		return "resolved"
	default:
		return "absent"
	}
}

type entry struct {
	state    state
	holidays []Holiday
	next     *Holiday
}

// Entry is a read-only view of one tracked country.
type Entry struct {
	Code     string    `json:"code"`
	State    string    `json:"state"`
	Next     *Holiday  `json:"next,omitempty"`
	Holidays []Holiday `json:"holidays"`
}

// Cache holds the next public holiday per country code. Each code is fetched
// at most once at a time; lookups never wait for the network.
type Cache struct {
	fetcher  Fetcher
	clock    clock.Clock
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.RWMutex
	entries     map[string]*entry
	lastRefresh time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the clock used for refresh bookkeeping.
func WithClock(c clock.Clock) Option {
	return func(cache *Cache) { cache.clock = c }
}

// WithRefreshInterval sets the minimum time between refreshes.
func WithRefreshInterval(d time.Duration) Option {
	return func(cache *Cache) {
		if d > 0 {
			cache.interval = d
		}
	}
}

// NewCache returns an empty cache backed by f. The refresh interval starts
// counting at construction.
func NewCache(f Fetcher, opts ...Option) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		fetcher:  f,
		clock:    clock.Real{},
		interval: DefaultRefreshInterval,
		ctx:      ctx,
		cancel:   cancel,
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastRefresh = c.clock.Now()
	return c
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// entryLocked returns the entry for code, creating it. c.mu must be held.
func (c *Cache) entryLocked(code string) *entry {
	e, ok := c.entries[code]
	if !ok {
		e = &entry{}
		c.entries[code] = e
	}
	return e
}

// Track registers code without fetching it.
func (c *Cache) Track(code string) {
	code = normalize(code)
	if code == "" {
		return
	}
	c.mu.Lock()
	c.entryLocked(code)
	c.mu.Unlock()
}

// Tracked returns every known country code, sorted.
func (c *Cache) Tracked() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	codes := make([]string, 0, len(c.entries))
	for code := range c.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// FetchIfNeeded starts a background fetch for code unless one is running or
// the code is already resolved. Empty codes are ignored.
func (c *Cache) FetchIfNeeded(code string) {
	code = normalize(code)
	if code == "" {
		return
	}

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	e := c.entryLocked(code)
	if e.state != absent {
		c.mu.Unlock()
		return
	}
	e.state = inFlight
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		c.complete(code, c.fetcher.Fetch(c.ctx, code))
	}()
}

func (c *Cache) complete(code string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(code)
	if r.Err != nil || c.ctx.Err() != nil {
		// The previously published holiday stays visible.
		e.state = absent
		log.Debug().Str("component", "holiday").Str("country", code).Err(r.Err).Msg("holiday fetch failed")
		return
	}

	e.state = resolved
	e.holidays = r.Holidays
	e.next = nil
	if len(r.Holidays) > 0 {
		next := r.Holidays[0]
		e.next = &next
	}
	log.Debug().Str("component", "holiday").Str("country", code).Int("count", len(r.Holidays)).Msg("holidays fetched")
}

// Lookup returns the next holiday for code, if one has been published.
func (c *Cache) Lookup(code string) (Holiday, bool) {
	code = normalize(code)
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[code]
	if !ok || e.next == nil {
		return Holiday{}, false
	}
	return *e.next, true
}

// Holidays returns every cached holiday for code in service order.
func (c *Cache) Holidays(code string) []Holiday {
	code = normalize(code)
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[code]
	if !ok {
		return nil
	}
	return append([]Holiday(nil), e.holidays...)
}

func (e *entry) view(code string) Entry {
	ent := Entry{
		Code:     code,
		State:    e.state.String(),
		Holidays: append([]Holiday{}, e.holidays...),
	}
	if e.next != nil {
		next := *e.next
		ent.Next = &next
	}
	return ent
}

// Entry returns the state of one code.
func (c *Cache) Entry(code string) (Entry, bool) {
	code = normalize(code)
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[code]
	if !ok {
		return Entry{Code: code, State: absent.String(), Holidays: []Holiday{}}, false
	}
	return e.view(code), true
}

// Entries lists every tracked code with its state.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for code, e := range c.entries {
		out = append(out, e.view(code))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// RefreshDue reports whether a full refresh is allowed at now.
func (c *Cache) RefreshDue(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return now.Sub(c.lastRefresh) >= c.interval
}

// Refresh re-fetches every tracked code that is not already in flight and
// waits for the fetches to finish. It does nothing when called again within
// the refresh interval. It returns the number of codes fetched and the first
// fetch failure; failed codes keep their published holiday.
func (c *Cache) Refresh(ctx context.Context, now time.Time) (int, error) {
	return c.refresh(ctx, now, false)
}

// RefreshNow is Refresh without the interval check, for callers that
// schedule refreshes themselves.
func (c *Cache) RefreshNow(ctx context.Context) (int, error) {
	return c.refresh(ctx, c.clock.Now(), true)
}

func (c *Cache) refresh(ctx context.Context, now time.Time, force bool) (int, error) {
	c.mu.Lock()
	if (!force && now.Sub(c.lastRefresh) < c.interval) || c.ctx.Err() != nil {
		c.mu.Unlock()
		return 0, nil
	}
	c.lastRefresh = now
	var codes []string
	for code, e := range c.entries {
		if e.state == inFlight {
			continue
		}
		e.state = inFlight
		codes = append(codes, code)
	}
	c.wg.Add(len(codes))
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	// A plain group: one failing country must not cancel the others.
	var g errgroup.Group
	for _, code := range codes {
		g.Go(func() error {
			defer c.wg.Done()
			r := c.fetcher.Fetch(ctx, code)
			c.complete(code, r)
			if r.Err != nil {
				return fmt.Errorf("refresh %s: %w", code, r.Err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return len(codes), err
	}
	log.Info().Str("component", "holiday").Int("countries", len(codes)).Msg("holiday cache refreshed")
	return len(codes), nil
}

// Snapshot returns the cached holiday lists for persistence.
func (c *Cache) Snapshot() map[string][]Holiday {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]Holiday, len(c.entries))
	for code, e := range c.entries {
		if len(e.holidays) > 0 {
			out[code] = append([]Holiday(nil), e.holidays...)
		}
	}
	return out
}

// Restore publishes previously persisted lists. Restored codes stay eligible
// for a fresh fetch; their holidays are shown until it completes.
func (c *Cache) Restore(snapshot map[string][]Holiday) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for code, holidays := range snapshot {
		code = normalize(code)
		if code == "" || len(holidays) == 0 {
			continue
		}
		e := c.entryLocked(code)
		if e.state != absent {
			continue
		}
		e.holidays = append([]Holiday(nil), holidays...)
		next := holidays[0]
		e.next = &next
	}
}

// Wait blocks until every dispatched fetch has completed.
func (c *Cache) Wait() {
	c.wg.Wait()
}

// Close cancels outstanding fetches. Their results are discarded.
func (c *Cache) Close() {
	c.cancel()
}
