package holiday

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agent-platform/worldclock/internal/clock"
)

// stubFetcher counts calls per code. When gate is set, fetches block until it
// is closed or their context ends.
type stubFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	results map[string]Result
	gate    chan struct{}
}

func newStub() *stubFetcher {
	return &stubFetcher{calls: map[string]int{}, results: map[string]Result{}}
}

func (s *stubFetcher) set(code string, r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[code] = r
}

func (s *stubFetcher) count(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[code]
}

func (s *stubFetcher) Fetch(ctx context.Context, code string) Result {
	s.mu.Lock()
	s.calls[code]++
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Result{Err: ctx.Err()}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[code]
}

var (
	foundationDay = Holiday{Date: "2026-02-11", LocalName: "建国記念の日", CountryCode: "JP"}
	emperorsDay   = Holiday{Date: "2026-02-23", LocalName: "天皇誕生日", CountryCode: "JP"}
)

func TestCache_SingleFlight(t *testing.T) {
	stub := newStub()
	stub.gate = make(chan struct{})
	stub.set("JP", Result{Holidays: []Holiday{foundationDay, emperorsDay}})

	c := NewCache(stub)
	defer c.Close()

	var wg sync.WaitGroup
	for _, code := range []string{"JP", "jp", " JP ", "Jp", "JP", "jp", "JP", "JP"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.FetchIfNeeded(code)
		}()
	}
	wg.Wait()

	_, ok := c.Lookup("JP")
	assert.False(t, ok, "nothing is published while in flight")

	close(stub.gate)
	c.Wait()

	assert.Equal(t, 1, stub.count("JP"))
	h, ok := c.Lookup("jp")
	require.True(t, ok)
	assert.Equal(t, foundationDay, h)

	c.FetchIfNeeded("JP")
	c.Wait()
	assert.Equal(t, 1, stub.count("JP"), "resolved codes are not fetched again")
}

func TestCache_EmptyResultResolves(t *testing.T) {
	stub := newStub()
	stub.set("IS", Result{Holidays: []Holiday{}})

	c := NewCache(stub)
	defer c.Close()

	c.FetchIfNeeded("IS")
	c.Wait()
	_, ok := c.Lookup("IS")
	assert.False(t, ok)

	c.FetchIfNeeded("IS")
	c.Wait()
	assert.Equal(t, 1, stub.count("IS"))
	assert.Equal(t, "resolved", c.Entries()[0].State)
}

func TestCache_FailureAllowsRetry(t *testing.T) {
	stub := newStub()
	stub.set("DE", Result{Err: errors.New("boom")})

	c := NewCache(stub)
	defer c.Close()

	c.FetchIfNeeded("DE")
	c.Wait()
	_, ok := c.Lookup("DE")
	assert.False(t, ok)
	assert.Equal(t, "absent", c.Entries()[0].State)

	c.FetchIfNeeded("DE")
	c.Wait()
	assert.Equal(t, 2, stub.count("DE"))
}

func TestCache_IgnoresEmptyCode(t *testing.T) {
	stub := newStub()
	c := NewCache(stub)
	defer c.Close()

	c.FetchIfNeeded("")
	c.FetchIfNeeded("   ")
	c.Track("")
	c.Wait()

	assert.Empty(t, c.Tracked())
	assert.Zero(t, stub.count(""))
}

func TestCache_RefreshInterval(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	stub := newStub()
	stub.set("JP", Result{Holidays: []Holiday{foundationDay}})

	c := NewCache(stub, WithClock(fake), WithRefreshInterval(time.Hour))
	defer c.Close()

	c.FetchIfNeeded("JP")
	c.Wait()

	assert.False(t, c.RefreshDue(fake.Now()))
	n, err := c.Refresh(context.Background(), fake.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	fake.Advance(time.Hour)
	assert.True(t, c.RefreshDue(fake.Now()))

	stub.set("JP", Result{Holidays: []Holiday{emperorsDay}})
	n, err = c.Refresh(context.Background(), fake.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, stub.count("JP"))

	h, ok := c.Lookup("JP")
	require.True(t, ok)
	assert.Equal(t, emperorsDay, h)

	n, err = c.Refresh(context.Background(), fake.Now())
	require.NoError(t, err)
	assert.Zero(t, n, "second refresh inside the interval is a no-op")
}

func TestCache_RefreshFailureKeepsPublished(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	stub := newStub()
	stub.set("JP", Result{Holidays: []Holiday{foundationDay}})

	c := NewCache(stub, WithClock(fake))
	defer c.Close()

	c.FetchIfNeeded("JP")
	c.Wait()

	fake.Advance(2 * time.Hour)
	stub.set("JP", Result{Err: errors.New("offline")})
	n, err := c.Refresh(context.Background(), fake.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh JP")
	assert.Equal(t, 1, n)

	h, ok := c.Lookup("JP")
	require.True(t, ok)
	assert.Equal(t, foundationDay, h)
	assert.Equal(t, "absent", c.Entries()[0].State)
}

func TestCache_RefreshIncludesTracked(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	stub := newStub()
	stub.set("FR", Result{Holidays: []Holiday{{Date: "2026-04-06", LocalName: "Lundi de Pâques", CountryCode: "FR"}}})

	c := NewCache(stub, WithClock(fake))
	defer c.Close()

	c.Track("fr")
	assert.Equal(t, []string{"FR"}, c.Tracked())

	fake.Advance(time.Hour)
	n, err := c.Refresh(context.Background(), fake.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, ok := c.Lookup("FR")
	assert.True(t, ok)
}

func TestCache_CloseAbandonsFetches(t *testing.T) {
	stub := newStub()
	stub.gate = make(chan struct{})
	stub.set("JP", Result{Holidays: []Holiday{foundationDay}})

	c := NewCache(stub)
	c.FetchIfNeeded("JP")
	c.Close()
	c.Wait()

	_, ok := c.Lookup("JP")
	assert.False(t, ok)

	c.FetchIfNeeded("JP")
	c.Wait()
	assert.Equal(t, 1, stub.count("JP"), "no fetches after close")
}

func TestCache_SnapshotRestore(t *testing.T) {
	stub := newStub()
	stub.set("JP", Result{Holidays: []Holiday{foundationDay, emperorsDay}})

	c := NewCache(stub)
	c.FetchIfNeeded("JP")
	c.Wait()
	snap := c.Snapshot()
	c.Close()

	require.Len(t, snap["JP"], 2)

	warm := NewCache(newStub())
	defer warm.Close()
	warm.Restore(snap)

	h, ok := warm.Lookup("JP")
	require.True(t, ok)
	assert.Equal(t, foundationDay, h)
	assert.Len(t, warm.Holidays("JP"), 2)
	assert.Equal(t, "absent", warm.Entries()[0].State, "restored entries are fetched again")
}

func TestCache_Entry(t *testing.T) {
	stub := newStub()
	stub.set("JP", Result{Holidays: []Holiday{foundationDay}})
	c := NewCache(stub)
	defer c.Close()

	e, ok := c.Entry("jp")
	assert.False(t, ok)
	assert.Equal(t, "JP", e.Code)
	assert.Equal(t, "absent", e.State)

	c.FetchIfNeeded("JP")
	c.Wait()
	e, ok = c.Entry("JP")
	require.True(t, ok)
	assert.Equal(t, "resolved", e.State)
	require.NotNil(t, e.Next)
	assert.Equal(t, foundationDay, *e.Next)
}

func TestCache_RefreshFailureDoesNotCancelOthers(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	stub := newStub()
	stub.set("JP", Result{Err: errors.New("offline")})
	stub.set("FR", Result{Holidays: []Holiday{{Date: "2026-04-06", LocalName: "Lundi de Pâques", CountryCode: "FR"}}})

	c := NewCache(stub, WithClock(fake))
	defer c.Close()

	c.Track("JP")
	c.Track("FR")

	fake.Advance(time.Hour)
	n, err := c.Refresh(context.Background(), fake.Now())
	require.Error(t, err)
	assert.Equal(t, 2, n)

	e, ok := c.Entry("FR")
	require.True(t, ok)
	assert.Equal(t, "resolved", e.State)
	e, _ = c.Entry("JP")
	assert.Equal(t, "absent", e.State)
}

func TestCache_RefreshNowIgnoresInterval(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 1, 15, 12, 0, 0, 400_000_000, time.UTC))
	stub := newStub()
	stub.set("JP", Result{Holidays: []Holiday{foundationDay}})

	c := NewCache(stub, WithClock(fake), WithRefreshInterval(time.Hour))
	defer c.Close()

	c.FetchIfNeeded("JP")
	c.Wait()

	n, err := c.RefreshNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, stub.count("JP"))
	assert.False(t, c.RefreshDue(fake.Now()), "forced refresh restarts the interval")
}
