// Package ticker owns the live instant. A single goroutine advances it once
// per second and fans it out to subscribers.
package ticker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agent-platform/worldclock/internal/clock"
)

// Refresher is the holiday refresh hook consulted on every tick.
type Refresher interface {
	RefreshDue(now time.Time) bool
	Refresh(ctx context.Context, now time.Time) (int, error)
}

// Source publishes the current instant.
type Source struct {
	clock     clock.Clock
	interval  time.Duration
	refresher Refresher

	mu   sync.RWMutex
	now  time.Time
	subs map[<-chan time.Time]chan time.Time

	refreshing atomic.Bool
}

// Option configures a Source.
type Option func(*Source)

// WithInterval overrides the one-second tick.
func WithInterval(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithRefresher attaches a refresh hook.
func WithRefresher(r Refresher) Option {
	return func(s *Source) { s.refresher = r }
}

// New returns a Source reading c.
func New(c clock.Clock, opts ...Option) *Source {
	s := &Source{
		clock:    c,
		interval: time.Second,
		now:      c.Now(),
		subs:     make(map[<-chan time.Time]chan time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the most recently published instant.
func (s *Source) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now
}

// Subscribe returns a channel receiving every new instant. Slow receivers
// miss ticks rather than stall the source.
func (s *Source) Subscribe() <-chan time.Time {
	ch := make(chan time.Time, 1)
	s.mu.Lock()
	s.subs[ch] = ch
	s.mu.Unlock()
	return ch
}

// Unsubscribe stops delivery to ch and closes it.
func (s *Source) Unsubscribe(ch <-chan time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(c)
	}
}

// Run ticks until ctx is cancelled. All subscriber channels are closed on
// return.
func (s *Source) Run(ctx context.Context) {
	t := s.clock.NewTicker(s.interval)
	defer t.Stop()
	defer s.closeAll()

	log.Info().Str("component", "ticker").Dur("interval", s.interval).Msg("clock tick source started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			s.tick(ctx, s.clock.Now())
		}
	}
}

func (s *Source) tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	s.now = now
	for _, ch := range s.subs {
		select {
		case ch <- now:
		default:
		}
	}
	s.mu.Unlock()

	if s.refresher == nil || !s.refresher.RefreshDue(now) {
		return
	}
	if !s.refreshing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.refreshing.Store(false)
		if _, err := s.refresher.Refresh(ctx, now); err != nil {
			log.Debug().Str("component", "ticker").Err(err).Msg("holiday refresh failed")
		}
	}()
}

func (s *Source) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, ch := range s.subs {
		delete(s.subs, key)
		close(ch)
	}
}
