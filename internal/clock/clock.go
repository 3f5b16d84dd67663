// Package clock abstracts wall time so that ticking and "now"-dependent code
// can be driven by a fake clock in tests.
package clock

import "time"

// Clock is the source of the current instant and of periodic ticks.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers instants on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Real implements Clock using the system clock.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}

// NewTicker wraps time.NewTicker.
func (Real) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

var _ Clock = Real{}
