package holiday

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultSchedule is the cron spec for periodic holiday refreshes.
const DefaultSchedule = "@every 1h"

// Scheduler refreshes a Cache on a cron schedule.
type Scheduler struct {
	cron  *cron.Cron
	cache *Cache
	spec  string
}

// NewScheduler registers the refresh job. An empty spec uses DefaultSchedule.
func NewScheduler(cache *Cache, spec string) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	s := &Scheduler{
		cron:  cron.New(),
		cache: cache,
		spec:  spec,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule holiday refresh %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	n, err := s.cache.RefreshNow(context.Background())
	if err != nil {
		log.Warn().Str("component", "holiday").Err(err).Msg("scheduled refresh failed")
		return
	}
	log.Debug().Str("component", "holiday").Int("countries", n).Msg("scheduled refresh ran")
}

// Jobs returns the number of registered cron entries.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	log.Info().Str("component", "holiday").Str("schedule", s.spec).Msg("holiday refresh scheduler started")
	s.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
