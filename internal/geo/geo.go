// Package geo turns a search string or a map coordinate into a place with an
// IANA zone. Only one request is outstanding at a time; starting a new one
// cancels the previous.
package geo

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNoResult is returned when nothing matches a query or coordinate.
	ErrNoResult = errors.New("no matching place")
	// ErrSuperseded is returned to a request that was replaced by a newer one.
	ErrSuperseded = errors.New("request superseded")
)

// Place is a resolved location.
type Place struct {
	Name        string `json:"name"`
	Zone        string `json:"zone"`
	CountryCode string `json:"countryCode,omitempty"`
}

// Resolver looks up places by name or coordinate.
type Resolver interface {
	Search(ctx context.Context, query string) ([]Place, error)
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

// Searcher serializes requests to a Resolver with cancel-previous semantics.
type Searcher struct {
	resolver Resolver

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSearcher wraps r.
func NewSearcher(r Resolver) *Searcher {
	return &Searcher{resolver: r}
}

// begin cancels the outstanding request and registers a new one.
func (s *Searcher) begin(ctx context.Context) (context.Context, uint64, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.seq++
	s.cancel = cancel
	return ctx, s.seq, cancel
}

func (s *Searcher) current(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return id == s.seq
}

// Search runs a name search. Results of a superseded search are dropped.
func (s *Searcher) Search(ctx context.Context, query string) ([]Place, error) {
	ctx, id, cancel := s.begin(ctx)
	defer cancel()

	places, err := s.resolver.Search(ctx, query)
	if !s.current(id) {
		return nil, ErrSuperseded
	}
	return places, err
}

// Reverse runs a coordinate lookup. Results of a superseded lookup are
// dropped.
func (s *Searcher) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	ctx, id, cancel := s.begin(ctx)
	defer cancel()

	place, err := s.resolver.Reverse(ctx, lat, lng)
	if !s.current(id) {
		return Place{}, ErrSuperseded
	}
	return place, err
}

// Cancel aborts the outstanding request, if any.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}
