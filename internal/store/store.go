// Package store holds the jobs and candidates collections for the current
// view. Collections are replaced wholesale on each successful load; a failed
// load keeps the previous snapshot visible.
package store

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chaudhari-piyush/talentlens/internal/talentlens"
)

// API is the subset of the backend client the store needs.
type API interface {
	ListJobs() (*talentlens.Jobs, error)
	ListCandidates() (*talentlens.Candidates, error)
}

type Store struct {
	api    API
	logger *zap.Logger

	mu         sync.RWMutex
	jobs       *talentlens.Jobs
	candidates *talentlens.Candidates
}

func New(api API, logger *zap.Logger) *Store {
	return &Store{
		api:        api,
		logger:     logger,
		jobs:       &talentlens.Jobs{},
		candidates: &talentlens.Candidates{},
	}
}

// LoadJobs fetches the full jobs collection and swaps it in. On error the
// prior collection stays intact.
func (s *Store) LoadJobs() error {
	jobs, err := s.api.ListJobs()
	if err != nil {
		s.logger.Warn("loading jobs failed; keeping previous snapshot", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.jobs = jobs
	s.mu.Unlock()

	s.logger.Debug("loaded jobs", zap.Int("count", jobs.Len()))
	return nil
}

// LoadCandidates fetches the full candidates collection and swaps it in. On
// error the prior collection stays intact.
func (s *Store) LoadCandidates() error {
	candidates, err := s.api.ListCandidates()
	if err != nil {
		s.logger.Warn("loading candidates failed; keeping previous snapshot", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.candidates = candidates
	s.mu.Unlock()

	s.logger.Debug("loaded candidates", zap.Int("count", candidates.Len()))
	return nil
}

// Refresh fetches jobs and candidates concurrently. Either failure fails the
// combined load and neither collection is replaced, so readers never observe a
// half-updated pair.
func (s *Store) Refresh() error {
	var (
		jobs       *talentlens.Jobs
		candidates *talentlens.Candidates
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		jobs, err = s.api.ListJobs()
		return err
	})
	g.Go(func() error {
		var err error
		candidates, err = s.api.ListCandidates()
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("refresh failed; keeping previous snapshots", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.jobs = jobs
	s.candidates = candidates
	s.mu.Unlock()

	s.logger.Debug("refreshed collections",
		zap.Int("jobs", jobs.Len()),
		zap.Int("candidates", candidates.Len()),
	)
	return nil
}

// Jobs returns the current jobs snapshot. The collection is never mutated in
// place, only replaced, so the returned value is stable.
func (s *Store) Jobs() *talentlens.Jobs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs
}

// Candidates returns the current candidates snapshot.
func (s *Store) Candidates() *talentlens.Candidates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candidates
}
