package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chaudhari-piyush/talentlens/internal/talentlens"
)

type stubAPI struct {
	jobs          *talentlens.Jobs
	candidates    *talentlens.Candidates
	jobsErr       error
	candidatesErr error
}

func (s *stubAPI) ListJobs() (*talentlens.Jobs, error) {
	if s.jobsErr != nil {
		return nil, s.jobsErr
	}
	return s.jobs, nil
}

func (s *stubAPI) ListCandidates() (*talentlens.Candidates, error) {
	if s.candidatesErr != nil {
		return nil, s.candidatesErr
	}
	return s.candidates, nil
}

func TestLoadJobsReplacesSnapshot(t *testing.T) {
	api := &stubAPI{jobs: &talentlens.Jobs{Items: []*talentlens.Job{{ID: 1}}}}
	s := New(api, zap.NewNop())

	require.NoError(t, s.LoadJobs())
	assert.Equal(t, 1, s.Jobs().Len())

	api.jobs = &talentlens.Jobs{Items: []*talentlens.Job{{ID: 2}, {ID: 3}}}
	require.NoError(t, s.LoadJobs())
	assert.Equal(t, 2, s.Jobs().Len())
	assert.Nil(t, s.Jobs().FindByID(1))
}

func TestLoadKeepsPreviousSnapshotOnError(t *testing.T) {
	api := &stubAPI{
		jobs:       &talentlens.Jobs{Items: []*talentlens.Job{{ID: 1}}},
		candidates: &talentlens.Candidates{Items: []*talentlens.Candidate{{ID: 7}}},
	}
	s := New(api, zap.NewNop())

	require.NoError(t, s.LoadJobs())
	require.NoError(t, s.LoadCandidates())

	api.jobsErr = errors.New("network unreachable")
	api.candidatesErr = errors.New("network unreachable")

	assert.Error(t, s.LoadJobs())
	assert.Error(t, s.LoadCandidates())

	assert.Equal(t, 1, s.Jobs().Len())
	assert.Equal(t, 1, s.Candidates().Len())
}

func TestRefreshReplacesBothAtomically(t *testing.T) {
	api := &stubAPI{
		jobs:       &talentlens.Jobs{Items: []*talentlens.Job{{ID: 1}}},
		candidates: &talentlens.Candidates{Items: []*talentlens.Candidate{{ID: 7, JobID: 1}}},
	}
	s := New(api, zap.NewNop())

	require.NoError(t, s.Refresh())
	assert.Equal(t, 1, s.Jobs().Len())
	assert.Equal(t, 1, s.Candidates().Len())
}

// A single failed fetch fails the combined load: neither collection may be
// replaced, or the dashboard would join fresh candidates against stale jobs.
func TestRefreshPartialFailureKeepsBothSnapshots(t *testing.T) {
	api := &stubAPI{
		jobs:       &talentlens.Jobs{Items: []*talentlens.Job{{ID: 1}}},
		candidates: &talentlens.Candidates{Items: []*talentlens.Candidate{{ID: 7, JobID: 1}}},
	}
	s := New(api, zap.NewNop())
	require.NoError(t, s.Refresh())

	api.jobs = &talentlens.Jobs{Items: []*talentlens.Job{{ID: 1}, {ID: 2}}}
	api.candidatesErr = errors.New("auth expired")

	require.Error(t, s.Refresh())

	assert.Equal(t, 1, s.Jobs().Len())
	assert.Equal(t, 1, s.Candidates().Len())
}

func TestEmptyStoreIsReadable(t *testing.T) {
	s := New(&stubAPI{}, zap.NewNop())
	assert.Equal(t, 0, s.Jobs().Len())
	assert.Equal(t, 0, s.Candidates().Len())
}
