package submission_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chaudhari-piyush/talentlens/internal/scoring"
	"github.com/chaudhari-piyush/talentlens/internal/store"
	"github.com/chaudhari-piyush/talentlens/internal/submission"
	"github.com/chaudhari-piyush/talentlens/internal/talentlens"
)

// fakeBackend is an in-memory rendition of the REST contract: jobs and
// candidates collections with create/list/delete and cascading job deletes.
type fakeBackend struct {
	mu         sync.Mutex
	jobs       map[int64]map[string]any
	candidates map[int64]map[string]any
	nextJob    int64
	nextCand   int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		jobs:       make(map[int64]map[string]any),
		candidates: make(map[int64]map[string]any),
		nextJob:    1,
		nextCand:   1,
	}
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		f.mu.Lock()
		id := f.nextJob
		f.nextJob++
		req["id"] = id
		req["created_at"] = time.Now().UTC().Format(time.RFC3339)
		f.jobs[id] = req
		f.mu.Unlock()

		json.NewEncoder(w).Encode(req)
	})

	mux.HandleFunc("GET /api/jobs/", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		items := make([]map[string]any, 0, len(f.jobs))
		for _, job := range f.jobs {
			items = append(items, job)
		}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(items)
	})

	mux.HandleFunc("DELETE /api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		f.mu.Lock()
		delete(f.jobs, id)
		// Cascade to the job's candidates, as the backend does.
		for cid, cand := range f.candidates {
			if cand["job_id"] == id {
				delete(f.candidates, cid)
			}
		}
		f.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /api/candidates/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(20<<20))
		jobID, _ := strconv.ParseInt(r.FormValue("job_id"), 10, 64)

		f.mu.Lock()
		if _, ok := f.jobs[jobID]; !ok {
			f.mu.Unlock()
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Job not found"})
			return
		}

		id := f.nextCand
		f.nextCand++
		cand := map[string]any{
			"id":         id,
			"job_id":     jobID,
			"name":       r.FormValue("name"),
			"email":      r.FormValue("email"),
			"phone":      r.FormValue("phone"),
			"created_at": time.Now().UTC().Format(time.RFC3339),
		}
		f.candidates[id] = cand
		f.mu.Unlock()

		json.NewEncoder(w).Encode(cand)
	})

	mux.HandleFunc("GET /api/candidates/", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		items := make([]map[string]any, 0, len(f.candidates))
		for _, cand := range f.candidates {
			items = append(items, cand)
		}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(items)
	})

	return mux
}

func pdfResume(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte("%PDF-1.4"))
	return data
}

func TestSubmitThenListJoinsJobAndShowsPendingScores(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	client := talentlens.New(context.Background(), zap.NewNop(), nil)
	client.APIURL = server.URL

	job, err := client.CreateJob(&talentlens.JobRequest{
		Name:           "Backend Engineer",
		Description:    "Build services",
		ExpectedSkills: []string{"Go", "SQL"},
	})
	require.NoError(t, err)

	workflow := submission.New(client, zap.NewNop())
	workflow.TickInterval = time.Millisecond
	workflow.AnalysisPause = 0

	candidate, err := workflow.Submit(context.Background(), &submission.Input{
		Name:           "Ada",
		Email:          "ada@x.com",
		Phone:          "+1 555 0100",
		JobID:          job.ID,
		ResumeFilename: "ada.pdf",
		Resume:         pdfResume(2 << 20),
	})
	require.NoError(t, err)
	require.Equal(t, submission.StateSucceeded, workflow.Snapshot().State)

	s := store.New(client, zap.NewNop())
	require.NoError(t, s.Refresh())

	listed := s.Candidates().FindByID(candidate.ID)
	require.NotNil(t, listed)

	_, scored := scoring.Composite(listed)
	assert.False(t, scored, "scores must be absent immediately after creation")
	assert.Equal(t, "Backend Engineer", scoring.JobName(listed, s.Jobs()))
}

func TestJobDeletionDegradesJoinToUnknown(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	client := talentlens.New(context.Background(), zap.NewNop(), nil)
	client.APIURL = server.URL

	job, err := client.CreateJob(&talentlens.JobRequest{
		Name:           "Backend Engineer",
		ExpectedSkills: []string{"Go"},
	})
	require.NoError(t, err)

	candidate, err := client.CreateCandidate(&talentlens.NewCandidate{
		Name:           "Ada",
		Email:          "ada@x.com",
		Phone:          "+1 555 0100",
		JobID:          job.ID,
		ResumeFilename: "ada.pdf",
		Resume:         pdfResume(1024),
	})
	require.NoError(t, err)

	// Stale snapshot taken before the delete.
	s := store.New(client, zap.NewNop())
	require.NoError(t, s.Refresh())
	stale := s.Candidates().FindByID(candidate.ID)
	require.NotNil(t, stale)

	require.NoError(t, client.DeleteJob(job.ID))

	jobs, err := client.ListJobs()
	require.NoError(t, err)
	assert.Nil(t, jobs.FindByID(job.ID), "deleted job must not reappear in loadJobs")

	assert.Equal(t, scoring.UnknownPosition, scoring.JobName(stale, jobs))
}

func TestSubmitForMissingJobSurfacesBackendDetail(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	client := talentlens.New(context.Background(), zap.NewNop(), nil)
	client.APIURL = server.URL

	workflow := submission.New(client, zap.NewNop())
	workflow.TickInterval = time.Millisecond
	workflow.AnalysisPause = 0

	_, err := workflow.Submit(context.Background(), &submission.Input{
		Name:           "Ada",
		Email:          "ada@x.com",
		Phone:          "+1 555 0100",
		JobID:          999,
		ResumeFilename: "ada.pdf",
		Resume:         pdfResume(1024),
	})
	require.Error(t, err)

	snapshot := workflow.Snapshot()
	assert.Equal(t, submission.StateFailed, snapshot.State)
	assert.Equal(t, "Job not found", snapshot.Reason)

	var apiErr *talentlens.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
