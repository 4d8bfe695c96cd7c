// Package submission drives a single candidate-creation attempt: client-side
// validation, the multipart upload, a simulated progress indicator and the
// short analysis pause before reporting success.
package submission

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chaudhari-piyush/talentlens/internal/talentlens"
)

type State int

const (
	StateIdle State = iota
	StateValidating
	StateUploading
	StateAwaitingAnalysis
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateUploading:
		return "uploading"
	case StateAwaitingAnalysis:
		return "awaiting_analysis"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	// progressCap is where the simulated indicator stalls until the server
	// responds; 100 is reserved for a received response.
	progressCap  = 90
	progressStep = 10

	defaultTickInterval  = 200 * time.Millisecond
	defaultAnalysisPause = time.Second

	genericUploadFailure = "failed to create candidate"
)

// ErrInFlight is returned when Submit is called while a previous attempt is
// still uploading or awaiting analysis.
var ErrInFlight = errors.New("a submission is already in progress")

// Uploader is satisfied by the API client.
type Uploader interface {
	CreateCandidate(nc *talentlens.NewCandidate) (*talentlens.Candidate, error)
}

// Snapshot is the client-visible stage of the current attempt.
type Snapshot struct {
	State    State
	Progress int
	Reason   string
}

type Workflow struct {
	uploader Uploader
	logger   *zap.Logger

	// TickInterval drives the simulated progress; AnalysisPause is how long
	// the workflow stays in AwaitingAnalysis after the server responds.
	TickInterval  time.Duration
	AnalysisPause time.Duration

	mu       sync.Mutex
	state    State
	progress int
	reason   string
	inFlight bool
	onUpdate func(Snapshot)
}

func New(uploader Uploader, logger *zap.Logger) *Workflow {
	return &Workflow{
		uploader:      uploader,
		logger:        logger,
		TickInterval:  defaultTickInterval,
		AnalysisPause: defaultAnalysisPause,
		state:         StateIdle,
	}
}

// OnUpdate registers a callback invoked after every visible stage change. Set
// it before the first Submit.
func (w *Workflow) OnUpdate(fn func(Snapshot)) {
	w.mu.Lock()
	w.onUpdate = fn
	w.mu.Unlock()
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{State: w.state, Progress: w.progress, Reason: w.reason}
}

// Acknowledge returns the workflow to Idle after the caller has shown the
// Succeeded or Failed outcome.
func (w *Workflow) Acknowledge() {
	w.transition(StateIdle, 0, "")
}

// Submit runs one candidate-creation attempt through the full state machine.
// Validation failures never reach the network. Only one attempt may run at a
// time; overlapping calls get ErrInFlight.
func (w *Workflow) Submit(ctx context.Context, input *Input) (*talentlens.Candidate, error) {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return nil, ErrInFlight
	}
	w.inFlight = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.inFlight = false
		w.mu.Unlock()
	}()

	log := w.logger.With(zap.String("attempt_id", uuid.NewString()))

	w.transition(StateValidating, 0, "")
	if err := validateInput(input); err != nil {
		log.Warn("submission rejected before upload", zap.Error(err))
		w.transition(StateFailed, 0, err.Error())
		return nil, err
	}

	w.transition(StateUploading, 0, "")
	log.Info("uploading candidate",
		zap.String("candidate", input.Name),
		zap.Int64("job_id", input.JobID),
		zap.Int("resume_bytes", len(input.Resume)),
	)

	stop := w.startTicker()
	candidate, err := w.uploader.CreateCandidate(&talentlens.NewCandidate{
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		JobID:          input.JobID,
		ResumeFilename: input.ResumeFilename,
		Resume:         input.Resume,
	})
	stop()

	if err != nil {
		reason := failureReason(err)
		log.Warn("upload failed", zap.Error(err))
		w.transition(StateFailed, 0, reason)
		return nil, err
	}

	// The synchronous create has returned but resume scoring continues on the
	// backend; hold a short display-only pause so success does not imply
	// scores are ready.
	w.transition(StateAwaitingAnalysis, 100, "")
	waitFor(ctx, w.AnalysisPause)

	w.transition(StateSucceeded, 100, "")
	log.Info("candidate created; resume analysis started", zap.Int64("candidate_id", candidate.ID))

	return candidate, nil
}

// startTicker advances the simulated progress toward progressCap while the
// request is in flight. The returned stop func is safe to call once from the
// single code path that owns the request.
func (w *Workflow) startTicker() func() {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(w.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				w.advance()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

func (w *Workflow) advance() {
	w.mu.Lock()
	if w.state != StateUploading || w.progress >= progressCap {
		w.mu.Unlock()
		return
	}
	w.progress += progressStep
	if w.progress > progressCap {
		w.progress = progressCap
	}
	snapshot := Snapshot{State: w.state, Progress: w.progress}
	notify := w.onUpdate
	w.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}

func (w *Workflow) transition(state State, progress int, reason string) {
	w.mu.Lock()
	w.state = state
	w.progress = progress
	w.reason = reason
	snapshot := Snapshot{State: state, Progress: progress, Reason: reason}
	notify := w.onUpdate
	w.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}

// failureReason prefers the backend-provided message; transport and other
// errors fall back to a generic retryable notice.
func failureReason(err error) string {
	var apiErr *talentlens.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message(genericUploadFailure)
	}
	return genericUploadFailure
}

func waitFor(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
