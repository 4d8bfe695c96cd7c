// Package scoring derives display values from job and candidate snapshots:
// composite scores, candidate-to-job joins and dashboard statistics. All
// functions are pure; nothing here holds state.
package scoring

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chaudhari-piyush/talentlens/internal/talentlens"
)

// AllJobs is the FilterByJob sentinel meaning "no filtering". It is never a
// valid job identifier.
const AllJobs = "all"

// UnknownPosition is rendered when a candidate's job cannot be resolved, e.g.
// after the job was deleted and its candidates cascaded away server-side.
const UnknownPosition = "Unknown position"

// Composite returns the average of the three resume scores rounded to one
// decimal. It is defined only when all three are present; anything less is
// reported as not-yet-scored, never as an error.
func Composite(c *talentlens.Candidate) (float64, bool) {
	if c == nil || c.SkillsMatchScore == nil || c.ResumeRelevancyScore == nil || c.JobDescriptionRelevancyScore == nil {
		return 0, false
	}

	avg := (*c.SkillsMatchScore + *c.ResumeRelevancyScore + *c.JobDescriptionRelevancyScore) / 3
	return round1(avg), true
}

// CompositeLabel formats the composite score for display, falling back to
// "pending" while scoring is incomplete.
func CompositeLabel(c *talentlens.Candidate) string {
	score, ok := Composite(c)
	if !ok {
		return "pending"
	}
	return fmt.Sprintf("%.1f/10", score)
}

// JoinJob resolves the candidate's job by id. A nil result means the job is
// gone or unknown; callers render UnknownPosition instead of failing.
func JoinJob(c *talentlens.Candidate, jobs *talentlens.Jobs) *talentlens.Job {
	if c == nil || jobs == nil {
		return nil
	}
	return jobs.FindByID(c.JobID)
}

// JobName returns the joined job's name or UnknownPosition.
func JobName(c *talentlens.Candidate, jobs *talentlens.Jobs) string {
	if job := JoinJob(c, jobs); job != nil {
		return job.Name
	}
	return UnknownPosition
}

type Stats struct {
	TotalJobs       int     `json:"total_jobs"`
	TotalCandidates int     `json:"total_candidates"`
	AverageScore    float64 `json:"average_score"`
}

// Aggregate computes dashboard statistics. AverageScore is the mean composite
// over candidates that have one; with no scored candidates it is 0 so the
// dashboard always renders.
func Aggregate(jobs *talentlens.Jobs, candidates *talentlens.Candidates) Stats {
	stats := Stats{}
	if jobs != nil {
		stats.TotalJobs = jobs.Len()
	}
	if candidates == nil {
		return stats
	}
	stats.TotalCandidates = candidates.Len()

	var sum float64
	var scored int
	for _, c := range candidates.Items {
		if score, ok := Composite(c); ok {
			sum += score
			scored++
		}
	}
	if scored > 0 {
		stats.AverageScore = round1(sum / float64(scored))
	}

	return stats
}

// FilterByJob returns the candidates whose JobID matches the selector, which
// is either AllJobs or a decimal job id.
func FilterByJob(candidates *talentlens.Candidates, selector string) (*talentlens.Candidates, error) {
	if candidates == nil {
		return &talentlens.Candidates{}, nil
	}
	if selector == "" || selector == AllJobs {
		return &talentlens.Candidates{Items: candidates.Items}, nil
	}

	jobID, err := strconv.ParseInt(selector, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid job selector %q: expected %q or a job id", selector, AllJobs)
	}

	filtered := &talentlens.Candidates{}
	for _, c := range candidates.Items {
		if c.JobID == jobID {
			filtered.Items = append(filtered.Items, c)
		}
	}

	return filtered, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
