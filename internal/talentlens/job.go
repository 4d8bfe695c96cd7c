package talentlens

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const jobsPath = "/api/jobs/"

type Jobs struct {
	Items []*Job
}

type Job struct {
	ID             int64      `json:"id"`
	Name           string     `json:"job_name"`
	Description    string     `json:"job_description"`
	ExpectedSkills []string   `json:"expected_skills"`
	UserID         int64      `json:"user_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// JobRequest is the payload for creating or updating a job posting.
type JobRequest struct {
	Name           string   `json:"job_name"`
	Description    string   `json:"job_description"`
	ExpectedSkills []string `json:"expected_skills"`
}

func (r *JobRequest) validate() error {
	if r.Name == "" {
		return errors.New("job name is required")
	}
	if len(r.ExpectedSkills) == 0 {
		return errors.New("at least one expected skill is required")
	}
	return nil
}

func (c *Client) ListJobs() (*Jobs, error) {
	var items []*Job
	if err := c.getJSON(jobsPath, &items); err != nil {
		return nil, err
	}

	return &Jobs{Items: items}, nil
}

func (c *Client) CreateJob(req *JobRequest) (*Job, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var job *Job
	if err := c.sendJSON(http.MethodPost, jobsPath, req, &job); err != nil {
		return nil, err
	}

	return job, nil
}

func (c *Client) UpdateJob(id int64, req *JobRequest) (*Job, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var job *Job
	if err := c.sendJSON(http.MethodPut, fmt.Sprintf("/api/jobs/%d", id), req, &job); err != nil {
		return nil, err
	}

	return job, nil
}

// DeleteJob removes a job posting. The backend cascades the delete to the
// job's candidates.
func (c *Client) DeleteJob(id int64) error {
	return c.delete(fmt.Sprintf("/api/jobs/%d", id))
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByID(id int64) *Job {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

func (j *Jobs) Names() []string {
	names := make([]string, 0, len(j.Items))
	for _, job := range j.Items {
		names = append(names, job.Name)
	}
	return names
}
