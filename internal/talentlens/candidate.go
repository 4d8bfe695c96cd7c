package talentlens

import (
	"fmt"
	"strconv"
	"time"
)

const candidatesPath = "/api/candidates/"

type Candidates struct {
	Items []*Candidate
}

// Candidate mirrors the backend's candidate-with-scores shape. The three score
// fields stay nil until the backend finishes analyzing the resume; the backend
// never exposes partially scored candidates.
type Candidate struct {
	ID                           int64      `json:"id"`
	JobID                        int64      `json:"job_id"`
	Name                         string     `json:"name"`
	Email                        string     `json:"email"`
	Phone                        string     `json:"phone"`
	ResumeFilename               string     `json:"resume_filename,omitempty"`
	QADocumentFilename           string     `json:"qa_document_filename,omitempty"`
	SkillsMatchScore             *float64   `json:"skills_match_score,omitempty"`
	ResumeRelevancyScore         *float64   `json:"resume_relevancy_score,omitempty"`
	JobDescriptionRelevancyScore *float64   `json:"job_description_relevancy_score,omitempty"`
	CreatedAt                    time.Time  `json:"created_at"`
	UpdatedAt                    *time.Time `json:"updated_at,omitempty"`
}

// NewCandidate holds the multipart payload for a candidate submission.
type NewCandidate struct {
	Name           string
	Email          string
	Phone          string
	JobID          int64
	ResumeFilename string
	Resume         []byte
}

func (c *Client) ListCandidates() (*Candidates, error) {
	var items []*Candidate
	if err := c.getJSON(candidatesPath, &items); err != nil {
		return nil, err
	}

	return &Candidates{Items: items}, nil
}

func (c *Client) GetCandidate(id int64) (*Candidate, error) {
	var candidate *Candidate
	if err := c.getJSON(fmt.Sprintf("/api/candidates/%d", id), &candidate); err != nil {
		return nil, err
	}

	return candidate, nil
}

// CreateCandidate uploads the candidate fields plus the resume binary as a
// multipart form. Scores are absent on the returned candidate; the backend
// analyzes the resume asynchronously after the call returns.
func (c *Client) CreateCandidate(nc *NewCandidate) (*Candidate, error) {
	fields := map[string]string{
		"name":   nc.Name,
		"email":  nc.Email,
		"phone":  nc.Phone,
		"job_id": strconv.FormatInt(nc.JobID, 10),
	}

	var candidate *Candidate
	if err := c.postMultipart(candidatesPath, fields, "resume", nc.ResumeFilename, nc.Resume, &candidate); err != nil {
		return nil, err
	}

	return candidate, nil
}

func (c *Client) DeleteCandidate(id int64) error {
	return c.delete(fmt.Sprintf("/api/candidates/%d", id))
}

func (c *Client) DownloadResume(id int64) ([]byte, error) {
	return c.download(fmt.Sprintf("/api/candidates/%d/resume", id))
}

// DownloadQADocument fetches the generated interview Q&A document. It is a 404
// until the backend analysis has completed.
func (c *Client) DownloadQADocument(id int64) ([]byte, error) {
	return c.download(fmt.Sprintf("/api/candidates/%d/qa-document", id))
}

func (cs *Candidates) Len() int {
	return len(cs.Items)
}

func (cs *Candidates) FindByID(id int64) *Candidate {
	for _, candidate := range cs.Items {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}
