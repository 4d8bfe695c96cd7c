package talentlens

import (
	"net/http"
	"time"
)

// Profile is the backend-owned user record tied to the identity provider
// account via FirebaseUID.
type Profile struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	FirebaseUID     string     `json:"firebase_uid"`
	TermsAccepted   bool       `json:"terms_accepted"`
	TermsAcceptedAt *time.Time `json:"terms_accepted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	AcceptTerms bool   `json:"accept_terms"`
}

// Signup creates the backend account and the corresponding identity-provider
// user. It does not establish a session.
func (c *Client) Signup(req *SignupRequest) error {
	return c.sendJSON(http.MethodPost, "/api/users/signup", req, nil)
}

func (c *Client) GetProfile() (*Profile, error) {
	var profile *Profile
	if err := c.getJSON("/api/users/me", &profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (c *Client) AcceptTerms() error {
	return c.sendJSON(http.MethodPost, "/api/users/accept-terms", struct{}{}, nil)
}
