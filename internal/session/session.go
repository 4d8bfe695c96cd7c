// Package session reconciles the identity-provider auth state with the
// backend-owned user profile. It keeps a local profile mirror that other
// components read to gate access.
package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/chaudhari-piyush/talentlens/internal/identity"
	"github.com/chaudhari-piyush/talentlens/internal/talentlens"
)

// Backend is the subset of the API client the session needs.
type Backend interface {
	Signup(req *talentlens.SignupRequest) error
	GetProfile() (*talentlens.Profile, error)
	AcceptTerms() error
}

// Provider is the identity-provider surface the session consumes.
type Provider interface {
	SignIn(email, password string) (*identity.Identity, error)
	SignOut()
	Subscribe(fn func(*identity.Identity)) func()
}

type Session struct {
	backend  Backend
	provider Provider
	logger   *zap.Logger

	mu          sync.RWMutex
	profile     *talentlens.Profile
	unsubscribe func()
}

// New builds a session and subscribes it to identity changes, so a rehydrated
// token at startup syncs the profile the same way a fresh sign-in does.
func New(backend Backend, provider Provider, logger *zap.Logger) *Session {
	s := &Session{
		backend:  backend,
		provider: provider,
		logger:   logger,
	}
	s.unsubscribe = provider.Subscribe(s.handleIdentity)

	return s
}

// Close detaches the session from identity notifications.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// SignIn establishes the identity-provider session and syncs the profile
// mirror.
func (s *Session) SignIn(email, password string) (*talentlens.Profile, error) {
	if _, err := s.provider.SignIn(email, password); err != nil {
		return nil, err
	}

	// The subscription already synced on the identity change; surface any
	// sync failure to the caller by syncing again explicitly.
	if err := s.syncProfile(); err != nil {
		return nil, err
	}

	return s.Profile(), nil
}

// SignUp creates the backend account, then establishes the identity-provider
// session. Either failure is overall failure; no rollback of the first call
// is attempted.
func (s *Session) SignUp(email, password string) (*talentlens.Profile, error) {
	if err := s.backend.Signup(&talentlens.SignupRequest{
		Email:       email,
		Password:    password,
		AcceptTerms: true,
	}); err != nil {
		return nil, err
	}

	return s.SignIn(email, password)
}

// SignOut clears the identity and the profile mirror. The mirror is empty by
// the time this returns; no stale profile is observable afterwards.
func (s *Session) SignOut() {
	s.provider.SignOut()

	s.mu.Lock()
	s.profile = nil
	s.mu.Unlock()
}

// Profile returns the local mirror, or nil when signed out.
func (s *Session) Profile() *talentlens.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Session) handleIdentity(ident *identity.Identity) {
	if ident == nil {
		s.mu.Lock()
		s.profile = nil
		s.mu.Unlock()
		return
	}

	if err := s.syncProfile(); err != nil {
		s.logger.Warn("syncing profile after identity change", zap.Error(err))
	}
}

// syncProfile fetches the backend profile and, for users who have not yet
// accepted the terms, issues the accept-terms call. The mirror is marked
// accepted even if that call fails; the gap is logged, not surfaced.
func (s *Session) syncProfile() error {
	profile, err := s.backend.GetProfile()
	if err != nil {
		return err
	}

	if !profile.TermsAccepted {
		if err := s.backend.AcceptTerms(); err != nil {
			s.logger.Warn("accept-terms call failed; local mirror stays accepted",
				zap.String("email", profile.Email),
				zap.Error(err),
			)
		}
		profile.TermsAccepted = true
	}

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()

	return nil
}
