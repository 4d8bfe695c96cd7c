// Package identity talks to the Google Identity Toolkit REST API and holds
// the current signed-in identity. Components subscribe to identity changes to
// react to sign-in and sign-out.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const defaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

// Identity is an established identity-provider session.
type Identity struct {
	Email        string
	UID          string
	IDToken      string
	RefreshToken string
}

// Provider is the identity-toolkit client plus the subscriber registry.
type Provider struct {
	ctx        context.Context
	logger     *zap.Logger
	apiKey     string
	HTTPClient *http.Client
	Endpoint   string

	mu      sync.Mutex
	current *Identity
	subs    map[int]func(*Identity)
	nextSub int
}

func New(ctx context.Context, logger *zap.Logger, apiKey string) *Provider {
	return &Provider{
		ctx:      ctx,
		logger:   logger,
		apiKey:   apiKey,
		Endpoint: defaultEndpoint,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		subs: make(map[int]func(*Identity)),
	}
}

// tokenResponse is the shared shape of signInWithPassword and signUp replies.
type tokenResponse struct {
	IDToken      string `mapstructure:"idToken"`
	RefreshToken string `mapstructure:"refreshToken"`
	Email        string `mapstructure:"email"`
	LocalID      string `mapstructure:"localId"`
}

// SignIn exchanges email/password for an id token and notifies subscribers.
func (p *Provider) SignIn(email, password string) (*Identity, error) {
	return p.authenticate("accounts:signInWithPassword", email, password)
}

// SignUp registers the account with the identity provider and signs in.
func (p *Provider) SignUp(email, password string) (*Identity, error) {
	return p.authenticate("accounts:signUp", email, password)
}

func (p *Provider) authenticate(action, email, password string) (*Identity, error) {
	raw, err := p.post(action, map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := mapstructure.Decode(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding identity response: %w", err)
	}

	ident := &Identity{
		Email:        resp.Email,
		UID:          resp.LocalID,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
	}

	p.setCurrent(ident)
	p.logger.Debug("identity established", zap.String("email", ident.Email))

	return ident, nil
}

// SignOut discards the current identity and notifies subscribers with nil.
// The provider keeps no server-side session, so this never fails.
func (p *Provider) SignOut() {
	p.setCurrent(nil)
	p.logger.Debug("identity cleared")
}

// Rehydrate restores a previously persisted token as the current identity,
// e.g. at process start. Subscribers are notified the same way as for a fresh
// sign-in.
func (p *Provider) Rehydrate(token string) {
	if token == "" {
		return
	}
	p.setCurrent(&Identity{IDToken: token})
}

// Subscribe registers a callback for identity changes and returns its
// unsubscribe func. Callbacks run synchronously on the goroutine that changed
// the identity.
func (p *Provider) Subscribe(fn func(*Identity)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Current returns the established identity, or nil when signed out.
func (p *Provider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Token satisfies the API client's TokenSource.
func (p *Provider) Token() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil || p.current.IDToken == "" {
		return "", fmt.Errorf("not signed in")
	}
	return p.current.IDToken, nil
}

func (p *Provider) setCurrent(ident *Identity) {
	p.mu.Lock()
	p.current = ident
	listeners := make([]func(*Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	// Callbacks run outside the lock; they may call back into the provider.
	for _, fn := range listeners {
		fn(ident)
	}
}

func (p *Provider) post(action string, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?key=%s", p.Endpoint, action, p.apiKey)
	req, err := http.NewRequestWithContext(p.ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseToolkitError(resp.StatusCode, data)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding identity response: %w", err)
	}

	return raw, nil
}

// parseToolkitError surfaces the identity-toolkit error code (EMAIL_NOT_FOUND,
// INVALID_PASSWORD, ...) when the body carries one.
func parseToolkitError(status int, body []byte) error {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Errorf("identity provider rejected the request: %s", parsed.Error.Message)
	}
	return fmt.Errorf("identity provider returned status %d", status)
}
