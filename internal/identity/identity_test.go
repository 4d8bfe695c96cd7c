package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p := New(context.Background(), zap.NewNop(), "test-key")
	p.Endpoint = server.URL
	return p
}

func TestSignIn(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/accounts:signInWithPassword") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Fatalf("expected api key in query")
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if body["returnSecureToken"] != true {
			t.Fatalf("expected returnSecureToken true")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"idToken":      "id-token-1",
			"refreshToken": "refresh-1",
			"email":        "ada@x.com",
			"localId":      "uid-1",
		})
	}))

	ident, err := p.SignIn("ada@x.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ident.IDToken != "id-token-1" || ident.UID != "uid-1" {
		t.Fatalf("unexpected identity: %+v", ident)
	}

	token, err := p.Token()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "id-token-1" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestSignInSurfacesToolkitErrorCode(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "EMAIL_NOT_FOUND"}}`))
	}))

	_, err := p.SignIn("ghost@x.com", "secret")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "EMAIL_NOT_FOUND") {
		t.Fatalf("expected error code in message, got: %v", err)
	}
}

func TestSubscribersNotifiedOnSignOut(t *testing.T) {
	p := New(context.Background(), zap.NewNop(), "test-key")

	var events []*Identity
	unsubscribe := p.Subscribe(func(ident *Identity) {
		events = append(events, ident)
	})

	p.Rehydrate("persisted-token")
	p.SignOut()

	if len(events) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(events))
	}
	if events[0] == nil || events[0].IDToken != "persisted-token" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1] != nil {
		t.Fatalf("expected nil identity on sign-out")
	}

	if _, err := p.Token(); err == nil {
		t.Fatalf("expected token error after sign-out")
	}

	unsubscribe()
	p.Rehydrate("another-token")
	if len(events) != 2 {
		t.Fatalf("expected no notifications after unsubscribe")
	}
}

func TestRehydrateIgnoresEmptyToken(t *testing.T) {
	p := New(context.Background(), zap.NewNop(), "test-key")

	notified := false
	p.Subscribe(func(*Identity) { notified = true })

	p.Rehydrate("")

	if notified {
		t.Fatalf("empty token must not establish an identity")
	}
	if p.Current() != nil {
		t.Fatalf("expected no current identity")
	}
}
