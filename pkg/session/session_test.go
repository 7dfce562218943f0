package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pureai/hostdesk/pkg/client"
)

// newAuthServer serves just enough of the auth surface: login accepts
// one credential pair, /api/auth/me accepts one token.
func newAuthServer(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "mario@example.com" || req.Password != "correct-horse" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":    validToken,
			"business": map[string]string{"id": "biz", "name": "Mario's", "email": req.Email},
		})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":    validToken,
			"business": map[string]string{"id": "biz", "name": "New", "email": "new@example.com"},
			"agentId":  "agent-1",
		})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"business": map[string]string{"id": "biz", "name": "Mario's", "email": "mario@example.com"},
			"agent":    map[string]string{"id": "agent-1", "businessId": "biz", "name": "Receptionist"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestSession(t *testing.T, serverURL string) (*Session, *MemStore) {
	t.Helper()
	store := &MemStore{}
	c := client.New(serverURL)
	return New(c, store, nil), store
}

func TestLoginStoresToken(t *testing.T) {
	server := newAuthServer(t, "good-token")
	s, store := newTestSession(t, server.URL)

	if err := s.Login(context.Background(), "mario@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("expected authenticated state, got %v", s.State())
	}
	if token, _ := store.Get(); token != "good-token" {
		t.Errorf("expected token persisted, got %q", token)
	}
	if s.Business() == nil || s.Business().ID != "biz" {
		t.Error("expected the business cached on the session")
	}
}

func TestFailedLoginStoresNothing(t *testing.T) {
	server := newAuthServer(t, "good-token")
	s, store := newTestSession(t, server.URL)

	err := s.Login(context.Background(), "mario@example.com", "wrong")
	if err == nil {
		t.Fatal("expected login to fail")
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "invalid credentials" {
		t.Errorf("expected the backend message, got %v", err)
	}
	if token, _ := store.Get(); token != "" {
		t.Errorf("failed login must not store a token, got %q", token)
	}
	if s.State() == StateAuthenticated {
		t.Error("failed login must not authenticate the session")
	}
}

func TestBootstrapWithValidToken(t *testing.T) {
	server := newAuthServer(t, "good-token")
	s, store := newTestSession(t, server.URL)
	_ = store.Set("good-token")

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("expected authenticated state, got %v", s.State())
	}
	if s.Agent() == nil || s.Agent().ID != "agent-1" {
		t.Error("expected the agent from the bootstrap payload")
	}
}

func TestBootstrapWithInvalidTokenClearsAndGoesAnonymous(t *testing.T) {
	server := newAuthServer(t, "good-token")
	s, store := newTestSession(t, server.URL)
	_ = store.Set("stale-token")

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("an invalid token is not an error: %v", err)
	}
	if s.State() != StateAnonymous {
		t.Errorf("expected anonymous state, got %v", s.State())
	}
	if token, _ := store.Get(); token != "" {
		t.Errorf("invalid token must be cleared from storage, got %q", token)
	}
}

func TestBootstrapWithNoToken(t *testing.T) {
	server := newAuthServer(t, "good-token")
	s, _ := newTestSession(t, server.URL)

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if s.State() != StateAnonymous {
		t.Errorf("expected anonymous state, got %v", s.State())
	}
}

func TestLogoutClearsSynchronously(t *testing.T) {
	server := newAuthServer(t, "good-token")
	s, store := newTestSession(t, server.URL)

	if err := s.Login(context.Background(), "mario@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if s.State() != StateAnonymous {
		t.Error("logout must leave the session anonymous")
	}
	if token, _ := store.Get(); token != "" {
		t.Error("logout must clear the stored token")
	}
	if s.Business() != nil {
		t.Error("logout must drop the cached business")
	}
}

func TestSignupAuthenticates(t *testing.T) {
	server := newAuthServer(t, "good-token")
	s, store := newTestSession(t, server.URL)

	err := s.Signup(context.Background(), client.RegisterRequest{
		BusinessName: "New", Email: "new@example.com", Password: "longenough",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Error("signup must authenticate the session")
	}
	if token, _ := store.Get(); token != "good-token" {
		t.Error("signup must persist the token")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if token, err := store.Get(); err != nil || token != "" {
		t.Fatalf("missing file should read as empty, got %q err=%v", token, err)
	}
	if err := store.Set("abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if token, _ := store.Get(); token != "abc" {
		t.Errorf("expected stored token, got %q", token)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if token, _ := store.Get(); token != "" {
		t.Errorf("expected cleared token, got %q", token)
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestResolveRouteGuard(t *testing.T) {
	cases := []struct {
		path  string
		state State
		want  Decision
	}{
		{"/", StateLoading, ShowLoading},
		{"/", StateAnonymous, RedirectLogin},
		{"/", StateAuthenticated, RedirectDashboard},
		{"/login", StateAnonymous, Allow},
		{"/login", StateAuthenticated, RedirectDashboard},
		{"/signup", StateAuthenticated, RedirectDashboard},
		{"/dashboard", StateLoading, ShowLoading},
		{"/dashboard", StateAnonymous, RedirectLogin},
		{"/dashboard", StateAuthenticated, Allow},
		{"/dashboard/floor", StateAuthenticated, Allow},
		{"/dashboard/floor/layout", StateAnonymous, RedirectLogin},
		{"/settings/business", StateAuthenticated, Allow},
		{"/settings/agent", StateLoading, ShowLoading},
		{"/nope", StateAuthenticated, RedirectLogin},
		{"/nope", StateAnonymous, RedirectLogin},
	}
	for _, tc := range cases {
		if got := Resolve(tc.path, tc.state); got != tc.want {
			t.Errorf("Resolve(%q, %v) = %v, want %v", tc.path, tc.state, got, tc.want)
		}
	}
}
