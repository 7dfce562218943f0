// Package session holds the authenticated state of a HostDesk client:
// the bearer token, the business it belongs to, and the route guard
// the dashboard applies while that state resolves.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pureai/hostdesk/pkg/client"
)

// State is the session lifecycle state
type State int

const (
	// StateLoading means a stored token is still being validated.
	StateLoading State = iota
	// StateAnonymous means no valid session exists.
	StateAnonymous
	// StateAuthenticated means a business is logged in.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session tracks the current login across a client and a token store
type Session struct {
	mu       sync.Mutex
	client   *client.Client
	store    Store
	state    State
	business *client.Business
	agent    *client.Agent
	logger   *slog.Logger
}

// New creates a session in the loading state. Call Bootstrap to
// resolve it.
func New(c *client.Client, store Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{client: c, store: store, state: StateLoading, logger: logger}
}

// State returns the current session state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Business returns the logged-in business, or nil
func (s *Session) Business() *client.Business {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.business
}

// Agent returns the logged-in business's agent, or nil
func (s *Session) Agent() *client.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent
}

// SetBusiness replaces the cached business profile. Settings views call
// this after a successful profile update so later reads see the new
// values without a refetch.
func (s *Session) SetBusiness(b *client.Business) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.business = b
}

// Token returns the stored token. It implements client.TokenSource.
func (s *Session) Token() string {
	token, err := s.store.Get()
	if err != nil {
		return ""
	}
	return token
}

// Bootstrap resolves a stored token into a session. An invalid or
// expired token clears storage and leaves the session anonymous; that
// is a normal outcome, not an error. Errors are reserved for broken
// storage.
func (s *Session) Bootstrap(ctx context.Context) error {
	token, err := s.store.Get()
	if err != nil {
		return fmt.Errorf("read token store: %w", err)
	}
	if token == "" {
		s.setAnonymous()
		return nil
	}

	s.client.SetTokenSource(s)
	bootstrap, err := s.client.Me(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Info("stored token rejected, clearing session")
		if clearErr := s.store.Clear(); clearErr != nil {
			return fmt.Errorf("clear token store: %w", clearErr)
		}
		s.setAnonymous()
		return nil
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.business = bootstrap.Business
	s.agent = bootstrap.Agent
	s.mu.Unlock()
	return nil
}

// Login authenticates and persists the session
func (s *Session) Login(ctx context.Context, email, password string) error {
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(result)
}

// Signup registers a business and persists the session
func (s *Session) Signup(ctx context.Context, req client.RegisterRequest) error {
	result, err := s.client.Register(ctx, req)
	if err != nil {
		return err
	}
	return s.establish(result)
}

func (s *Session) establish(result *client.AuthResult) error {
	if err := s.store.Set(result.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.client.SetTokenSource(s)

	s.mu.Lock()
	s.state = StateAuthenticated
	s.business = result.Business
	s.agent = nil
	s.mu.Unlock()
	return nil
}

// Logout clears the session synchronously
func (s *Session) Logout() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear token store: %w", err)
	}
	s.setAnonymous()
	return nil
}

func (s *Session) setAnonymous() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.business = nil
	s.agent = nil
	s.mu.Unlock()
}
