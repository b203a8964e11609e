// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider    = (*MockAuthProvider)(nil)
	_ ports.SessionStore    = (*MemorySessionStore)(nil)
	_ ports.RoleMapper      = (*StaticRoleMapper)(nil)
	_ ports.SessionProvider = (*StaticSessionProvider)(nil)
)

// MockAuthProvider simulates an IdP with deterministic state/nonce values.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider returning an admin identity.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{AuthURL: "https://mock-idp/auth", DefaultUser: defaultIdentity()}
}

func defaultIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:      "mock-admin-1",
		Name:        "Mock Admin",
		Email:       "mock.admin@ai-ikigai.com",
		Groups:      []string{"admins"},
		AccessToken: "mock-access-token",
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	return authURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	user := m.DefaultUser
	if user.UserID == "" {
		user = defaultIdentity()
	}
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return apperrors.Validation("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ErrNotFound is returned by mocks when an entity is not present.
var ErrNotFound error = apperrors.NotFound("not found")

// StaticRoleMapper maps groups by simple string membership rules.
type StaticRoleMapper struct {
	SuperAdminGroup    string
	AdminGroup         string
	ReadonlyAdminGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	has := func(want string) bool {
		for _, g := range groups {
			if want != "" && g == want {
				return true
			}
		}
		return false
	}
	switch {
	case has(m.SuperAdminGroup):
		return domainauth.RoleSuperAdmin
	case has(m.AdminGroup):
		return domainauth.RoleAdmin
	case has(m.ReadonlyAdminGroup):
		return domainauth.RoleReadonlyAdmin
	default:
		return domainauth.RoleUser
	}
}

// StaticSessionProvider serves sessions from a map and records sign-outs.
// CurrentSessionFunc, when set, overrides the map lookup.
type StaticSessionProvider struct {
	CurrentSessionFunc func(ctx context.Context, id string) (domainauth.Session, error)
	SignOutFunc        func(ctx context.Context, id string) error

	mu        sync.Mutex
	sessions  map[string]domainauth.Session
	signedOut []string
}

// NewStaticSessionProvider returns a provider holding the given sessions by ID.
func NewStaticSessionProvider(sessions ...domainauth.Session) *StaticSessionProvider {
	p := &StaticSessionProvider{sessions: make(map[string]domainauth.Session)}
	for _, s := range sessions {
		p.sessions[s.ID] = s
	}
	return p
}

func (p *StaticSessionProvider) CurrentSession(ctx context.Context, id string) (domainauth.Session, error) {
	if p.CurrentSessionFunc != nil {
		return p.CurrentSessionFunc(ctx, id)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.sessions[id]
	if !ok {
		return domainauth.Session{}, apperrors.NotAuthenticated("no session")
	}
	return sess, nil
}

func (p *StaticSessionProvider) SignOut(ctx context.Context, id string) error {
	if p.SignOutFunc != nil {
		return p.SignOutFunc(ctx, id)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, id)
	p.signedOut = append(p.signedOut, id)
	return nil
}

// SignedOut returns the ids passed to SignOut, in call order.
func (p *StaticSessionProvider) SignedOut() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.signedOut...)
}
