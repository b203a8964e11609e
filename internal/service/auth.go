package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	// SessionTTL caps session lifetime and applies when the provider gives no
	// expiry. Defaults to DefaultSessionTTL.
	SessionTTL time.Duration
}

// DefaultSessionTTL is the session lifetime used when none is configured.
const DefaultSessionTTL = 8 * time.Hour

// AuthService runs the login flow against the identity provider and owns
// session persistence. It is the dashboard's ports.SessionProvider.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	ttl      time.Duration
	now      func() time.Time
}

var _ ports.SessionProvider = (*AuthService)(nil)

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Provider == nil || opts.Sessions == nil || opts.Roles == nil {
		panic("service: AuthService requires provider, sessions and roles")
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		ttl:      ttl,
		now:      time.Now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin starts the provider flow. redirectURL is where the browser lands after login.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, apperrors.ValidationField("redirect", "redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the code, maps groups to a role and persists a session.
// Non-admin identities still get a session; the SessionGate refuses them.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (domainauth.Session, error) {
	switch {
	case input.Code == "":
		return domainauth.Session{}, apperrors.ValidationField("code", "authorization code is required")
	case input.State == "":
		return domainauth.Session{}, apperrors.ValidationField("state", "state parameter is required")
	case input.Nonce == "":
		return domainauth.Session{}, apperrors.ValidationField("nonce", "nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput(input))
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	session := domainauth.Session{
		ID:          uuid.NewString(),
		UserID:      identity.UserID,
		Name:        identity.Name,
		Email:       identity.Email,
		Role:        s.roles.Map(identity.Groups),
		AccessToken: identity.AccessToken,
		ExpiresAt:   s.sessionExpiry(identity.ExpiresAt),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// sessionExpiry bounds the provider expiry by the configured TTL.
func (s *AuthService) sessionExpiry(providerExpiry time.Time) time.Time {
	limit := s.now().Add(s.ttl)
	if providerExpiry.IsZero() || providerExpiry.After(limit) {
		return limit
	}
	return providerExpiry
}

// CurrentSession returns the live session for id. Missing, unknown and
// expired sessions are NotAuthenticated; expired ones are deleted.
func (s *AuthService) CurrentSession(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, apperrors.NotAuthenticated("no session")
	}
	session, err := s.sessions.Get(ctx, id)
	if apperrors.IsNotFound(err) {
		return domainauth.Session{}, apperrors.NotAuthenticated("session not found")
	}
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		expired := apperrors.NotAuthenticated("session expired")
		if delErr := s.sessions.Delete(ctx, id); delErr != nil {
			return domainauth.Session{}, errors.Join(expired, fmt.Errorf("delete session: %w", delErr))
		}
		return domainauth.Session{}, expired
	}
	return session, nil
}

// SignOut deletes the session. An empty id is a no-op.
func (s *AuthService) SignOut(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
