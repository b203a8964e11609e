// Package devauth provides a config-driven AuthProvider for local development.
package devauth

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
)

// Config controls the dev auth provider behavior.
// UserID and Email are required.
type Config struct {
	UserID string
	Name   string
	Email  string
	Groups []string
	// AccessToken is forwarded to the backend API as the bearer credential.
	AccessToken     string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider for local development.
// Begin redirects straight back to our own callback; Exchange ignores the
// code and returns the configured identity.
type Provider struct {
	mu              sync.Mutex
	identity        domainauth.Identity
	sessionDuration time.Duration
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:      cfg.UserID,
			Name:        cfg.Name,
			Email:       cfg.Email,
			Groups:      append([]string(nil), cfg.Groups...),
			AccessToken: cfg.AccessToken,
			ExpiresAt:   time.Now().Add(dur),
		},
		sessionDuration: dur,
	}, nil
}

// Begin returns a local callback URL with a random state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state := uuid.NewString()
	nonce := uuid.NewString()
	q := url.Values{"code": {"dev"}, "state": {state}}
	return "/auth/callback?" + q.Encode(), state, nonce, nil
}

// Exchange returns the dev identity; state validation happens in the handler.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if time.Until(p.identity.ExpiresAt) < 5*time.Minute {
		p.identity.ExpiresAt = time.Now().Add(p.sessionDuration)
	}
	id := p.identity
	id.Groups = append([]string(nil), p.identity.Groups...)
	return id, nil
}
