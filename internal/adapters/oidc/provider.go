// Package oidc authenticates dashboard administrators against an OpenID
// Connect identity provider. The OAuth2 access token obtained at login is
// kept on the identity and later forwarded to the backend admin API.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
)

const defaultGroupsClaim = "groups"

// Provider implements ports.AuthProvider using OIDC/OAuth2.
type Provider struct {
	config      *oauth2.Config
	httpClient  *http.Client
	groupsClaim string

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	// GroupsClaim names the claim carrying group membership. Defaults to "groups".
	GroupsClaim string
	HTTPClient  *http.Client // Optional, defaults to a 30s timeout client
}

// NewProvider performs OIDC discovery and returns a ready provider.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	groupsClaim := strings.TrimSpace(config.GroupsClaim)
	if groupsClaim == "" {
		groupsClaim = defaultGroupsClaim
	}

	ctx := gooidc.ClientContext(context.Background(), httpClient)
	op, err := gooidc.NewProvider(ctx, issuerFromDiscoveryURL(config.DiscoveryURL))
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       strings.Fields(config.Scope),
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		groupsClaim:  groupsClaim,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
	}, nil
}

// issuerFromDiscoveryURL accepts either the issuer or its well-known document URL.
func issuerFromDiscoveryURL(raw string) string {
	issuer := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	return strings.TrimSuffix(issuer, "/")
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}
	state := uuid.NewString()
	nonce := uuid.NewString()

	// redirect_uri stays the configured one; in.RedirectURL is the post-login target.
	authURL := p.config.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	fields, err := p.claimsFromIDToken(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
	}
	if fields.email == "" || fields.userID == "" {
		ui, uiErr := p.userInfoClaims(ctx, token)
		if uiErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", uiErr)
		}
		fields.fillFrom(ui)
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return domainauth.Identity{
		UserID:      fields.userID,
		Name:        fields.name,
		Email:       fields.email,
		Groups:      fields.groups,
		AccessToken: token.AccessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

type identityFields struct {
	userID string
	name   string
	email  string
	groups []string
}

// fillFrom copies fields that are still empty from other.
func (f *identityFields) fillFrom(other identityFields) {
	if f.userID == "" {
		f.userID = other.userID
	}
	if f.name == "" {
		f.name = other.name
	}
	if f.email == "" {
		f.email = other.email
	}
	if len(f.groups) == 0 {
		f.groups = other.groups
	}
}

func (p *Provider) claimsFromIDToken(ctx context.Context, tok *oauth2.Token, expectedNonce string) (identityFields, error) {
	if !p.hasOpenIDScope() {
		return identityFields{}, nil
	}
	rawID, err := idTokenFromToken(tok)
	if err != nil {
		return identityFields{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return identityFields{}, fmt.Errorf("verify id_token: %w", err)
	}
	if expectedNonce != "" && idTok.Nonce != expectedNonce {
		return identityFields{}, errors.New("invalid nonce")
	}
	var claims map[string]any
	if err := idTok.Claims(&claims); err != nil {
		return identityFields{}, fmt.Errorf("parse id_token claims: %w", err)
	}
	return mapClaims(claims, p.groupsClaim), nil
}

func (p *Provider) userInfoClaims(ctx context.Context, tok *oauth2.Token) (identityFields, error) {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return identityFields{}, fmt.Errorf("fetch user info: %w", err)
	}
	var claims map[string]any
	if err := ui.Claims(&claims); err != nil {
		return identityFields{}, fmt.Errorf("decode user info: %w", err)
	}
	return mapClaims(claims, p.groupsClaim), nil
}

// mapClaims reads standard OIDC claims. The display name falls back to
// given_name + family_name, the groups claim accepts a list or a single string.
func mapClaims(claims map[string]any, groupsClaim string) identityFields {
	f := identityFields{
		userID: stringClaim(claims, "sub"),
		email:  firstNonEmpty(stringClaim(claims, "email"), stringClaim(claims, "preferred_username")),
		name:   stringClaim(claims, "name"),
		groups: listClaim(claims, groupsClaim),
	}
	if f.name == "" {
		f.name = strings.TrimSpace(stringClaim(claims, "given_name") + " " + stringClaim(claims, "family_name"))
	}
	return f
}

func stringClaim(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return strings.TrimSpace(s)
}

func listClaim(claims map[string]any, key string) []string {
	switch v := claims[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (p *Provider) hasOpenIDScope() bool {
	for _, sc := range p.config.Scopes {
		if sc == gooidc.ScopeOpenID {
			return true
		}
	}
	return false
}

func idTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
