package auth

import (
	"context"
	"testing"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()
	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}

	authURL, state, nonce, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	_, state2, nonce2, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "state-1", Nonce: "nonce-1"})
	require.NoError(t, err)
	assert.Equal(t, "mock-admin-1", identity.UserID)
	assert.Equal(t, "mock-access-token", identity.AccessToken)
	assert.False(t, identity.ExpiresAt.IsZero())
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.Session{}))
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s1", Email: "a@b.c"}))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", got.Email)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaticRoleMapper(t *testing.T) {
	m := StaticRoleMapper{SuperAdminGroup: "root", AdminGroup: "admins", ReadonlyAdminGroup: "viewers"}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{name: "super admin wins", groups: []string{"admins", "root"}, want: domainauth.RoleSuperAdmin},
		{name: "admin", groups: []string{"admins"}, want: domainauth.RoleAdmin},
		{name: "readonly", groups: []string{"viewers"}, want: domainauth.RoleReadonlyAdmin},
		{name: "plain user", groups: []string{"staff"}, want: domainauth.RoleUser},
		{name: "no groups", groups: nil, want: domainauth.RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.groups))
		})
	}
}

func TestStaticSessionProvider(t *testing.T) {
	p := NewStaticSessionProvider(domainauth.Session{ID: "s1", Role: domainauth.RoleAdmin})
	ctx := context.Background()

	sess, err := p.CurrentSession(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin())

	_, err = p.CurrentSession(ctx, "missing")
	assert.True(t, apperrors.IsNotAuthenticated(err))

	require.NoError(t, p.SignOut(ctx, "s1"))
	assert.Equal(t, []string{"s1"}, p.SignedOut())
	_, err = p.CurrentSession(ctx, "s1")
	assert.Error(t, err)
}
