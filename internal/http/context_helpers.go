package httpx

import (
	"context"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

// Unexported context key types avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type (
	sessionKey struct{}
	routerKey  struct{}
)

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the admin session placed by RequireAdmin, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && s != nil {
		return s
	}
	return nil
}

// SetRouterInContext returns a child context carrying the session's dashboard router.
func SetRouterInContext(ctx context.Context, r *service.Router) context.Context {
	if r == nil {
		return ctx
	}
	return context.WithValue(ctx, routerKey{}, r)
}

// GetRouterFromContext returns the dashboard router and whether it was present.
func GetRouterFromContext(ctx context.Context) (*service.Router, bool) {
	r, ok := ctx.Value(routerKey{}).(*service.Router)
	return r, ok && r != nil
}
