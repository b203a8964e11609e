package service

import (
	"sync"
	"time"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
)

// RouterRegistryOptions groups dependencies for RouterRegistry.
type RouterRegistryOptions struct {
	Loader  ResourceLoader
	Support RouterSupport
}

// RouterRegistry holds one Router per session id.
type RouterRegistry struct {
	loader  ResourceLoader
	support RouterSupport

	mu      sync.Mutex
	routers map[string]*Router
}

// NewRouterRegistry constructs a RouterRegistry.
func NewRouterRegistry(opts RouterRegistryOptions) *RouterRegistry {
	if opts.Loader == nil {
		panic("service: RouterRegistry requires a resource loader")
	}
	if opts.Support.Clock == nil {
		opts.Support.Clock = time.Now
	}
	return &RouterRegistry{
		loader:  opts.Loader,
		support: opts.Support,
		routers: make(map[string]*Router),
	}
}

// For returns the router of session, creating it on first use. The stored
// identity is refreshed on every call. Routers of expired sessions are
// pruned on the way.
func (g *RouterRegistry) For(session domainauth.Session) *Router {
	now := g.support.Clock()

	g.mu.Lock()
	defer g.mu.Unlock()
	for id, r := range g.routers {
		if id != session.ID && r.User().Expired(now) {
			r.Close()
			delete(g.routers, id)
		}
	}
	if r, ok := g.routers[session.ID]; ok {
		r.SetUser(session)
		return r
	}
	r := NewRouter(RouterOptions{Loader: g.loader, Session: session, Support: g.support})
	g.routers[session.ID] = r
	return r
}

// Lookup returns the router of sessionID without creating one.
func (g *RouterRegistry) Lookup(sessionID string) (*Router, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.routers[sessionID]
	return r, ok
}

// Remove drops the router of sessionID.
func (g *RouterRegistry) Remove(sessionID string) {
	g.mu.Lock()
	r, ok := g.routers[sessionID]
	delete(g.routers, sessionID)
	g.mu.Unlock()
	if ok {
		r.Close()
	}
}

// Len returns the number of live routers.
func (g *RouterRegistry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.routers)
}
