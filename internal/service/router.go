package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/observability/metrics"
	"github.com/ai-ikigai/admin-dashboard/internal/observability/statsd"
	"github.com/ai-ikigai/admin-dashboard/internal/render"
)

// ErrStaleLoad is returned when a load finished after a newer navigation.
var ErrStaleLoad = errors.New("stale load discarded")

// ResourceLoader reads one resource on behalf of a session. Implementations
// degrade to fallback data; LoadResult.Data is always set.
type ResourceLoader interface {
	Load(ctx context.Context, sessionID string, kind dashboard.ResourceKind) LoadResult
}

// DashboardState is the per-session dashboard state.
type DashboardState struct {
	CurrentSection dashboard.SectionID
	CurrentUser    domainauth.Session
	Data           render.Data
}

// SectionView is the container of one section. It is created on the first
// navigation to the section and kept for the lifetime of the router.
type SectionView struct {
	ID         dashboard.SectionID
	Active     bool
	View       render.View
	Filter     render.Filter
	Generation uint64
	LoadedAt   time.Time
}

// Loaded reports whether the container holds a rendered view.
func (s SectionView) Loaded() bool { return !s.View.Empty() }

// NavigateOptions tunes a navigation.
type NavigateOptions struct {
	Filter render.Filter
	// KeepFilter reuses the container's last filter instead of Filter.
	KeepFilter bool
}

// RouterSupport carries the optional collaborators of Router.
type RouterSupport struct {
	Metrics statsd.Sink
	Logger  *slog.Logger
	Clock   func() time.Time
}

// RouterOptions groups dependencies for Router.
type RouterOptions struct {
	Loader  ResourceLoader
	Session domainauth.Session
	Support RouterSupport
}

// Router is the section navigation and data loading state machine of one
// admin session. All state mutations happen under mu; loads run outside it.
type Router struct {
	loader  ResourceLoader
	metrics statsd.Sink
	logger  *slog.Logger
	clock   func() time.Time
	notices notificationQueue

	mu         sync.Mutex
	state      DashboardState
	containers map[dashboard.SectionID]*SectionView
	generation uint64
	cancel     context.CancelFunc
}

// NewRouter constructs a Router positioned on the default section.
func NewRouter(opts RouterOptions) *Router {
	if opts.Loader == nil {
		panic("service: Router requires a resource loader")
	}
	logger := opts.Support.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Support.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Router{
		loader:  opts.Loader,
		metrics: opts.Support.Metrics,
		logger:  logger.With("component", "router", "session_id", opts.Session.ID),
		clock:   clock,
		state: DashboardState{
			CurrentSection: dashboard.DefaultSection,
			CurrentUser:    opts.Session,
			Data:           render.Data{},
		},
		containers: make(map[dashboard.SectionID]*SectionView),
	}
}

// SessionID returns the session the router belongs to.
func (r *Router) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.CurrentUser.ID
}

// SetUser records the identity validated by the session gate.
func (r *Router) SetUser(s domainauth.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.CurrentUser = s
}

// User returns the identity recorded by SetUser.
func (r *Router) User() domainauth.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.CurrentUser
}

// CurrentSection returns the active section id.
func (r *Router) CurrentSection() dashboard.SectionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.CurrentSection
}

// Navigate activates id and loads its data. Navigating to the active
// section reloads it. Unknown ids return UnknownSection and change nothing.
func (r *Router) Navigate(ctx context.Context, id dashboard.SectionID, opts NavigateOptions) (render.View, error) {
	if !id.Valid() {
		r.logger.WarnContext(ctx, "unknown section requested", "section", string(id))
		metrics.EmitNavigate(r.metrics, string(id), false)
		return render.View{}, apperrors.UnknownSection(string(id))
	}

	r.mu.Lock()
	r.state.CurrentSection = id
	for _, c := range r.containers {
		c.Active = false
	}
	target := r.containerLocked(id)
	target.Active = true
	if !opts.KeepFilter {
		target.Filter = opts.Filter
	}
	filter := target.Filter
	r.generation++
	gen := r.generation
	if r.cancel != nil {
		r.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	metrics.EmitNavigate(r.metrics, string(id), true)
	r.logger.DebugContext(ctx, "navigate", "section", string(id), "generation", gen)
	return r.LoadDashboardData(loadCtx, gen, filter)
}

// containerLocked returns the container of id, creating it on first use.
func (r *Router) containerLocked(id dashboard.SectionID) *SectionView {
	c, ok := r.containers[id]
	if !ok {
		c = &SectionView{ID: id}
		r.containers[id] = c
	}
	return c
}

// LoadDashboardData loads and renders the current section for generation
// gen. The result is applied only while gen is the latest generation;
// otherwise it is discarded with ErrStaleLoad. A render failure keeps the
// previous view, queues a warning and returns the error with that view.
func (r *Router) LoadDashboardData(ctx context.Context, gen uint64, filter render.Filter) (render.View, error) {
	r.mu.Lock()
	id := r.state.CurrentSection
	sessionID := r.state.CurrentUser.ID
	stale := gen != r.generation
	r.mu.Unlock()
	if stale {
		return r.discard(ctx, gen, id)
	}

	if filter.Now.IsZero() {
		filter.Now = r.clock()
	}
	data := r.loadResources(ctx, sessionID, id.Resources())
	view, renderErr := renderSection(id, data, filter)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		return r.discard(ctx, gen, id)
	}
	c := r.containerLocked(id)
	if renderErr != nil {
		r.logger.ErrorContext(ctx, "section load failed", "section", string(id), "generation", gen, "error", renderErr)
		r.notices.push(Notification{Level: NotifyWarning, Message: MsgLoadFailed})
		return c.View, renderErr
	}
	maps.Copy(r.state.Data, data)
	c.View = view
	c.Generation = gen
	c.LoadedAt = r.clock()
	return view, nil
}

func (r *Router) discard(ctx context.Context, gen uint64, id dashboard.SectionID) (render.View, error) {
	r.logger.DebugContext(ctx, "stale load discarded", "section", string(id), "generation", gen)
	metrics.EmitStaleLoad(r.metrics, string(id))
	return render.View{}, ErrStaleLoad
}

// loadResources fetches kinds concurrently. Loads never fail; a cancelled
// context only makes them fall back sooner.
func (r *Router) loadResources(ctx context.Context, sessionID string, kinds []dashboard.ResourceKind) render.Data {
	results := make([]LoadResult, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			results[i] = r.loader.Load(gctx, sessionID, kind)
			return nil
		})
	}
	_ = g.Wait()

	data := make(render.Data, len(kinds))
	for _, res := range results {
		data[res.Kind] = res.Data
	}
	return data
}

func renderSection(id dashboard.SectionID, data render.Data, filter render.Filter) (view render.View, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render %s: panic: %v", id, rec)
		}
	}()
	return render.Section(id, data, filter)
}

// Reload refreshes section id after a mutation. The active section is
// reloaded through Navigate with its last filter; an inactive one only
// refreshes the cached resources it owns.
func (r *Router) Reload(ctx context.Context, id dashboard.SectionID) (render.View, error) {
	if r.CurrentSection() == id {
		return r.Navigate(ctx, id, NavigateOptions{KeepFilter: true})
	}
	sessionID := r.SessionID()
	data := r.loadResources(ctx, sessionID, id.Resources())
	r.mu.Lock()
	defer r.mu.Unlock()
	maps.Copy(r.state.Data, data)
	c, ok := r.containers[id]
	if !ok {
		return render.View{}, nil
	}
	filter := c.Filter
	if filter.Now.IsZero() {
		filter.Now = r.clock()
	}
	view, err := renderSection(id, r.state.Data, filter)
	if err != nil {
		return c.View, err
	}
	c.View = view
	c.LoadedAt = r.clock()
	return view, nil
}

// Resource returns the cached payload of kind, loading and caching it first
// when absent.
func (r *Router) Resource(ctx context.Context, kind dashboard.ResourceKind) any {
	r.mu.Lock()
	v, ok := r.state.Data[kind]
	sessionID := r.state.CurrentUser.ID
	r.mu.Unlock()
	if ok {
		return v
	}
	res := r.loader.Load(ctx, sessionID, kind)
	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.state.Data[kind]; ok {
		return cached
	}
	r.state.Data[kind] = res.Data
	return res.Data
}

// Current returns the container of the active section.
func (r *Router) Current() SectionView {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.containers[r.state.CurrentSection]; ok {
		return *c
	}
	return SectionView{ID: r.state.CurrentSection, Active: true}
}

// Containers returns a copy of every created container.
func (r *Router) Containers() map[dashboard.SectionID]SectionView {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[dashboard.SectionID]SectionView, len(r.containers))
	for id, c := range r.containers {
		out[id] = *c
	}
	return out
}

// Snapshot returns a copy of the dashboard state.
func (r *Router) Snapshot() DashboardState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return DashboardState{
		CurrentSection: r.state.CurrentSection,
		CurrentUser:    r.state.CurrentUser,
		Data:           maps.Clone(r.state.Data),
	}
}

// Generation returns the latest navigation generation.
func (r *Router) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Notify queues n for the next response.
func (r *Router) Notify(n Notification) { r.notices.push(n) }

// DrainNotifications returns and clears the queued notifications.
func (r *Router) DrainNotifications() []Notification { return r.notices.drain() }

// Close cancels the in-flight load, if any.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
