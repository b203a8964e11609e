package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	"github.com/ai-ikigai/admin-dashboard/internal/http/ui/viewmodel"
	"github.com/ai-ikigai/admin-dashboard/internal/render"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

// ContainerView is one section container of the dashboard content area.
// Inactive containers are rendered hidden so their content survives.
type ContainerView struct {
	DOMID   string
	Section string
	Active  bool
	Loaded  bool
	View    render.View
}

// DashboardPage is the data of the layout and content templates.
type DashboardPage struct {
	viewmodel.Layout
	Containers []ContainerView
	// Partial marks an htmx response, which carries out-of-band title updates.
	Partial bool
}

// LayoutData implements viewmodel.LayoutProvider.
func (p *DashboardPage) LayoutData() *viewmodel.Layout { return &p.Layout }

// buildLayout constructs shared layout metadata from the request and router.
func buildLayout(r *http.Request, router *service.Router) viewmodel.Layout {
	current := router.CurrentSection()
	title := current.Title()
	layout := viewmodel.Layout{
		Title:          title + " - " + appName,
		PageTitle:      title,
		CurrentSection: current.String(),
		CSRFToken:      GetCSRFToken(r),
		Nav:            viewmodel.Navigation(current),
	}
	if session := GetSessionFromContext(r.Context()); session != nil {
		user := viewmodel.NewIdentityView(*session)
		layout.User = &user
	} else {
		user := viewmodel.NewIdentityView(router.User())
		layout.User = &user
	}
	return layout
}

// buildDashboardPage collects every created container in sidebar order.
func buildDashboardPage(r *http.Request, router *service.Router) *DashboardPage {
	page := &DashboardPage{Layout: buildLayout(r, router), Partial: WantsPartial(r)}
	containers := router.Containers()
	for _, id := range dashboard.Sections() {
		c, ok := containers[id]
		if !ok {
			continue
		}
		page.Containers = append(page.Containers, ContainerView{
			DOMID:   id.ContainerID(),
			Section: id.String(),
			Active:  c.Active,
			Loaded:  c.Loaded(),
			View:    c.View,
		})
	}
	return page
}

// renderDashboard writes the dashboard for the router's current state: the
// full layout for page loads, the content fragment for htmx requests.
// Queued notifications are delivered with the response.
func (h *DashboardHandlers) renderDashboard(w http.ResponseWriter, r *http.Request, router *service.Router) {
	page := buildDashboardPage(r, router)
	notices := router.DrainNotifications()

	if !WantsPartial(r) {
		if len(notices) > 0 {
			if b, err := json.Marshal(notices); err == nil {
				page.Toasts = string(b)
			}
		}
		if err := h.T.RenderFull(w, r, page); err != nil {
			h.logger().ErrorContext(r.Context(), "full page render failed", "error", err)
			RenderError(ErrorOpts{W: w, R: r, Err: err})
		}
		return
	}

	resp := HTMX(w).Toasts(notices).Trigger(EventNavActivate, map[string]string{"section": page.CurrentSection})
	if current := router.Current(); current.View.ScrollTop {
		resp.Trigger(EventScrollTop, nil)
	}
	if err := h.T.RenderPartial(w, tmplContent, page); err != nil {
		h.logger().ErrorContext(r.Context(), "partial content render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

// respondNoSwap delivers queued notifications without touching the page.
func respondNoSwap(w http.ResponseWriter, router *service.Router) {
	HTMX(w).Toasts(router.DrainNotifications()).NoSwap()
}
