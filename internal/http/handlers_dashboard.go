package httpx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/render"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

// ActionRunner is the subset of service.Actions used by the HTTP layer.
type ActionRunner interface {
	ToggleAdmin(ctx context.Context, r *service.Router, userID dashboard.RecordID, confirm service.Confirmer) error
	DeleteUser(ctx context.Context, r *service.Router, userID dashboard.RecordID, confirm service.Confirmer) error
	ManageCredits(ctx context.Context, r *service.Router, coachID dashboard.RecordID, credits int, confirm service.Confirmer) error
	ChangePlan(ctx context.Context, r *service.Router, coachID dashboard.RecordID, plan string, confirm service.Confirmer) error
	WhiteLabel(ctx context.Context, r *service.Router, coachID dashboard.RecordID, enabled bool, confirm service.Confirmer) error
	ReportAnomaly(ctx context.Context, r *service.Router, analysisID dashboard.RecordID, confirm service.Confirmer) error
	Logout(ctx context.Context, sessionID string, confirm service.Confirmer) error
}

var _ ActionRunner = (*service.Actions)(nil)

// DashboardHandlers serves the section pages, read-only tools and actions.
// Every route is wrapped by RequireAdmin, which places the router in the context.
type DashboardHandlers struct {
	T       *TemplateRenderer
	Actions ActionRunner
	Clock   func() time.Time
	Logger  *slog.Logger
}

func (h *DashboardHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *DashboardHandlers) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

// routerOrFail returns the request's router or writes an internal error.
func (h *DashboardHandlers) routerOrFail(w http.ResponseWriter, r *http.Request) (*service.Router, bool) {
	router, ok := GetRouterFromContext(r.Context())
	if !ok {
		h.logger().ErrorContext(r.Context(), "dashboard route without router", "path", r.URL.Path)
		RenderError(ErrorOpts{W: w, R: r, Err: apperrors.Internal("dashboard state unavailable"), Renderer: h.T})
		return nil, false
	}
	return router, true
}

// Index redirects to the current section.
// GET / and GET /dashboard.
func (h *DashboardHandlers) Index(w http.ResponseWriter, r *http.Request) {
	router, ok := h.routerOrFail(w, r)
	if !ok {
		return
	}
	http.Redirect(w, r, sectionPath(router.CurrentSection()), http.StatusSeeOther)
}

func sectionPath(id dashboard.SectionID) string { return PathDashboard + "/" + id.String() }

// Section navigates to a section and renders it.
// GET /dashboard/{section}.
func (h *DashboardHandlers) Section(w http.ResponseWriter, r *http.Request) {
	router, ok := h.routerOrFail(w, r)
	if !ok {
		return
	}
	id := dashboard.SectionID(r.PathValue("section"))
	filter := render.FilterFromQuery(r.URL.Query(), h.now())

	_, err := router.Navigate(r.Context(), id, service.NavigateOptions{Filter: filter})
	switch {
	case apperrors.IsUnknownSection(err):
		// Unknown sections change nothing.
		if IsHTMX(r) {
			respondNoSwap(w, router)
			return
		}
		http.Redirect(w, r, sectionPath(router.CurrentSection()), http.StatusSeeOther)
		return
	case errors.Is(err, service.ErrStaleLoad):
		// A newer navigation of this session owns the page.
		if IsHTMX(r) {
			HTMX(w).NoSwap()
			return
		}
	case err != nil:
		// The router queued a warning and kept the previous view.
		h.logger().WarnContext(r.Context(), "section load failed", "section", id.String(), "error", err)
	}
	h.renderDashboard(w, r, router)
}

// Search renders the quick search results.
// GET /dashboard/search?q=.
func (h *DashboardHandlers) Search(w http.ResponseWriter, r *http.Request) {
	router, ok := h.routerOrFail(w, r)
	if !ok {
		return
	}
	results := service.Search(r.Context(), router, r.URL.Query().Get(render.ParamSearch))
	if !IsBrowserRequest(r) {
		WriteJSON(w, http.StatusOK, results)
		return
	}
	if err := h.T.RenderPartial(w, tmplSearch, results); err != nil {
		RenderError(ErrorOpts{W: w, R: r, Err: err})
	}
}

// ExportUsers streams the cached users as CSV.
// GET /dashboard/users/export.csv.
func (h *DashboardHandlers) ExportUsers(w http.ResponseWriter, r *http.Request) {
	router, ok := h.routerOrFail(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := service.ExportUsers(r.Context(), router, &buf); err != nil {
		h.logger().ErrorContext(r.Context(), "users export failed", "error", err)
		RenderError(ErrorOpts{W: w, R: r, Err: err, Renderer: h.T, Message: "❌ Erreur lors de l'export des utilisateurs"})
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.UsersExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().WarnContext(r.Context(), "users export write failed", "error", err)
	}
}

// UserDetail renders the detail panel of a user.
// GET /dashboard/users/{id}.
func (h *DashboardHandlers) UserDetail(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, service.ViewUser)
}

// AnalysisDetail renders the detail panel of an analysis.
// GET /dashboard/analyses/{id}.
func (h *DashboardHandlers) AnalysisDetail(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, service.ViewAnalysis)
}

type detailFunc func(ctx context.Context, r *service.Router, id dashboard.RecordID) (render.Detail, error)

func (h *DashboardHandlers) detail(w http.ResponseWriter, r *http.Request, fn detailFunc) {
	router, ok := h.routerOrFail(w, r)
	if !ok {
		return
	}
	d, err := fn(r.Context(), router, recordID(r))
	if err != nil {
		RenderError(ErrorOpts{W: w, R: r, Err: err, Renderer: h.T})
		return
	}
	if !IsBrowserRequest(r) {
		WriteJSON(w, http.StatusOK, d)
		return
	}
	if err := h.T.RenderPartial(w, tmplDetail, d); err != nil {
		RenderError(ErrorOpts{W: w, R: r, Err: err})
	}
}

func recordID(r *http.Request) dashboard.RecordID {
	return dashboard.TextID(strings.TrimSpace(r.PathValue("id")))
}
