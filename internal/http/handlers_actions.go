package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ai-ikigai/admin-dashboard/internal/http/validation"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

// maxCredits bounds a single credit grant typed into the prompt.
const maxCredits = 100000

// formConfirmer reports the confirmed=true value posted once the user
// accepted the hx-confirm or hx-prompt dialog.
func formConfirmer(r *http.Request) service.Confirmer {
	confirmed := strings.EqualFold(r.FormValue("confirmed"), "true")
	return func(context.Context, string) bool { return confirmed }
}

type actionFunc func(ctx context.Context, router *service.Router, confirm service.Confirmer) error

// runAction executes an action and re-renders the dashboard on success.
// Failures and declined confirmations leave the page untouched; the
// notifications queued by the action are delivered either way.
func (h *DashboardHandlers) runAction(w http.ResponseWriter, r *http.Request, fn actionFunc) {
	router, ok := h.routerOrFail(w, r)
	if !ok {
		return
	}
	err := fn(r.Context(), router, formConfirmer(r))
	switch {
	case errors.Is(err, service.ErrNotConfirmed):
		HTMX(w).NoSwap()
		return
	case err != nil:
		h.logger().InfoContext(r.Context(), "action failed", "path", r.URL.Path, "error", err)
		if !IsBrowserRequest(r) {
			router.DrainNotifications()
			WriteError(w, ErrorParams{Code: DetermineErrorStatus(err), ErrCode: errorCode(err), Err: err})
			return
		}
		respondNoSwap(w, router)
		return
	}
	if !IsBrowserRequest(r) {
		router.DrainNotifications()
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
		return
	}
	h.renderDashboard(w, r, router)
}

// rejectInput queues a blocking validation toast and leaves the page untouched.
func rejectInput(w http.ResponseWriter, router *service.Router, msg string) {
	router.Notify(service.Notification{Level: service.NotifyError, Message: "❌ " + msg, Blocking: true})
	respondNoSwap(w, router)
}

// ToggleAdmin grants or revokes the admin role.
// POST /dashboard/users/{id}/toggle-admin.
func (h *DashboardHandlers) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, func(ctx context.Context, router *service.Router, confirm service.Confirmer) error {
		return h.Actions.ToggleAdmin(ctx, router, recordID(r), confirm)
	})
}

// DeleteUser deletes a user.
// POST /dashboard/users/{id}/delete.
func (h *DashboardHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, func(ctx context.Context, router *service.Router, confirm service.Confirmer) error {
		return h.Actions.DeleteUser(ctx, router, recordID(r), confirm)
	})
}

// ManageCredits adds the number of credits typed into the prompt.
// POST /dashboard/coaches/{id}/credits.
func (h *DashboardHandlers) ManageCredits(w http.ResponseWriter, r *http.Request) {
	raw := promptValue(r, "credits")
	if msg := validation.New().Validate("credits", raw, validation.IntRange("Crédits", 1, maxCredits)).First(); msg != "" {
		if router, ok := h.routerOrFail(w, r); ok {
			rejectInput(w, router, msg)
		}
		return
	}
	credits, _ := strconv.Atoi(strings.TrimSpace(raw))
	h.runAction(w, r, func(ctx context.Context, router *service.Router, confirm service.Confirmer) error {
		return h.Actions.ManageCredits(ctx, router, recordID(r), credits, confirm)
	})
}

// ChangePlan moves a coach to the plan typed into the prompt.
// POST /dashboard/coaches/{id}/plan.
func (h *DashboardHandlers) ChangePlan(w http.ResponseWriter, r *http.Request) {
	plan := promptValue(r, "plan")
	if msg := validation.New().Validate("plan", plan, validation.Required("Plan", 64)).First(); msg != "" {
		if router, ok := h.routerOrFail(w, r); ok {
			rejectInput(w, router, msg)
		}
		return
	}
	h.runAction(w, r, func(ctx context.Context, router *service.Router, confirm service.Confirmer) error {
		return h.Actions.ChangePlan(ctx, router, recordID(r), plan, confirm)
	})
}

// WhiteLabel toggles white labelling for a coach.
// POST /dashboard/coaches/{id}/white-label.
func (h *DashboardHandlers) WhiteLabel(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("enabled")
	if msg := validation.New().Validate("enabled", raw, validation.Bool("Marque blanche")).First(); msg != "" {
		if router, ok := h.routerOrFail(w, r); ok {
			rejectInput(w, router, msg)
		}
		return
	}
	enabled, _ := strconv.ParseBool(strings.TrimSpace(raw))
	h.runAction(w, r, func(ctx context.Context, router *service.Router, confirm service.Confirmer) error {
		return h.Actions.WhiteLabel(ctx, router, recordID(r), enabled, confirm)
	})
}

// ReportAnomaly flags a failed analysis.
// POST /dashboard/analyses/{id}/report.
func (h *DashboardHandlers) ReportAnomaly(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, func(ctx context.Context, router *service.Router, confirm service.Confirmer) error {
		return h.Actions.ReportAnomaly(ctx, router, recordID(r), confirm)
	})
}

// promptValue returns the hx-prompt answer, falling back to a form field for
// non-htmx clients.
func promptValue(r *http.Request, field string) string {
	if v := HXPrompt(r); v != "" {
		return v
	}
	return r.FormValue(field)
}
