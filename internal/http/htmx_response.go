package httpx

import (
	"net/http"

	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

// HTMXResponse provides a fluent API for building HTMX responses.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX creates a new HTMXResponse for fluent response building.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Redirect instructs htmx to redirect the browser to the given URL.
// It sets the HX-Redirect header and returns a 204 No Content status.
// The handler should return immediately after calling this method.
func (h *HTMXResponse) Redirect(url string) {
	SetHXRedirect(h.w, url)
	h.w.WriteHeader(http.StatusNoContent)
}

// Trigger triggers a client-side event after swap with optional payload.
// This method is chainable.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}

// Toasts queues the notifications for display through the showToast event.
// Nothing is set when the list is empty. This method is chainable.
func (h *HTMXResponse) Toasts(notices []service.Notification) *HTMXResponse {
	if len(notices) == 0 {
		return h
	}
	return h.Trigger(EventShowToast, notices)
}

// PushURL pushes the given URL into the browser history for the new content.
// This method is chainable.
func (h *HTMXResponse) PushURL(url string) *HTMXResponse {
	SetHXPushURL(h.w, url)
	return h
}

// NoSwap tells htmx to leave the page untouched and returns 204 No Content.
// Triggers set beforehand still fire.
func (h *HTMXResponse) NoSwap() {
	SetHXReswap(h.w, "none")
	h.w.WriteHeader(http.StatusNoContent)
}

// Refresh forces a full page refresh.
// It sets the HX-Refresh header and returns a 204 No Content status.
func (h *HTMXResponse) Refresh() {
	SetHXRefresh(h.w, true)
	h.w.WriteHeader(http.StatusNoContent)
}
