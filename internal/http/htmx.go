package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsHistoryRestore reports true when htmx is restoring history (Hx-History-Restore-Request: true).
func IsHistoryRestore(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-History-Restore-Request"), "true")
}

// WantsPartial returns true when the handler should return only the dashboard
// content fragment. History restores need the full page because the cached
// snapshot may be missing.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsHistoryRestore(r)
}

// HXTarget returns the id of the target element being updated.
func HXTarget(r *http.Request) string { return r.Header.Get("Hx-Target") }

// HXPrompt returns the user's answer to an hx-prompt dialog.
func HXPrompt(r *http.Request) string { return r.Header.Get("Hx-Prompt") }

// SetHXRedirect instructs htmx to redirect the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXPushURL pushes the given URL into the browser history for the new content.
func SetHXPushURL(w http.ResponseWriter, url string) { w.Header().Set("Hx-Push-Url", url) }

// SetHXReswap overrides the swap strategy of the triggering element.
func SetHXReswap(w http.ResponseWriter, strategy string) { w.Header().Set("Hx-Reswap", strategy) }

// SetHXRefresh forces a full page refresh when true.
func SetHXRefresh(w http.ResponseWriter, refresh bool) {
	if refresh {
		w.Header().Set("Hx-Refresh", "true")
		return
	}
	w.Header().Set("Hx-Refresh", "false")
}

// SetHXTrigger triggers a client-side event after swap with optional payload.
// The Hx-Trigger header is a JSON object; events already set on the response
// are kept, so several triggers can be combined. A nil payload sends true.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	var value any = true
	if payload != nil {
		value = payload
	}
	events := map[string]any{}
	if existing := w.Header().Get("Hx-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			// A bare event name is also valid for htmx.
			events = map[string]any{existing: true}
		}
	}
	events[event] = value
	b, err := json.Marshal(events)
	if err != nil {
		// Fall back to a boolean trigger if payload cannot be serialized
		w.Header().Set("Hx-Trigger", "{\""+event+"\":true}")
		return
	}
	w.Header().Set("Hx-Trigger", string(b))
}
