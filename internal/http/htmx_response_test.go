package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

func TestHTMXResponse_Redirect(t *testing.T) {
	rr := httptest.NewRecorder()
	HTMX(rr).Redirect("/login?error=logged_out")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "/login?error=logged_out", rr.Header().Get("Hx-Redirect"))
}

func TestHTMXResponse_NoSwapKeepsTriggers(t *testing.T) {
	rr := httptest.NewRecorder()
	HTMX(rr).Trigger(EventScrollTop, nil).NoSwap()

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "none", rr.Header().Get("Hx-Reswap"))
	assert.Contains(t, rr.Header().Get("Hx-Trigger"), EventScrollTop)
	assert.Zero(t, rr.Body.Len())
}

func TestHTMXResponse_Toasts(t *testing.T) {
	t.Run("empty list sets nothing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HTMX(rr).Toasts(nil)
		assert.Empty(t, rr.Header().Get("Hx-Trigger"))
	})

	t.Run("notifications ride on showToast", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HTMX(rr).Toasts([]service.Notification{
			{Level: service.NotifySuccess, Message: "✅ Utilisateur supprimé"},
			{Level: service.NotifyError, Message: "❌ Échec", Blocking: true},
		}).Trigger(EventNavActivate, map[string]string{"section": "users"})

		var events map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &events))
		require.Contains(t, events, EventShowToast)
		require.Contains(t, events, EventNavActivate)

		var toasts []map[string]any
		require.NoError(t, json.Unmarshal(events[EventShowToast], &toasts))
		require.Len(t, toasts, 2)
		assert.Equal(t, "✅ Utilisateur supprimé", toasts[0]["message"])
		assert.Equal(t, true, toasts[1]["blocking"])
	})
}

func TestHTMXResponse_PushURLAndRefresh(t *testing.T) {
	rr := httptest.NewRecorder()
	HTMX(rr).PushURL("/dashboard/coaches")
	assert.Equal(t, "/dashboard/coaches", rr.Header().Get("Hx-Push-Url"))
	// Chainable methods never write the status.
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, rr.Flushed)

	rr = httptest.NewRecorder()
	HTMX(rr).Refresh()
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "true", rr.Header().Get("Hx-Refresh"))
}
