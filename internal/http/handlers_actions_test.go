package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
)

type actionRequest struct {
	Path   string
	Form   url.Values
	Prompt string
}

func postAction(ar actionRequest) *http.Request {
	req := httptest.NewRequest(http.MethodPost, ar.Path, strings.NewReader(ar.Form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ar.Prompt != "" {
		req.Header.Set("Hx-Prompt", ar.Prompt)
	}
	return htmxRequest(asAdmin(req))
}

func confirmed(extra ...string) url.Values {
	v := url.Values{"confirmed": {"true"}}
	for i := 0; i+1 < len(extra); i += 2 {
		v.Set(extra[i], extra[i+1])
	}
	return v
}

func TestActions_Confirmed(t *testing.T) {
	tests := []struct {
		name string
		req  actionRequest
		want actionCall
	}{
		{
			name: "toggle admin",
			req:  actionRequest{Path: "/dashboard/users/1/toggle-admin", Form: confirmed()},
			want: actionCall{Name: "toggle-admin", ID: "1"},
		},
		{
			name: "delete user",
			req:  actionRequest{Path: "/dashboard/users/2/delete", Form: confirmed()},
			want: actionCall{Name: "delete-user", ID: "2"},
		},
		{
			name: "credits from prompt",
			req:  actionRequest{Path: "/dashboard/coaches/1/credits", Form: confirmed(), Prompt: " 25 "},
			want: actionCall{Name: "credits", ID: "1", Value: 25},
		},
		{
			name: "credits from form field",
			req:  actionRequest{Path: "/dashboard/coaches/1/credits", Form: confirmed("credits", "10")},
			want: actionCall{Name: "credits", ID: "1", Value: 10},
		},
		{
			name: "plan",
			req:  actionRequest{Path: "/dashboard/coaches/1/plan", Form: confirmed(), Prompt: "Enterprise"},
			want: actionCall{Name: "plan", ID: "1", Value: "Enterprise"},
		},
		{
			name: "white label",
			req:  actionRequest{Path: "/dashboard/coaches/1/white-label", Form: confirmed("enabled", "true")},
			want: actionCall{Name: "white-label", ID: "1", Value: true},
		},
		{
			name: "report anomaly",
			req:  actionRequest{Path: "/dashboard/analyses/2/report", Form: confirmed()},
			want: actionCall{Name: "report", ID: "2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.serve(getAsAdmin("/dashboard/users"))
			rec := ts.serve(postAction(tt.req))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, []actionCall{tt.want}, ts.Actions.Calls())
			// The dashboard is re-rendered in place.
			assert.Contains(t, rec.Body.String(), "section-container")
			assert.Contains(t, hxTriggers(t, rec), EventNavActivate)
		})
	}
}

func TestActions_Declined(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.serve(postAction(actionRequest{Path: "/dashboard/users/1/delete", Form: url.Values{}}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("Hx-Reswap"))
	assert.Empty(t, ts.Actions.Calls())
}

func TestActions_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		req     actionRequest
		wantMsg string
	}{
		{
			name:    "credits not a number",
			req:     actionRequest{Path: "/dashboard/coaches/1/credits", Form: confirmed(), Prompt: "beaucoup"},
			wantMsg: "Crédits doit être un nombre.",
		},
		{
			name:    "credits out of range",
			req:     actionRequest{Path: "/dashboard/coaches/1/credits", Form: confirmed(), Prompt: "0"},
			wantMsg: "Crédits doit être compris entre 1 et 100000.",
		},
		{
			name:    "empty plan",
			req:     actionRequest{Path: "/dashboard/coaches/1/plan", Form: confirmed()},
			wantMsg: "Plan est requis.",
		},
		{
			name:    "white label flag",
			req:     actionRequest{Path: "/dashboard/coaches/1/white-label", Form: confirmed("enabled", "oui")},
			wantMsg: "Marque blanche doit valoir true ou false.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec := ts.serve(postAction(tt.req))

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Empty(t, ts.Actions.Calls())

			var toasts []map[string]any
			require.NoError(t, json.Unmarshal(hxTriggers(t, rec)[EventShowToast], &toasts))
			require.Len(t, toasts, 1)
			assert.Equal(t, "❌ "+tt.wantMsg, toasts[0]["message"])
			assert.Equal(t, true, toasts[0]["blocking"])
		})
	}
}

func TestActions_Failure(t *testing.T) {
	t.Run("htmx keeps the page", func(t *testing.T) {
		ts := newTestServer(t)
		ts.Actions.Err = apperrors.MutationFailed(errors.New("500"), "delete_user")
		rec := ts.serve(postAction(actionRequest{Path: "/dashboard/users/1/delete", Form: confirmed()}))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "none", rec.Header().Get("Hx-Reswap"))
	})

	t.Run("api client gets json", func(t *testing.T) {
		ts := newTestServer(t)
		ts.Actions.Err = apperrors.Forbidden("read-only")
		req := httptest.NewRequest(http.MethodPost, "/dashboard/users/1/delete", strings.NewReader(confirmed().Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		rec := ts.serve(asAdmin(req))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, string(apperrors.ErrCodeForbidden), body["error"])
	})
}

func TestActions_RequireCSRFToken(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/dashboard/users/1/delete", strings.NewReader(confirmed().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: adminSID})
	rec := ts.serve(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, ts.Actions.Calls())
}
