package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

func TestAuthHandlers_LoginPage(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/login?error=unauthorized&redirect_uri=%2Fdashboard%2Fcoaches", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "droits administrateur requis")
	assert.Contains(t, body, "/auth/login?redirect_uri=%2Fdashboard%2Fcoaches")
}

func TestAuthHandlers_Login(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantRedirect string
	}{
		{name: "default target", query: "", wantRedirect: PathDashboard},
		{name: "explicit target", query: "?redirect_uri=%2Fdashboard%2Fusers", wantRedirect: "/dashboard/users"},
		{name: "open redirect rejected", query: "?redirect_uri=https%3A%2F%2Fevil.example.com", wantRedirect: PathDashboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			var gotRedirect string
			ts.Auth.BeginLoginFunc = func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
				gotRedirect = redirectURL
				return &service.BeginLoginResult{AuthURL: "https://idp.example.com/authorize", State: "st", Nonce: "no"}, nil
			}
			rec := ts.serve(httptest.NewRequest(http.MethodGet, "/auth/login"+tt.query, nil))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "https://idp.example.com/authorize", rec.Header().Get("Location"))
			assert.Equal(t, tt.wantRedirect, gotRedirect)

			cookies := map[string]string{}
			for _, c := range rec.Result().Cookies() {
				cookies[c.Name] = c.Value
				assert.True(t, c.HttpOnly, c.Name)
			}
			assert.Equal(t, "st", cookies[stateCookieName])
			assert.Equal(t, "no", cookies[nonceCookieName])
			assert.Equal(t, tt.wantRedirect, cookies[redirectCookieName])
		})
	}
}

func TestAuthHandlers_Login_ProviderFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.Auth.BeginLoginFunc = func(context.Context, string) (*service.BeginLoginResult, error) {
		return nil, errors.New("discovery failed")
	}
	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?error=error", rec.Header().Get("Location"))
}

func callbackRequest(query string, cookies map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/callback"+query, nil)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	return req
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	ts := newTestServer(t)
	var got service.CompleteLoginInput
	ts.Auth.CompleteLoginFunc = func(_ context.Context, in service.CompleteLoginInput) (domainauth.Session, error) {
		got = in
		return testSession(adminSID, domainauth.RoleAdmin), nil
	}
	rec := ts.serve(callbackRequest("?code=abc&state=st", map[string]string{
		stateCookieName:    "st",
		nonceCookieName:    "no",
		redirectCookieName: "/dashboard/analytics",
	}))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard/analytics", rec.Header().Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "abc", State: "st", Nonce: "no"}, got)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, adminSID, session.Value)
	assert.True(t, session.HttpOnly)
	assert.Positive(t, session.MaxAge)
}

func TestAuthHandlers_Callback_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		cookies    map[string]string
		wantStatus int
	}{
		{name: "missing code", query: "?state=st", cookies: map[string]string{stateCookieName: "st"}, wantStatus: http.StatusBadRequest},
		{name: "state mismatch", query: "?code=abc&state=st", cookies: map[string]string{stateCookieName: "other"}, wantStatus: http.StatusBadRequest},
		{name: "missing nonce", query: "?code=abc&state=st", cookies: map[string]string{stateCookieName: "st"}, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.Auth.CompleteLoginFunc = func(context.Context, service.CompleteLoginInput) (domainauth.Session, error) {
				t.Fatal("CompleteLogin must not run")
				return domainauth.Session{}, nil
			}
			rec := ts.serve(callbackRequest(tt.query, tt.cookies))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuthHandlers_Callback_ExchangeFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.Auth.CompleteLoginFunc = func(context.Context, service.CompleteLoginInput) (domainauth.Session, error) {
		return domainauth.Session{}, errors.New("token exchange failed")
	}
	rec := ts.serve(callbackRequest("?code=abc&state=st", map[string]string{stateCookieName: "st", nonceCookieName: "no"}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?error=error", rec.Header().Get("Location"))
}

func logoutRequest(confirmed bool) *http.Request {
	form := url.Values{}
	if confirmed {
		form.Set("confirmed", "true")
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return asAdmin(req)
}

func TestAuthHandlers_Logout(t *testing.T) {
	t.Run("confirmed browser logout", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.serve(logoutRequest(true))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?error=logged_out", rec.Header().Get("Location"))
		require.Len(t, ts.Actions.Calls(), 1)
		assert.Equal(t, actionCall{Name: "logout", ID: adminSID}, ts.Actions.Calls()[0])

		var cleared bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == SessionCookieName && c.MaxAge < 0 {
				cleared = true
			}
		}
		assert.True(t, cleared)
	})

	t.Run("confirmed htmx logout", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.serve(htmxRequest(logoutRequest(true)))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "/login?error=logged_out", rec.Header().Get("Hx-Redirect"))
	})

	t.Run("declined logout keeps the session", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.serve(htmxRequest(logoutRequest(false)))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "none", rec.Header().Get("Hx-Reswap"))
		assert.Empty(t, ts.Actions.Calls())
		for _, c := range rec.Result().Cookies() {
			assert.NotEqual(t, SessionCookieName, c.Name)
		}
	})

	t.Run("sign out failure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.Actions.Err = errors.New("redis down")
		rec := ts.serve(htmxRequest(logoutRequest(true)))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Hx-Trigger"), service.MsgLogoutFailed)
	})
}

func TestAuthHandlers_Status(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		wantAuth bool
	}{
		{name: "no cookie", wantAuth: false},
		{name: "unknown session", cookie: "stale", wantAuth: false},
		{name: "admin session", cookie: adminSID, wantAuth: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			rec := ts.serve(req)

			require.Equal(t, http.StatusOK, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantAuth, body["authenticated"])
			if tt.wantAuth {
				user, ok := body["user"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "MC", user["initials"])
				assert.Equal(t, "Admin", user["role_label"])
			}
		})
	}
}
