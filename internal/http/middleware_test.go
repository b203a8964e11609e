package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

func guardedHandler(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		s := GetSessionFromContext(r.Context())
		require.NotNil(t, s)
		router, ok := GetRouterFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, s.ID, router.SessionID())
		w.WriteHeader(http.StatusOK)
	})
	mw := RequireAdmin(AdminGuard{Gate: &fakeGate{}, Routers: newTestRegistry(), Logger: slog.Default()})
	return BrowserDetection()(mw(next)), &called
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name         string
		sid          string
		htmx         bool
		accept       string
		wantStatus   int
		wantLocation string
		wantRedirect string
		wantCalled   bool
	}{
		{
			name:       "admin admitted",
			sid:        adminSID,
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "read-only admin admitted",
			sid:        readonlySID,
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:         "browser without session redirected to login",
			accept:       "text/html",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login?error=not_logged_in&redirect_uri=%2Fdashboard%2Fusers",
		},
		{
			name:         "non-admin browser redirected with unauthorized",
			sid:          userSID,
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login?error=unauthorized&redirect_uri=%2Fdashboard%2Fusers",
		},
		{
			name:         "htmx request gets Hx-Redirect",
			sid:          "expired",
			htmx:         true,
			wantStatus:   http.StatusOK,
			wantRedirect: "/login?error=not_logged_in&redirect_uri=%2Fdashboard%2Fusers",
		},
		{
			name:       "api client without session gets 401",
			accept:     "application/json",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "api client with non-admin session gets 403",
			sid:        userSID,
			accept:     "application/json",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, called := guardedHandler(t)
			req := httptest.NewRequest(http.MethodGet, "/dashboard/users", nil)
			if tt.sid != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.sid})
			}
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				req.Header.Set("Hx-Request", "true")
				req.Header.Set("Hx-Current-Url", "https://admin.ai-ikigai.com/dashboard/users")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, *called)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			if tt.wantRedirect != "" {
				assert.Equal(t, tt.wantRedirect, rec.Header().Get("Hx-Redirect"))
				assert.Empty(t, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRequireAdmin_GateErrorReason(t *testing.T) {
	gate := &fakeGate{VerifyFunc: func(context.Context, string) (domainauth.Session, error) {
		return domainauth.Session{}, errors.New("redis down")
	}}
	mw := RequireAdmin(AdminGuard{Gate: gate, Routers: newTestRegistry()})
	h := mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: adminSID})
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, service.ReasonError, body["error"])
}

func TestRequireAdmin_PanicsWithoutDeps(t *testing.T) {
	assert.Panics(t, func() { RequireAdmin(AdminGuard{}) })
	assert.Panics(t, func() { RequireAdmin(AdminGuard{Gate: &fakeGate{}}) })
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/login?error=logged_out", LoginURL("logged_out", ""))
	assert.Equal(t, "/login?error=error&redirect_uri=%2Fdashboard%2Fcoaches", LoginURL("error", "/dashboard/coaches"))
	// Open redirects are dropped.
	assert.Equal(t, "/login?error=error", LoginURL("error", "//evil.example.com"))
	assert.Equal(t, "/login?error=error", LoginURL("error", "https://evil.example.com/x"))
	assert.Equal(t, "/login", LoginURL("", ""))

	u, err := url.Parse(LoginURL(service.ReasonUnauthorized, "/dashboard/users?status=active"))
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/users?status=active", u.Query().Get("redirect_uri"))
}

func TestBrowserDetection(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		htmx   bool
		want   bool
	}{
		{name: "api route with json", path: "/api/status", accept: "application/json", want: false},
		{name: "api route with html", path: "/api/status", accept: "text/html", want: false},
		{name: "static asset", path: "/static/css/dashboard.css", accept: "text/html", want: false},
		{name: "page navigation", path: "/dashboard/users", accept: "text/html,application/xhtml+xml", want: true},
		{name: "htmx request", path: "/dashboard/users", accept: "*/*", htmx: true, want: true},
		{name: "no accept header", path: "/dashboard", want: true},
		{name: "json client", path: "/dashboard/search", accept: "application/json", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bool
			h := BrowserDetection()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = IsBrowserRequest(r)
			}))
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				req.Header.Set("Hx-Request", "true")
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecover(t *testing.T) {
	h := Recover(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetSessionFromContext(ctx))
	_, ok := GetRouterFromContext(ctx)
	assert.False(t, ok)

	assert.Equal(t, ctx, SetSessionInContext(ctx, nil))
	assert.Equal(t, ctx, SetRouterInContext(ctx, nil))

	s := testSession(adminSID, domainauth.RoleAdmin)
	router := newTestRegistry().For(s)
	ctx = SetRouterInContext(SetSessionInContext(ctx, &s), router)
	assert.Equal(t, &s, GetSessionFromContext(ctx))
	got, ok := GetRouterFromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, router, got)
}
