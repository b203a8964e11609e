package httpx

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler(cfg CSRFConfig) (http.Handler, *string) {
	var seen string
	h := CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCSRFToken(r)
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFProtection_SafeMethodsIssueToken(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		t.Run(method, func(t *testing.T) {
			h, seen := csrfHandler(CSRFConfig{})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, "/dashboard", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			c := findCookie(rec, DefaultCSRFCookieName)
			require.NotNil(t, c)
			assert.False(t, c.HttpOnly, "htmx reads the token")
			assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
			assert.Equal(t, c.Value, *seen)
		})
	}
}

func TestCSRFProtection_ExistingCookieKept(t *testing.T) {
	h, seen := csrfHandler(CSRFConfig{})
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Nil(t, findCookie(rec, DefaultCSRFCookieName))
	assert.Equal(t, testCSRFToken, *seen)
}

func TestCSRFProtection_PostValidation(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		form        string
		contentType string
		wantStatus  int
	}{
		{name: "header token", header: testCSRFToken, wantStatus: http.StatusOK},
		{
			name:        "form token",
			form:        url.Values{"csrf_token": {testCSRFToken}, "confirmed": {"true"}}.Encode(),
			contentType: "application/x-www-form-urlencoded",
			wantStatus:  http.StatusOK,
		},
		{name: "missing token", wantStatus: http.StatusForbidden},
		{name: "mismatched header", header: "other", wantStatus: http.StatusForbidden},
		{
			name:        "form token ignored for json bodies",
			form:        `{"csrf_token":"test-csrf-token"}`,
			contentType: "application/json",
			wantStatus:  http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := csrfHandler(CSRFConfig{})
			req := httptest.NewRequest(http.MethodPost, "/dashboard/users/1/delete", strings.NewReader(tt.form))
			req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
			req.Header.Set("Accept", "application/json")
			if tt.header != "" {
				req.Header.Set(DefaultCSRFHeaderName, tt.header)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCSRFProtection_HTMXFailureToast(t *testing.T) {
	h, _ := csrfHandler(CSRFConfig{})
	req := htmxRequest(httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("Hx-Reswap"))
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "Session expirée")
}

func TestCSRFProtection_SecureCookie(t *testing.T) {
	t.Run("tls", func(t *testing.T) {
		h, _ := csrfHandler(CSRFConfig{CookieDomain: "admin.ai-ikigai.com"})
		req := httptest.NewRequest(http.MethodGet, "https://admin.ai-ikigai.com/dashboard", nil)
		req.TLS = &tls.ConnectionState{}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		c := findCookie(rec, DefaultCSRFCookieName)
		require.NotNil(t, c)
		assert.True(t, c.Secure)
		assert.Equal(t, "admin.ai-ikigai.com", c.Domain)
	})

	t.Run("forwarded proto list", func(t *testing.T) {
		h, _ := csrfHandler(CSRFConfig{})
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("X-Forwarded-Proto", "http, HTTPS")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		c := findCookie(rec, DefaultCSRFCookieName)
		require.NotNil(t, c)
		assert.True(t, c.Secure)
	})
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
