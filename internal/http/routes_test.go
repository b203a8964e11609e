package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter_RequiresServices(t *testing.T) {
	_, err := NewRouter(RouterServices{})
	require.Error(t, err)
}

func TestRoutes_Health(t *testing.T) {
	ts := newTestServer(t)
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		rec := ts.serve(httptest.NewRequest(method, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), method)
	}
}

func TestRoutes_StaticCacheHeaders(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.serve(httptest.NewRequest(http.MethodGet, "/static/css/dashboard.css?v=1a2b3c4d", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	rec = ts.serve(httptest.NewRequest(http.MethodGet, "/static/js/dashboard.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	rec = ts.serve(httptest.NewRequest(http.MethodGet, "/static/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_LayoutUsesVersionedAssets(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.serve(getAsAdmin("/dashboard/overview"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `/static/css/dashboard\.css\?v=[0-9a-f]{8}`, rec.Body.String())
}

func TestRoutes_NotFound(t *testing.T) {
	ts := newTestServer(t)

	t.Run("browser gets the error page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
		req.Header.Set("Accept", "text/html")
		rec := ts.serve(req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Page introuvable.")
	})

	t.Run("api client gets json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
		req.Header.Set("Accept", "application/json")
		rec := ts.serve(req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := ts.serve(httptest.NewRequest(http.MethodDelete, "/dashboard/users/1/delete", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
