package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Bool("htmx", IsHTMX(r)),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AccessVerifier admits sessions holding the admin capability.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, sessionID string) (domainauth.Session, error)
}

// RouterProvider returns the dashboard router owned by a session.
type RouterProvider interface {
	For(session domainauth.Session) *service.Router
}

// AdminGuard groups the collaborators of RequireAdmin.
type AdminGuard struct {
	Gate    AccessVerifier
	Routers RouterProvider
	Logger  *slog.Logger
}

// RequireAdmin returns a middleware that runs the session gate before any
// dashboard handler. Admitted requests carry the session and its router in
// the context. Browsers are sent to /login?error=<reason>; htmx requests get
// an Hx-Redirect; API clients get a JSON error.
func RequireAdmin(g AdminGuard) func(http.Handler) http.Handler {
	if g.Gate == nil || g.Routers == nil {
		panic("httpx: RequireAdmin requires a gate and a router provider") //nolint:forbidigo // Fail fast during server setup.
	}
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := verifyRequest(r, g.Gate)
			if err != nil {
				reason := service.DenialReason(err)
				logger.InfoContext(r.Context(), "dashboard access denied",
					"reason", reason, "path", r.URL.Path)
				denyAccess(w, r, reason)
				return
			}

			ctx := SetSessionInContext(r.Context(), &session)
			ctx = SetRouterInContext(ctx, g.Routers.For(session))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// verifyRequest reads the session cookie and runs the gate on it.
func verifyRequest(r *http.Request, gate AccessVerifier) (domainauth.Session, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return domainauth.Session{}, apperrors.NotAuthenticated("no session cookie")
	}
	return gate.VerifyAccess(r.Context(), c.Value)
}

func denyAccess(w http.ResponseWriter, r *http.Request, reason string) {
	if IsBrowserRequest(r) {
		redirectToLogin(w, r, reason)
		return
	}
	code := http.StatusUnauthorized
	if reason == service.ReasonUnauthorized {
		code = http.StatusForbidden
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: reason, Err: errors.New("admin session required")})
}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
// It sets a context value that can be used by downstream handlers to determine
// whether to return HTML or JSON responses.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest treats htmx requests and requests accepting text/html (or
// sending no Accept header) as browser requests. /api/ and /static/ never are.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// LoginURL builds the login page URL for a denial reason and return path.
func LoginURL(reason, redirectPath string) string {
	q := url.Values{}
	if reason != "" {
		q.Set("error", reason)
	}
	if p := safeRedirectPath(redirectPath); p != "/" {
		q.Set("redirect_uri", p)
	}
	u := url.URL{Path: PathLogin, RawQuery: q.Encode()}
	return u.String()
}

// redirectToLogin sends the browser to the login page with the denial reason.
func redirectToLogin(w http.ResponseWriter, r *http.Request, reason string) {
	target := LoginURL(reason, redirectPathForRequest(r))
	if IsHTMX(r) {
		// A 303 would be followed by the XHR and swapped into the section container.
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" {
			return current
		}
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}
	return safeRedirectPath(raw)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
