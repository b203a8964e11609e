package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	admindashboard "github.com/ai-ikigai/admin-dashboard"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	httpassets "github.com/ai-ikigai/admin-dashboard/internal/http/assets"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       AuthServiceInterface
	Gate       AccessVerifier
	Routers    RouterProvider
	Actions    ActionRunner
	Terminator SessionTerminator // defaults to Actions
	// Optional template and static trees; the embedded (or, in dev mode, on-disk) ones are used when nil.
	TemplateFS   fs.FS
	StaticFS     fs.FS
	CookieDomain string
	IsDev        bool // Serve templates and assets from disk
	Clock        func() time.Time
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router with its middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil || services.Gate == nil || services.Routers == nil || services.Actions == nil {
		return nil, errors.New("httpx: auth, gate, routers and actions are required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	templateFS, staticFS, err := resolveFS(services)
	if err != nil {
		return nil, err
	}
	resolver, err := NewAssetResolverFromFS(staticFS)
	if err != nil {
		// Bare asset paths still work; only cache busting is lost.
		logger.Warn("asset versioning unavailable", "error", err)
		resolver = nil
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Resolver:   resolver,
		DevMode:    services.IsDev,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	terminator := services.Terminator
	if terminator == nil {
		terminator = services.Actions
	}
	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Terminator:   terminator,
		T:            tr,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	dashHandlers := &DashboardHandlers{
		T:       tr,
		Actions: services.Actions,
		Clock:   services.Clock,
		Logger:  logger,
	}

	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})
	guard := RequireAdmin(AdminGuard{Gate: services.Gate, Routers: services.Routers, Logger: logger})
	protected := func(h http.HandlerFunc) http.Handler { return csrf(guard(h)) }

	mux := http.NewServeMux()
	registerAuthRoutes(mux, authHandlers, csrf)
	registerDashboardRoutes(mux, dashHandlers, protected)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /static/", staticWithCacheHeaders(http.StripPrefix(httpassets.StaticPrefix, http.FileServer(http.FS(staticFS)))))

	var handler http.Handler = &notFoundHandler{mux: mux, renderer: tr}
	handler = BrowserDetection()(handler)
	handler = Recover(logger)(handler)
	handler = Logging(logger)(handler)
	return handler, nil
}

// resolveFS picks the template and static trees: explicit ones first, then
// the disk in dev mode for hot reloading, then the embedded copies.
func resolveFS(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS(StaticPathFromRoot)
		}
		return templateFS, staticFS, nil
	}
	var err error
	if templateFS == nil {
		if templateFS, err = fs.Sub(admindashboard.TemplateFS, TemplatePathFromRoot); err != nil {
			return nil, nil, fmt.Errorf("embedded templates: %w", err)
		}
	}
	if staticFS == nil {
		if staticFS, err = fs.Sub(admindashboard.StaticFS, StaticPathFromRoot); err != nil {
			return nil, nil, fmt.Errorf("embedded static assets: %w", err)
		}
	}
	return templateFS, staticFS, nil
}

// registerAuthRoutes registers the login flow. Logout is a form post and
// needs the CSRF token; the rest are reached by browser navigation.
func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, csrf func(http.Handler) http.Handler) {
	mux.HandleFunc("GET "+PathLogin, h.LoginPage)
	mux.HandleFunc("GET "+PathAuthLogin, h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.Handle("POST /auth/logout", csrf(http.HandlerFunc(h.Logout)))
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers, protected func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET /{$}", protected(h.Index))
	mux.Handle("GET "+PathDashboard, protected(h.Index))
	mux.Handle("GET "+PathDashboard+"/{section}", protected(h.Section))
	mux.Handle("GET "+PathDashboard+"/search", protected(h.Search))
	mux.Handle("GET "+PathDashboard+"/users/export.csv", protected(h.ExportUsers))
	mux.Handle("GET "+PathDashboard+"/users/{id}", protected(h.UserDetail))
	mux.Handle("GET "+PathDashboard+"/analyses/{id}", protected(h.AnalysisDetail))

	mux.Handle("POST "+PathDashboard+"/users/{id}/toggle-admin", protected(h.ToggleAdmin))
	mux.Handle("POST "+PathDashboard+"/users/{id}/delete", protected(h.DeleteUser))
	mux.Handle("POST "+PathDashboard+"/coaches/{id}/credits", protected(h.ManageCredits))
	mux.Handle("POST "+PathDashboard+"/coaches/{id}/plan", protected(h.ChangePlan))
	mux.Handle("POST "+PathDashboard+"/coaches/{id}/white-label", protected(h.WhiteLabel))
	mux.Handle("POST "+PathDashboard+"/analyses/{id}/report", protected(h.ReportAnomaly))
}

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
// URLs carrying a content version (?v=) are immutable; bare paths are revalidated.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") != "" {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and renders the error page for unrouted
// browser requests.
type notFoundHandler struct {
	mux      *http.ServeMux
	renderer *TemplateRenderer
}

// ServeHTTP implements http.Handler.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}
	// Let the mux answer 405s for known paths with the wrong method.
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.mux.ServeHTTP(w, r)
		return
	}
	RenderError(ErrorOpts{
		W:        w,
		R:        r,
		Err:      apperrors.NotFound("page not found"),
		Message:  "Page introuvable.",
		Renderer: h.renderer,
	})
}
