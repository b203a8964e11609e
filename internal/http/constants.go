package httpx

// Cookie names shared by the auth handlers and the admin middleware.
const (
	SessionCookieName  = "session_id"
	stateCookieName    = "oauth_state"
	nonceCookieName    = "oauth_nonce"
	redirectCookieName = "post_login_redirect"
)

// Route paths referenced by redirects.
const (
	PathLogin     = "/login"
	PathAuthLogin = "/auth/login"
	PathDashboard = "/dashboard"
)

// Template paths used for loading templates from disk in dev mode.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

// Template names defined by the template set.
const (
	tmplLayout  = "layout"
	tmplContent = "content"
	tmplDetail  = "detail-panel"
	tmplSearch  = "search-results"
	tmplLogin   = "login-page"
	tmplError   = "error-layout"
)

// Client-side events carried in the Hx-Trigger header.
const (
	EventShowToast   = "showToast"
	EventNavActivate = "nav:activate"
	EventScrollTop   = "dashboard:scrollTop"
)

// loginMessages maps a login redirect reason to the banner shown on the login page.
//
//nolint:gochecknoglobals // static read-only lookup
var loginMessages = map[string]string{
	"not_logged_in": "Veuillez vous connecter pour accéder au tableau de bord.",
	"unauthorized":  "Accès refusé : droits administrateur requis.",
	"error":         "Une erreur est survenue lors de la vérification de votre session.",
	"logged_out":    "Vous avez été déconnecté.",
}

// LoginMessage returns the banner for a login redirect reason, or "" when unknown.
func LoginMessage(reason string) string { return loginMessages[reason] }

// appName is the product name used in document titles.
const appName = "AI-Ikigai Admin"
