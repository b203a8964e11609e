package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (domainauth.Session, error)
	CurrentSession(ctx context.Context, id string) (domainauth.Session, error)
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// SessionTerminator signs a session out after confirmation and drops its dashboard state.
type SessionTerminator interface {
	Logout(ctx context.Context, sessionID string, confirm service.Confirmer) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Terminator   SessionTerminator
	T            *TemplateRenderer
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPageData is the data of the login page template.
type LoginPageData struct {
	Title     string
	Reason    string
	Message   string
	SignInURL string
}

// LoginPage renders the sign-in page with the reason the gate sent the browser here.
// GET /login?error=<reason>&redirect_uri=<path>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	reason := r.URL.Query().Get("error")
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if redirect == "/" {
		redirect = PathDashboard
	}
	q := url.Values{}
	q.Set("redirect_uri", redirect)
	data := LoginPageData{
		Title:     "Connexion - " + appName,
		Reason:    reason,
		Message:   LoginMessage(reason),
		SignInURL: PathAuthLogin + "?" + q.Encode(),
	}
	if h.T == nil {
		http.Redirect(w, r, data.SignInURL, http.StatusSeeOther)
		return
	}
	if err := h.T.RenderPartial(w, tmplLogin, data); err != nil {
		http.Error(w, "login page unavailable", http.StatusInternalServerError)
	}
}

// Login handles the login initiation endpoint.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if redirectURI == "/" {
		redirectURI = PathDashboard
	}

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		http.Redirect(w, r, LoginURL(service.ReasonError, ""), http.StatusSeeOther)
		return
	}

	// Store state, nonce, and the original redirect URI in secure cookies
	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_callback",
			Err:     errors.New("code and state parameters are required"),
		})
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie(nonceCookieName)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	session, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().WarnContext(r.Context(), "login completion failed", "error", err)
		h.clearCookie(w, r, stateCookieName)
		h.clearCookie(w, r, nonceCookieName)
		http.Redirect(w, r, LoginURL(service.ReasonError, ""), http.StatusSeeOther)
		return
	}

	h.setSessionCookie(w, r, session)
	h.clearCookie(w, r, stateCookieName)
	h.clearCookie(w, r, nonceCookieName)
	http.Redirect(w, r, h.getPostLoginRedirect(w, r), http.StatusFound)
}

// Logout signs the admin out once the confirmation dialog was accepted.
// POST /auth/logout with confirmed=true.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil || sessionCookie.Value == "" {
		h.finishLogout(w, r)
		return
	}

	err = h.Terminator.Logout(r.Context(), sessionCookie.Value, formConfirmer(r))
	switch {
	case errors.Is(err, service.ErrNotConfirmed):
		HTMX(w).NoSwap()
		return
	case err != nil:
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		RenderError(ErrorOpts{W: w, R: r, Err: err, Renderer: h.T, Message: service.MsgLogoutFailed})
		return
	}
	h.finishLogout(w, r)
}

func (h *AuthHandlers) finishLogout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, r, SessionCookieName)
	target := LoginURL("logged_out", "")
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.CurrentSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"admin":         session.IsAdmin(),
		"user": map[string]any{
			"id":         session.UserID,
			"name":       session.Name,
			"email":      session.Email,
			"role":       session.Role,
			"role_label": session.Role.Label(),
			"initials":   domainauth.Initials(session.Name, session.Email),
		},
		"expires_at": session.ExpiresAt,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// oauthCookieParams groups values needed to set OAuth cookies (≤3 params rule).
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// oauthCookieMaxAge bounds the time the user has to finish the provider flow.
const oauthCookieMaxAge = 600

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	for name, value := range map[string]string{
		stateCookieName:    p.State,
		nonceCookieName:    p.Nonce,
		redirectCookieName: p.RedirectURI,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   isSecureRequest(r),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   oauthCookieMaxAge,
		})
	}
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// getPostLoginRedirect returns the post-login redirect URL and clears the cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := PathDashboard
	if c, err := r.Cookie(redirectCookieName); err == nil {
		if p := safeRedirectPath(c.Value); p != "/" {
			redirectURI = p
		}
		h.clearCookie(w, r, redirectCookieName)
	}
	return redirectURI
}
