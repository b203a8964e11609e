package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

const (
	staticPathFromTest = "../../frontend/static"
	adminSID           = "sid-admin"
	readonlySID        = "sid-readonly"
	userSID            = "sid-user"
	testCSRFToken      = "test-csrf-token"
)

// RequireTemplateRenderer creates a TemplateRenderer over the repository templates.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	require.NoError(t, err)
	return tr
}

func testSession(id string, role domainauth.Role) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "u-" + id,
		Name:      "Marie Curie",
		Email:     "marie@ai-ikigai.com",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// fakeGate admits adminSID and readonlySID, refuses userSID and rejects everything else.
type fakeGate struct {
	VerifyFunc func(ctx context.Context, sessionID string) (domainauth.Session, error)
}

func (g *fakeGate) VerifyAccess(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if g.VerifyFunc != nil {
		return g.VerifyFunc(ctx, sessionID)
	}
	switch sessionID {
	case adminSID:
		return testSession(adminSID, domainauth.RoleAdmin), nil
	case readonlySID:
		return testSession(readonlySID, domainauth.RoleReadonlyAdmin), nil
	case userSID:
		return domainauth.Session{}, apperrors.Unauthorized("admin role required")
	default:
		return domainauth.Session{}, apperrors.NotAuthenticated("unknown session")
	}
}

// fallbackLoader serves the static fallback payloads.
type fallbackLoader struct{}

func (fallbackLoader) Load(_ context.Context, _ string, kind dashboard.ResourceKind) service.LoadResult {
	return service.LoadResult{Kind: kind, Data: dashboard.Fallback(kind), Live: true}
}

func newTestRegistry() *service.RouterRegistry {
	return service.NewRouterRegistry(service.RouterRegistryOptions{Loader: fallbackLoader{}})
}

// fakeActions records the actions it ran. Like the real service it asks the
// confirmer first and reports a declined dialog as ErrNotConfirmed.
type fakeActions struct {
	Err error

	mu    sync.Mutex
	calls []actionCall
}

type actionCall struct {
	Name  string
	ID    string
	Value any
}

func (f *fakeActions) record(ctx context.Context, confirm service.Confirmer, c actionCall) error {
	if !confirm(ctx, c.Name) {
		return service.ErrNotConfirmed
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	return f.Err
}

func (f *fakeActions) Calls() []actionCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]actionCall(nil), f.calls...)
}

func (f *fakeActions) ToggleAdmin(ctx context.Context, _ *service.Router, id dashboard.RecordID, confirm service.Confirmer) error {
	return f.record(ctx, confirm, actionCall{Name: "toggle-admin", ID: id.String()})
}

func (f *fakeActions) DeleteUser(ctx context.Context, _ *service.Router, id dashboard.RecordID, confirm service.Confirmer) error {
	return f.record(ctx, confirm, actionCall{Name: "delete-user", ID: id.String()})
}

func (f *fakeActions) ManageCredits(ctx context.Context, _ *service.Router, id dashboard.RecordID, credits int, confirm service.Confirmer) error {
	return f.record(ctx, confirm, actionCall{Name: "credits", ID: id.String(), Value: credits})
}

func (f *fakeActions) ChangePlan(ctx context.Context, _ *service.Router, id dashboard.RecordID, plan string, confirm service.Confirmer) error {
	return f.record(ctx, confirm, actionCall{Name: "plan", ID: id.String(), Value: plan})
}

func (f *fakeActions) WhiteLabel(ctx context.Context, _ *service.Router, id dashboard.RecordID, enabled bool, confirm service.Confirmer) error {
	return f.record(ctx, confirm, actionCall{Name: "white-label", ID: id.String(), Value: enabled})
}

func (f *fakeActions) ReportAnomaly(ctx context.Context, _ *service.Router, id dashboard.RecordID, confirm service.Confirmer) error {
	return f.record(ctx, confirm, actionCall{Name: "report", ID: id.String()})
}

func (f *fakeActions) Logout(ctx context.Context, sessionID string, confirm service.Confirmer) error {
	return f.record(ctx, confirm, actionCall{Name: "logout", ID: sessionID})
}

// fakeAuthService is a function-field double of service.AuthService.
type fakeAuthService struct {
	BeginLoginFunc     func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLoginFunc  func(ctx context.Context, input service.CompleteLoginInput) (domainauth.Session, error)
	CurrentSessionFunc func(ctx context.Context, id string) (domainauth.Session, error)
}

func (f *fakeAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if f.BeginLoginFunc != nil {
		return f.BeginLoginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/authorize?state=test-state",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (f *fakeAuthService) CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (domainauth.Session, error) {
	if f.CompleteLoginFunc != nil {
		return f.CompleteLoginFunc(ctx, input)
	}
	return testSession(adminSID, domainauth.RoleAdmin), nil
}

func (f *fakeAuthService) CurrentSession(ctx context.Context, id string) (domainauth.Session, error) {
	if f.CurrentSessionFunc != nil {
		return f.CurrentSessionFunc(ctx, id)
	}
	if id == adminSID {
		return testSession(adminSID, domainauth.RoleAdmin), nil
	}
	return domainauth.Session{}, apperrors.NoSession("session not found")
}

// testServer is a fully wired handler over the repository templates.
type testServer struct {
	Handler http.Handler
	Actions *fakeActions
	Auth    *fakeAuthService
	Routers *service.RouterRegistry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		Actions: &fakeActions{},
		Auth:    &fakeAuthService{},
		Routers: newTestRegistry(),
	}
	h, err := NewRouter(RouterServices{
		Auth:       ts.Auth,
		Gate:       &fakeGate{},
		Routers:    ts.Routers,
		Actions:    ts.Actions,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   os.DirFS(staticPathFromTest),
		Clock:      func() time.Time { return time.Date(2024, 12, 15, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	ts.Handler = h
	return ts
}

// serve runs req through the server and returns the recorder.
func (ts *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.Handler.ServeHTTP(rec, req)
	return rec
}

// asAdmin attaches the admin session cookie and a matching CSRF pair.
func asAdmin(req *http.Request) *http.Request {
	return withSession(req, adminSID)
}

func withSession(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sid})
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	return req
}

func htmxRequest(req *http.Request) *http.Request {
	req.Header.Set("Hx-Request", "true")
	return req
}
