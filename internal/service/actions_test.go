package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/mocks"
	authmocks "github.com/ai-ikigai/admin-dashboard/internal/mocks/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/observability/metrics"
	"github.com/ai-ikigai/admin-dashboard/internal/observability/statsd"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
	"github.com/ai-ikigai/admin-dashboard/internal/render"
)

type fakeMutator struct {
	MutateFunc func(ctx context.Context, sessionID string, m ports.Mutation) error

	mu   sync.Mutex
	sent []ports.Mutation
}

func (f *fakeMutator) Mutate(ctx context.Context, sessionID string, m ports.Mutation) error {
	f.mu.Lock()
	f.sent = append(f.sent, m)
	f.mu.Unlock()
	if f.MutateFunc != nil {
		return f.MutateFunc(ctx, sessionID, m)
	}
	return nil
}

func (f *fakeMutator) Sent() []ports.Mutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.Mutation(nil), f.sent...)
}

type actionsFixture struct {
	actions  *Actions
	mutator  *fakeMutator
	loader   *fakeLoader
	sessions *authmocks.StaticSessionProvider
	routers  *RouterRegistry
	sink     *statsd.MemorySink
}

func newActionsFixture(t *testing.T) actionsFixture {
	t.Helper()
	f := actionsFixture{
		mutator:  &fakeMutator{},
		loader:   &fakeLoader{},
		sessions: authmocks.NewStaticSessionProvider(session("s1", domainauth.RoleAdmin)),
		sink:     &statsd.MemorySink{},
	}
	f.routers = NewRouterRegistry(RouterRegistryOptions{Loader: f.loader})
	f.actions = NewActions(ActionsOptions{
		Data:     f.mutator,
		Sessions: f.sessions,
		Support:  ActionsSupport{Routers: f.routers, Metrics: f.sink},
	})
	return f
}

func (f actionsFixture) router(role domainauth.Role) *Router {
	return f.routers.For(session("s1", role))
}

func accept(prompts *[]string) Confirmer {
	return func(_ context.Context, prompt string) bool {
		*prompts = append(*prompts, prompt)
		return true
	}
}

func decline(context.Context, string) bool { return false }

func TestActions_ToggleAdmin(t *testing.T) {
	f := newActionsFixture(t)
	r := f.router(domainauth.RoleAdmin)
	ctx := context.Background()
	_, err := r.Navigate(ctx, dashboard.SectionUsers, NavigateOptions{})
	require.NoError(t, err)
	loadsBefore := len(f.loader.Calls())

	var prompts []string
	require.NoError(t, f.actions.ToggleAdmin(ctx, r, dashboard.TextID("1"), accept(&prompts)))

	assert.Equal(t, []string{"Voulez-vous donner les droits admin à marie.dupont@email.com ?"}, prompts)
	sent := f.mutator.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, dashboard.OpToggleAdmin, sent[0].Op)
	assert.Equal(t, toggleAdminPayload{UserID: dashboard.NumericID(1), IsAdmin: true}, sent[0].Payload)

	assert.Greater(t, len(f.loader.Calls()), loadsBefore, "users section is reloaded")
	notes := r.DrainNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, Notification{Level: NotifySuccess, Message: "✅ Rôle modifié avec succès !"}, notes[0])
	assert.Equal(t, metrics.ResultSuccess, f.sink.Named(metrics.Action)[0].Tags["result"])
}

func TestActions_ToggleAdminRevokes(t *testing.T) {
	f := newActionsFixture(t)
	f.loader.LoadFunc = func(_ context.Context, _ string, kind dashboard.ResourceKind) LoadResult {
		if kind == dashboard.ResourceUsers {
			return LoadResult{Kind: kind, Data: []dashboard.User{{ID: dashboard.TextID("9"), Email: "boss@x.io", Role: "admin"}}}
		}
		return LoadResult{Kind: kind, Data: dashboard.Fallback(kind)}
	}
	r := f.router(domainauth.RoleSuperAdmin)

	var prompts []string
	require.NoError(t, f.actions.ToggleAdmin(context.Background(), r, dashboard.TextID("9"), accept(&prompts)))
	assert.Equal(t, "Voulez-vous retirer les droits admin à boss@x.io ?", prompts[0])
	assert.Equal(t, toggleAdminPayload{UserID: dashboard.TextID("9"), IsAdmin: false}, f.mutator.Sent()[0].Payload)
}

func TestActions_DeclinedSendsNothing(t *testing.T) {
	f := newActionsFixture(t)
	r := f.router(domainauth.RoleAdmin)
	ctx := context.Background()

	tests := map[string]func() error{
		"toggle admin":   func() error { return f.actions.ToggleAdmin(ctx, r, dashboard.TextID("1"), decline) },
		"delete user":    func() error { return f.actions.DeleteUser(ctx, r, dashboard.TextID("1"), decline) },
		"manage credits": func() error { return f.actions.ManageCredits(ctx, r, dashboard.TextID("1"), 10, decline) },
		"change plan":    func() error { return f.actions.ChangePlan(ctx, r, dashboard.TextID("1"), "Starter", decline) },
		"white label":    func() error { return f.actions.WhiteLabel(ctx, r, dashboard.TextID("1"), true, decline) },
		"report anomaly": func() error { return f.actions.ReportAnomaly(ctx, r, dashboard.TextID("2"), decline) },
		"nil confirmer":  func() error { return f.actions.DeleteUser(ctx, r, dashboard.TextID("1"), nil) },
	}
	for name, run := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, run(), ErrNotConfirmed)
		})
	}
	assert.Empty(t, f.mutator.Sent())
	assert.Empty(t, r.DrainNotifications())
	for _, s := range f.sink.Named(metrics.Action) {
		assert.Equal(t, metrics.ResultDeclined, s.Tags["result"])
	}
}

func TestActions_ReadonlyForbiddenBeforeConfirmation(t *testing.T) {
	f := newActionsFixture(t)
	r := f.router(domainauth.RoleReadonlyAdmin)
	asked := false
	confirm := func(context.Context, string) bool { asked = true; return true }

	err := f.actions.DeleteUser(context.Background(), r, dashboard.TextID("1"), confirm)
	assert.True(t, apperrors.IsForbidden(err))
	assert.False(t, asked)
	assert.Empty(t, f.mutator.Sent())

	notes := r.DrainNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, NotifyError, notes[0].Level)
	assert.True(t, notes[0].Blocking)
}

func TestActions_MutationFailure(t *testing.T) {
	f := newActionsFixture(t)
	f.mutator.MutateFunc = func(context.Context, string, ports.Mutation) error {
		return apperrors.MutationFailed(errors.New("502"), "delete-user")
	}
	r := f.router(domainauth.RoleAdmin)
	ctx := context.Background()
	_, err := r.Navigate(ctx, dashboard.SectionUsers, NavigateOptions{})
	require.NoError(t, err)
	before := r.Current()
	loads := len(f.loader.Calls())

	var prompts []string
	err = f.actions.DeleteUser(ctx, r, dashboard.TextID("2"), accept(&prompts))
	assert.True(t, apperrors.IsMutationFailed(err))
	assert.Equal(t, []string{render.DeleteUserPrompt}, prompts)
	assert.Equal(t, loads, len(f.loader.Calls()), "no reload after a failure")
	assert.Equal(t, before.View, r.Current().View)

	notes := r.DrainNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, Notification{Level: NotifyError, Message: "❌ Erreur lors de la suppression de l'utilisateur", Blocking: true}, notes[0])
	assert.Equal(t, metrics.ResultError, f.sink.Named(metrics.Action)[0].Tags["result"])
	assert.Equal(t, "mutation_failed", f.sink.Named(metrics.Action)[0].Tags["error_class"])
}

func TestActions_UnknownRecords(t *testing.T) {
	f := newActionsFixture(t)
	r := f.router(domainauth.RoleAdmin)
	ctx := context.Background()
	yes := func(context.Context, string) bool { return true }

	err := f.actions.ToggleAdmin(ctx, r, dashboard.TextID("404"), yes)
	assert.True(t, apperrors.IsNotFound(err))
	notes := r.DrainNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "❌ Utilisateur non trouvé", notes[0].Message)

	assert.True(t, apperrors.IsNotFound(f.actions.ManageCredits(ctx, r, dashboard.TextID("404"), 5, yes)))
	assert.True(t, apperrors.IsNotFound(f.actions.ReportAnomaly(ctx, r, dashboard.TextID("404"), yes)))
	assert.Empty(t, f.mutator.Sent())
}

func TestActions_CoachValidation(t *testing.T) {
	f := newActionsFixture(t)
	r := f.router(domainauth.RoleAdmin)
	ctx := context.Background()
	yes := func(context.Context, string) bool { return true }

	err := f.actions.ManageCredits(ctx, r, dashboard.TextID("1"), 0, yes)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "credits", apperrors.GetField(err))

	err = f.actions.ChangePlan(ctx, r, dashboard.TextID("1"), "Platinum", yes)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "plan", apperrors.GetField(err))
	assert.Empty(t, f.mutator.Sent())

	require.NoError(t, f.actions.ChangePlan(ctx, r, dashboard.TextID("1"), " enterprise ", yes))
	require.NoError(t, f.actions.ManageCredits(ctx, r, dashboard.TextID("1"), 25, yes))
	require.NoError(t, f.actions.WhiteLabel(ctx, r, dashboard.TextID("1"), true, yes))

	sent := f.mutator.Sent()
	require.Len(t, sent, 3)
	assert.Equal(t, planPayload{CoachID: dashboard.NumericID(1), Plan: "Enterprise"}, sent[0].Payload)
	assert.Equal(t, creditsPayload{CoachID: dashboard.NumericID(1), Credits: 25}, sent[1].Payload)
	assert.Equal(t, whiteLabelPayload{CoachID: dashboard.NumericID(1), Enabled: true}, sent[2].Payload)
}

func TestActions_ReportAnomalyReloadsAnalyses(t *testing.T) {
	f := newActionsFixture(t)
	r := f.router(domainauth.RoleAdmin)
	ctx := context.Background()
	_, err := r.Navigate(ctx, dashboard.SectionAnalyses, NavigateOptions{})
	require.NoError(t, err)
	gen := r.Generation()

	var prompts []string
	require.NoError(t, f.actions.ReportAnomaly(ctx, r, dashboard.TextID("2"), accept(&prompts)))
	assert.Equal(t, "⚠️ Signaler une anomalie pour l'analyse #2 ?", prompts[0])
	assert.Equal(t, gen+1, r.Generation())
	assert.Equal(t, anomalyPayload{AnalysisID: dashboard.NumericID(2)}, f.mutator.Sent()[0].Payload)
}

func TestActions_PayloadReachesBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockResourceAPI(ctrl)
	sessions := authmocks.NewStaticSessionProvider(session("s1", domainauth.RoleAdmin))
	da := NewDataAccess(DataAccessOptions{API: api, Sessions: sessions})
	registry := NewRouterRegistry(RouterRegistryOptions{Loader: &fakeLoader{}})
	actions := NewActions(ActionsOptions{Data: da, Sessions: sessions, Support: ActionsSupport{Routers: registry}})
	r := registry.For(session("s1", domainauth.RoleAdmin))

	api.EXPECT().Mutate(gomock.Any(), gomock.Any(), "token-s1").DoAndReturn(
		func(_ context.Context, m ports.Mutation, _ string) error {
			body, err := json.Marshal(m.Payload)
			require.NoError(t, err)
			assert.Equal(t, dashboard.OpToggleAdmin, m.Op)
			assert.JSONEq(t, `{"userId": 2, "isAdmin": true}`, string(body))
			return nil
		})

	require.NoError(t, actions.ToggleAdmin(context.Background(), r, dashboard.TextID("2"), func(context.Context, string) bool { return true }))
}

func TestActions_Logout(t *testing.T) {
	f := newActionsFixture(t)
	f.router(domainauth.RoleAdmin)
	ctx := context.Background()

	var prompts []string
	assert.ErrorIs(t, f.actions.Logout(ctx, "s1", decline), ErrNotConfirmed)
	assert.Equal(t, 1, f.routers.Len())

	require.NoError(t, f.actions.Logout(ctx, "s1", accept(&prompts)))
	assert.Equal(t, []string{render.LogoutPrompt}, prompts)
	assert.Equal(t, []string{"s1"}, f.sessions.SignedOut())
	assert.Equal(t, 0, f.routers.Len())
}

func TestSearch(t *testing.T) {
	f := newActionsFixture(t)
	r := f.router(domainauth.RoleReadonlyAdmin)
	ctx := context.Background()

	assert.Zero(t, Search(ctx, r, "  ").Total())

	res := Search(ctx, r, "MARIE")
	assert.Len(t, res.Users, 1)
	assert.Len(t, res.Analyses, 1)
	assert.Len(t, res.Tickets, 1)
	assert.Empty(t, res.Coaches)
	assert.Equal(t, 3, res.Total())

	res = Search(ctx, r, "sophie")
	assert.Len(t, res.Coaches, 1)
	assert.Len(t, res.Tickets, 1)

	calls := len(f.loader.Calls())
	Search(ctx, r, "jean")
	assert.Equal(t, calls, len(f.loader.Calls()), "search reads the cache")
}

func TestViewDetails(t *testing.T) {
	f := newActionsFixture(t)
	r := f.router(domainauth.RoleAdmin)
	ctx := context.Background()

	d, err := ViewUser(ctx, r, dashboard.TextID("2"))
	require.NoError(t, err)
	assert.Equal(t, "Jean Martin", d.Title)

	_, err = ViewUser(ctx, r, dashboard.TextID("99"))
	assert.True(t, apperrors.IsNotFound(err))

	d, err = ViewAnalysis(ctx, r, dashboard.TextID("1"))
	require.NoError(t, err)
	assert.Equal(t, "Analyse #1", d.Title)
	_, err = ViewAnalysis(ctx, r, dashboard.TextID("99"))
	assert.True(t, apperrors.IsNotFound(err))
}

func TestExportUsers(t *testing.T) {
	f := newActionsFixture(t)
	r := f.router(domainauth.RoleReadonlyAdmin)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, ExportUsers(ctx, r, &buf))
	assert.Equal(t,
		"id,name,email,role,analysesCount,createdAt,status\n"+
			"1,Marie Dupont,marie.dupont@email.com,client,3,2024-11-15,active\n"+
			"2,Jean Martin,jean.martin@email.com,client,1,2024-12-01,active\n",
		buf.String())

	_, err := r.Navigate(ctx, dashboard.SectionUsers, NavigateOptions{Filter: render.Filter{Search: "jean"}})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, ExportUsers(ctx, r, &buf))
	assert.Equal(t,
		"id,name,email,role,analysesCount,createdAt,status\n"+
			"2,Jean Martin,jean.martin@email.com,client,1,2024-12-01,active\n",
		buf.String())
}
