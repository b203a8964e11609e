package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/observability/metrics"
	"github.com/ai-ikigai/admin-dashboard/internal/observability/statsd"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
	"github.com/ai-ikigai/admin-dashboard/internal/render"
)

// ErrNotConfirmed is returned when the user declines an action.
var ErrNotConfirmed = errors.New("action not confirmed")

// Confirmer asks the user to approve prompt. A nil Confirmer declines.
type Confirmer func(ctx context.Context, prompt string) bool

// Mutator sends an authenticated mutation on behalf of a session.
type Mutator interface {
	Mutate(ctx context.Context, sessionID string, m ports.Mutation) error
}

// User-facing action messages.
const (
	MsgUserNotFound     = "Utilisateur non trouvé"
	MsgCoachNotFound    = "Coach non trouvé"
	MsgAnalysisNotFound = "Analyse non trouvée"
	MsgReadOnly         = "Action non autorisée en lecture seule"
	MsgLogoutFailed     = "Erreur lors de la déconnexion"
)

// ActionsSupport carries the optional collaborators of Actions.
type ActionsSupport struct {
	Routers *RouterRegistry
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// ActionsOptions groups dependencies for Actions.
type ActionsOptions struct {
	Data     Mutator
	Sessions ports.SessionProvider
	Support  ActionsSupport
}

// Actions runs user-triggered mutations: confirm intent, send the mutation
// with the session credential, then reload the owning section. Records are
// never updated locally.
type Actions struct {
	data     Mutator
	sessions ports.SessionProvider
	routers  *RouterRegistry
	metrics  statsd.Sink
	logger   *slog.Logger
}

// NewActions constructs Actions.
func NewActions(opts ActionsOptions) *Actions {
	if opts.Data == nil || opts.Sessions == nil {
		panic("service: Actions requires a mutator and a session provider")
	}
	logger := opts.Support.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Actions{
		data:     opts.Data,
		sessions: opts.Sessions,
		routers:  opts.Support.Routers,
		metrics:  opts.Support.Metrics,
		logger:   logger.With("component", "actions"),
	}
}

// mutation describes one confirmed write.
type mutation struct {
	op      dashboard.MutationOp
	payload any
	prompt  string
	owner   dashboard.SectionID
	success string
	failure string
}

type toggleAdminPayload struct {
	UserID  dashboard.RecordID `json:"userId"`
	IsAdmin bool               `json:"isAdmin"`
}

type deleteUserPayload struct {
	UserID dashboard.RecordID `json:"userId"`
}

type creditsPayload struct {
	CoachID dashboard.RecordID `json:"coachId"`
	Credits int                `json:"credits"`
}

type planPayload struct {
	CoachID dashboard.RecordID `json:"coachId"`
	Plan    string             `json:"plan"`
}

type whiteLabelPayload struct {
	CoachID dashboard.RecordID `json:"coachId"`
	Enabled bool               `json:"enabled"`
}

type anomalyPayload struct {
	AnalysisID dashboard.RecordID `json:"analysisId"`
}

// ToggleAdmin grants or revokes the admin role of a user.
func (a *Actions) ToggleAdmin(ctx context.Context, r *Router, userID dashboard.RecordID, confirm Confirmer) error {
	return a.run(ctx, r, dashboard.OpToggleAdmin, confirm, func() (mutation, error) {
		user, err := a.findUser(ctx, r, userID)
		if err != nil {
			return mutation{}, err
		}
		return mutation{
			payload: toggleAdminPayload{UserID: user.ID, IsAdmin: !user.IsAdmin()},
			prompt:  render.ToggleAdminPrompt(user),
			owner:   dashboard.SectionUsers,
			success: "✅ Rôle modifié avec succès !",
			failure: "❌ Erreur lors de la modification du rôle",
		}, nil
	})
}

// DeleteUser deletes a user account.
func (a *Actions) DeleteUser(ctx context.Context, r *Router, userID dashboard.RecordID, confirm Confirmer) error {
	return a.run(ctx, r, dashboard.OpDeleteUser, confirm, func() (mutation, error) {
		user, err := a.findUser(ctx, r, userID)
		if err != nil {
			return mutation{}, err
		}
		return mutation{
			payload: deleteUserPayload{UserID: user.ID},
			prompt:  render.DeleteUserPrompt,
			owner:   dashboard.SectionUsers,
			success: "✅ Utilisateur supprimé",
			failure: "❌ Erreur lors de la suppression de l'utilisateur",
		}, nil
	})
}

// ManageCredits adds credits to a coach balance. credits must be positive.
func (a *Actions) ManageCredits(ctx context.Context, r *Router, coachID dashboard.RecordID, credits int, confirm Confirmer) error {
	return a.run(ctx, r, dashboard.OpManageCredits, confirm, func() (mutation, error) {
		if credits <= 0 {
			return mutation{}, apperrors.ValidationField("credits", "le nombre de crédits doit être positif")
		}
		coach, err := a.findCoach(ctx, r, coachID)
		if err != nil {
			return mutation{}, err
		}
		return mutation{
			payload: creditsPayload{CoachID: coach.ID, Credits: credits},
			prompt:  fmt.Sprintf("Ajouter %d crédits au coach %s ?", credits, coach.Name),
			owner:   dashboard.SectionCoaches,
			success: "✅ Crédits mis à jour",
			failure: "❌ Erreur lors de la mise à jour des crédits",
		}, nil
	})
}

// ChangePlan moves a coach to one of the coach pricing plans.
func (a *Actions) ChangePlan(ctx context.Context, r *Router, coachID dashboard.RecordID, plan string, confirm Confirmer) error {
	return a.run(ctx, r, dashboard.OpChangePlan, confirm, func() (mutation, error) {
		pricing, _ := r.Resource(ctx, dashboard.ResourcePricingCoach).(dashboard.Pricing)
		name, ok := canonicalPlan(pricing, plan)
		if !ok {
			return mutation{}, apperrors.ValidationField("plan",
				fmt.Sprintf("plan inconnu %q, choisir parmi: %s", strings.TrimSpace(plan), strings.Join(pricing.PlanNames(), ", ")))
		}
		coach, err := a.findCoach(ctx, r, coachID)
		if err != nil {
			return mutation{}, err
		}
		return mutation{
			payload: planPayload{CoachID: coach.ID, Plan: name},
			prompt:  fmt.Sprintf("Passer le coach %s au plan %s ?", coach.Name, name),
			owner:   dashboard.SectionCoaches,
			success: "✅ Plan modifié",
			failure: "❌ Erreur lors du changement de plan",
		}, nil
	})
}

func canonicalPlan(p dashboard.Pricing, raw string) (string, bool) {
	for _, name := range p.PlanNames() {
		if strings.EqualFold(name, strings.TrimSpace(raw)) {
			return name, true
		}
	}
	return "", false
}

// WhiteLabel enables or disables white labelling for a coach.
func (a *Actions) WhiteLabel(ctx context.Context, r *Router, coachID dashboard.RecordID, enabled bool, confirm Confirmer) error {
	return a.run(ctx, r, dashboard.OpWhiteLabel, confirm, func() (mutation, error) {
		coach, err := a.findCoach(ctx, r, coachID)
		if err != nil {
			return mutation{}, err
		}
		target := coach
		target.WhiteLabel = !enabled
		return mutation{
			payload: whiteLabelPayload{CoachID: coach.ID, Enabled: enabled},
			prompt:  render.WhiteLabelPrompt(target),
			owner:   dashboard.SectionCoaches,
			success: "✅ Marque blanche mise à jour",
			failure: "❌ Erreur lors de la configuration de la marque blanche",
		}, nil
	})
}

// ReportAnomaly flags a failed analysis for investigation.
func (a *Actions) ReportAnomaly(ctx context.Context, r *Router, analysisID dashboard.RecordID, confirm Confirmer) error {
	return a.run(ctx, r, dashboard.OpReportAnomaly, confirm, func() (mutation, error) {
		analysis, err := a.findAnalysis(ctx, r, analysisID)
		if err != nil {
			return mutation{}, err
		}
		return mutation{
			payload: anomalyPayload{AnalysisID: analysis.ID},
			prompt:  render.ReportAnomalyPrompt(analysis),
			owner:   dashboard.SectionAnalyses,
			success: "✅ Anomalie signalée",
			failure: "❌ Erreur lors du signalement de l'anomalie",
		}, nil
	})
}

// run applies the shared action pipeline: role check, preparation,
// confirmation, mutation, reload and notification.
func (a *Actions) run(ctx context.Context, r *Router, op dashboard.MutationOp, confirm Confirmer, prepare func() (mutation, error)) error {
	start := time.Now()
	user := r.User()
	log := a.logger.With("action", string(op), "session_id", user.ID)

	result := metrics.ResultError
	var err error
	defer func() {
		metrics.EmitAction(a.metrics, metrics.ActionMetric{Action: string(op), Result: result, Duration: time.Since(start), Err: err})
	}()

	if !user.Role.CanMutate() {
		err = apperrors.Forbidden("read-only admins cannot run " + string(op))
		log.WarnContext(ctx, "mutation refused", "role", string(user.Role))
		r.Notify(Notification{Level: NotifyError, Message: MsgReadOnly, Blocking: true})
		return err
	}

	m, err := prepare()
	if err != nil {
		log.InfoContext(ctx, "action rejected", "error", err)
		r.Notify(Notification{Level: NotifyError, Message: userMessage(err), Blocking: true})
		return err
	}

	if confirm == nil || !confirm(ctx, m.prompt) {
		result = metrics.ResultDeclined
		err = ErrNotConfirmed
		return err
	}

	if err = a.data.Mutate(ctx, user.ID, ports.Mutation{Op: op, Payload: m.payload}); err != nil {
		log.ErrorContext(ctx, "mutation failed", "error", err)
		r.Notify(Notification{Level: NotifyError, Message: m.failure, Blocking: true})
		return err
	}

	if _, reloadErr := r.Reload(ctx, m.owner); reloadErr != nil && !errors.Is(reloadErr, ErrStaleLoad) {
		log.WarnContext(ctx, "reload after mutation failed", "section", string(m.owner), "error", reloadErr)
	}
	r.Notify(Notification{Level: NotifySuccess, Message: m.success})
	result = metrics.ResultSuccess
	log.InfoContext(ctx, "action completed")
	return nil
}

// userMessage returns the message of an AppError, or a generic one.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return "❌ " + appErr.Message
	}
	return "❌ " + MsgLoadFailed
}

func (a *Actions) findUser(ctx context.Context, r *Router, id dashboard.RecordID) (dashboard.User, error) {
	users, _ := r.Resource(ctx, dashboard.ResourceUsers).([]dashboard.User)
	for _, u := range users {
		if u.ID.Equal(id) {
			return u, nil
		}
	}
	return dashboard.User{}, apperrors.NotFound(MsgUserNotFound)
}

func (a *Actions) findCoach(ctx context.Context, r *Router, id dashboard.RecordID) (dashboard.Coach, error) {
	coaches, _ := r.Resource(ctx, dashboard.ResourceCoaches).([]dashboard.Coach)
	for _, c := range coaches {
		if c.ID.Equal(id) {
			return c, nil
		}
	}
	return dashboard.Coach{}, apperrors.NotFound(MsgCoachNotFound)
}

func (a *Actions) findAnalysis(ctx context.Context, r *Router, id dashboard.RecordID) (dashboard.Analysis, error) {
	analyses, _ := r.Resource(ctx, dashboard.ResourceAnalyses).([]dashboard.Analysis)
	for _, an := range analyses {
		if an.ID.Equal(id) {
			return an, nil
		}
	}
	return dashboard.Analysis{}, apperrors.NotFound(MsgAnalysisNotFound)
}

// Logout signs the session out after confirmation and drops its router.
func (a *Actions) Logout(ctx context.Context, sessionID string, confirm Confirmer) error {
	if confirm == nil || !confirm(ctx, render.LogoutPrompt) {
		metrics.EmitAction(a.metrics, metrics.ActionMetric{Action: "logout", Result: metrics.ResultDeclined})
		return ErrNotConfirmed
	}
	err := a.sessions.SignOut(ctx, sessionID)
	if a.routers != nil {
		a.routers.Remove(sessionID)
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "logout failed", "session_id", sessionID, "error", err)
		metrics.EmitAction(a.metrics, metrics.ActionMetric{Action: "logout", Result: metrics.ResultError, Err: err})
		return fmt.Errorf("logout: %w", err)
	}
	metrics.EmitAction(a.metrics, metrics.ActionMetric{Action: "logout", Result: metrics.ResultSuccess})
	return nil
}
