package service

import (
	"context"
	"log/slog"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
)

// Login redirect reasons.
const (
	ReasonNotLoggedIn  = "not_logged_in"
	ReasonUnauthorized = "unauthorized"
	ReasonError        = "error"
)

// SessionGateOptions groups dependencies for SessionGate.
type SessionGateOptions struct {
	Sessions ports.SessionProvider
	Logger   *slog.Logger
}

// SessionGate admits only sessions carrying the admin capability.
type SessionGate struct {
	sessions ports.SessionProvider
	logger   *slog.Logger
}

// NewSessionGate constructs a SessionGate.
func NewSessionGate(opts SessionGateOptions) *SessionGate {
	if opts.Sessions == nil {
		panic("service: SessionGate requires a session provider")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionGate{sessions: opts.Sessions, logger: logger.With("component", "session_gate")}
}

// VerifyAccess returns the admin session for sessionID.
//
// A missing or expired session yields NotAuthenticated. A session without
// the admin capability is signed out and yields Unauthorized. Any other
// provider failure is returned wrapped as Internal.
func (g *SessionGate) VerifyAccess(ctx context.Context, sessionID string) (domainauth.Session, error) {
	session, err := g.sessions.CurrentSession(ctx, sessionID)
	if err != nil {
		if apperrors.IsNotAuthenticated(err) {
			return domainauth.Session{}, err
		}
		g.logger.ErrorContext(ctx, "session lookup failed", "error", err)
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "verify session")
	}

	if !session.IsAdmin() {
		g.logger.WarnContext(ctx, "non-admin session refused", "user_id", session.UserID, "role", string(session.Role))
		if signOutErr := g.sessions.SignOut(ctx, sessionID); signOutErr != nil {
			g.logger.ErrorContext(ctx, "sign out of non-admin session failed", "error", signOutErr)
		}
		return domainauth.Session{}, apperrors.Unauthorized("admin role required")
	}
	return session, nil
}

// DenialReason maps a VerifyAccess error to the login page reason code.
// A nil error has no reason.
func DenialReason(err error) string {
	switch {
	case err == nil:
		return ""
	case apperrors.IsNotAuthenticated(err):
		return ReasonNotLoggedIn
	case apperrors.IsUnauthorized(err):
		return ReasonUnauthorized
	default:
		return ReasonError
	}
}
