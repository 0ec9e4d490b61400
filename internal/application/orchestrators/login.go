package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"sura/internal/domain/account"
	"sura/internal/domain/audit"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

// UserLister lists backend user accounts.
type UserLister interface {
	ListAll(ctx context.Context) ([]record.Record, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
	Request  RequestMeta
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Users UserLister
	Audit AuditRecorder
}

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("correo o contraseña incorrectos")

// ExecuteLogin validates credentials against the backend user listing and
// returns the identity to store in the session.
// PRE: none
// POST: Returns a non-zero identity on success; ErrInvalidCredentials when
// no user matches; the backend error when the listing fails
// INVARIANT: the password never reaches the log or the audit trail
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (identity.Identity, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return identity.Identity{}, ErrInvalidCredentials
	}

	users, err := deps.Users.ListAll(ctx)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("list users: %w", err)
	}

	user, ok := account.FindByCredentials(users, email, input.Password)
	if !ok {
		slog.Info("auth_event", "event", "login_failed", "email", email)
		recordAudit(ctx, deps.Audit,
			audit.NewEvent(identity.Identity{Email: email}, audit.CategorySession, audit.ActionLoginFailed).
				WithSeverity(audit.SeverityWarning).
				WithDescription("credenciales inválidas"),
			input.Request)
		return identity.Identity{}, ErrInvalidCredentials
	}

	id := identity.FromRecord(user)
	if err := id.Validate(); err != nil {
		slog.Warn("auth_event", "event", "login_failed", "email", email, "reason", "empty_identity")
		return identity.Identity{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "email", id.Email, "role", id.Role)
	recordAudit(ctx, deps.Audit, audit.NewEvent(id, audit.CategorySession, audit.ActionLogin), input.Request)
	return id, nil
}

// LogoutInput carries input for the logout orchestrator.
type LogoutInput struct {
	Actor   identity.Identity
	Request RequestMeta
}

// ExecuteLogout records the end of a session. Clearing the cookie is the
// caller's job.
func ExecuteLogout(ctx context.Context, input LogoutInput, rec AuditRecorder) {
	if input.Actor.IsZero() {
		return
	}
	slog.Info("auth_event", "event", "logout", "email", input.Actor.Email)
	recordAudit(ctx, rec, audit.NewEvent(input.Actor, audit.CategorySession, audit.ActionLogout), input.Request)
}
