package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sura/internal/adapters/backend"
	"sura/internal/domain/account"
	"sura/internal/domain/audit"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

// UserStoreForRegister defines the backend operations needed by Register.
type UserStoreForRegister interface {
	ListAll(ctx context.Context) ([]record.Record, error)
	Create(ctx context.Context, r record.Record) (record.Record, error)
}

// RegisterInput carries input for the registration orchestrator.
type RegisterInput struct {
	Registration account.Registration
	Request      RequestMeta
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	Users UserStoreForRegister
	Audit AuditRecorder
}

// ErrEmailAlreadyExists is returned when another user has the email.
var ErrEmailAlreadyExists = errors.New("ya existe un usuario con este correo")

// ExecuteRegister creates a backend user with a hashed password.
// PRE: none
// POST: Returns the new identity; the backend user carries a bcrypt hash
// INVARIANT: Email must be unique among listed users
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (identity.Identity, error) {
	reg := input.Registration
	if err := reg.Validate(); err != nil {
		return identity.Identity{}, err
	}

	users, err := deps.Users.ListAll(ctx)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("list users: %w", err)
	}
	if account.EmailTaken(users, reg.Email) {
		return identity.Identity{}, ErrEmailAlreadyExists
	}

	rec, err := reg.Record()
	if err != nil {
		return identity.Identity{}, fmt.Errorf("hash password: %w", err)
	}
	created, err := deps.Users.Create(ctx, rec)
	if err != nil {
		return identity.Identity{}, err
	}

	id := identity.FromRecord(created)
	if id.IsZero() {
		id = identity.FromRecord(rec)
	}
	newID, _ := created.ID()
	slog.Info("auth_event", "event", "account_created", "email", id.Email, "role", id.Role)
	recordAudit(ctx, deps.Audit,
		audit.NewEvent(id, audit.CategorySession, audit.ActionRegister).WithRecord(backend.ResourceUsers, newID),
		input.Request)
	return id, nil
}
