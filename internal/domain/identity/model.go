package identity

import (
	"errors"
	"strings"

	"sura/internal/domain/record"
)

// Role constants as stored by the backend user record.
const (
	RolePrivileged = "Profesor"
	RoleStandard   = "Estudiante"
)

// ValidRoles contains all roles a user may register with.
var ValidRoles = []string{RolePrivileged, RoleStandard}

// Backend user record field names.
const (
	FieldName     = "nombre"
	FieldEmail    = "correo"
	FieldRole     = "rol"
	FieldPassword = "contraseña"
)

// Domain errors
var (
	ErrEmptyIdentity = errors.New("identity has neither name nor email")
	ErrInvalidRole   = errors.New("el rol debe ser Profesor o Estudiante")
)

// Identity is the authenticated person behind a session.
// It is created at login and replaced only by a new login.
type Identity struct {
	Name  string `json:"nombre"`
	Email string `json:"correo"`
	Role  string `json:"rol"`
}

// IsPrivileged reports whether the identity holds the privileged role.
// Any role other than the exact privileged string is treated as standard.
// INVARIANT: Identity fields are not mutated
func (i Identity) IsPrivileged() bool {
	return i.Role == RolePrivileged
}

// IsZero reports whether the identity carries no name and no email.
func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.Name) == "" && strings.TrimSpace(i.Email) == ""
}

// Validate checks that the identity can be stored in a session.
// PRE: Identity struct is populated
// POST: Returns nil if valid, error otherwise
func (i Identity) Validate() error {
	if i.IsZero() {
		return ErrEmptyIdentity
	}
	return nil
}

// FromRecord builds an Identity from a backend user record.
func FromRecord(r record.Record) Identity {
	return Identity{
		Name:  r.String(FieldName),
		Email: r.String(FieldEmail),
		Role:  r.String(FieldRole),
	}
}

// IsValidRole reports whether role is one users may register with.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
