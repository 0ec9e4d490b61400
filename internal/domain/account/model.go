// Package account holds the password rules of backend user accounts.
// The backend stores users under "usuarios"; this package decides how a
// typed password is hashed before registration and how it is checked at login.
package account

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// HashCost is the bcrypt cost used for new passwords.
const HashCost = 12

// Domain errors
var (
	ErrEmptyPassword    = errors.New("la contraseña es obligatoria")
	ErrPasswordTooShort = errors.New("la contraseña debe tener al menos 6 caracteres")
	ErrWrongPassword    = errors.New("contraseña incorrecta")
	ErrEmptyName        = errors.New("el nombre es obligatorio")
	ErrEmptyEmail       = errors.New("el correo es obligatorio")
)

// Registration is the data typed in the sign-up form.
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Validate checks the registration against the account rules.
// PRE: none
// POST: Returns nil when every field is acceptable
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrEmptyEmail
	}
	if r.Password == "" {
		return ErrEmptyPassword
	}
	if len([]rune(r.Password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !identity.IsValidRole(r.Role) {
		return identity.ErrInvalidRole
	}
	return nil
}

// Record builds the backend user record with a hashed password.
// PRE: Validate() returned nil
// POST: the record carries no id and never the plaintext password
func (r Registration) Record() (record.Record, error) {
	hash, err := HashPassword(r.Password)
	if err != nil {
		return nil, err
	}
	return record.Record{
		identity.FieldName:     strings.TrimSpace(r.Name),
		identity.FieldEmail:    strings.TrimSpace(r.Email),
		identity.FieldRole:     r.Role,
		identity.FieldPassword: hash,
	}, nil
}

// HashPassword hashes a plaintext password using bcrypt.
// PRE: plaintext is non-empty
// POST: Returns a bcrypt hash
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsHashed reports whether stored looks like a bcrypt hash.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// CheckPassword compares a typed password with the stored value.
// Accounts created before hashing keep plaintext passwords on the backend;
// those are compared in constant time.
// INVARIANT: an empty stored value never matches
func CheckPassword(stored, plaintext string) error {
	if stored == "" || plaintext == "" {
		return ErrWrongPassword
	}
	if IsHashed(stored) {
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) != nil {
			return ErrWrongPassword
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(plaintext)) != 1 {
		return ErrWrongPassword
	}
	return nil
}

// FindByCredentials returns the user whose correo matches email
// (case-insensitive) and whose password matches.
// PRE: users is the backend user listing
// POST: ok is false when no user matches both
func FindByCredentials(users []record.Record, email, password string) (record.Record, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, false
	}
	for _, u := range users {
		if !strings.EqualFold(strings.TrimSpace(u.String(identity.FieldEmail)), email) {
			continue
		}
		if CheckPassword(u.String(identity.FieldPassword), password) == nil {
			return u, true
		}
	}
	return nil, false
}

// EmailTaken reports whether any user already uses email.
func EmailTaken(users []record.Record, email string) bool {
	email = strings.TrimSpace(email)
	for _, u := range users {
		if strings.EqualFold(strings.TrimSpace(u.String(identity.FieldEmail)), email) {
			return true
		}
	}
	return false
}
