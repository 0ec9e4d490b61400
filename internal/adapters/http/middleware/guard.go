package middleware

import (
	"log/slog"
	"net/http"

	"sura/internal/domain/identity"
)

// Requirement is the access level a view declares.
type Requirement uint8

const (
	AnyAuthenticated Requirement = iota
	PrivilegedOnly
)

// Decision is the outcome of evaluating a Requirement against a session.
type Decision uint8

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

// Redirect targets for denied requests.
const (
	LoginPath = "/login"
	HomePath  = "/home"
)

// View renders a page for an authenticated identity.
type View func(w http.ResponseWriter, r *http.Request, id identity.Identity)

// Decide applies the access rule.
// PRE: none
// POST: RedirectLogin without a session; RedirectHome when PrivilegedOnly and
// the identity is not privileged; Allow otherwise
func Decide(required Requirement, id identity.Identity, ok bool) Decision {
	if !ok || id.IsZero() {
		return RedirectLogin
	}
	if required == PrivilegedOnly && !id.IsPrivileged() {
		return RedirectHome
	}
	return Allow
}

// Guard wraps view so it only runs when the session satisfies required.
// The identity is taken from the context set by Auth and handed to the view.
func Guard(required Requirement, view View) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		switch Decide(required, id, ok) {
		case RedirectLogin:
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		case RedirectHome:
			slog.Info("access_denied", "path", r.URL.Path, "email", id.Email, "role", id.Role)
			http.Redirect(w, r, HomePath, http.StatusSeeOther)
		default:
			view(w, r, id)
		}
	})
}
