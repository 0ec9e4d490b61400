// Package visibility derives the subset of backend records an identity may see.
//
// Ownership is denormalised on each personal record (owner e-mail and/or
// owner name). It is used here for display narrowing only, never for
// authorization enforcement, which stays with the backend.
package visibility

import (
	"strings"

	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

// Owner names the fields of a resource that reference the owning person.
// An empty field name disables that half of the match.
type Owner struct {
	EmailField string
	NameField  string
}

// Owners of the personal resources.
var (
	AttendanceOwner = Owner{EmailField: "correoPersona", NameField: "nombrePersona"}
	EnrollmentOwner = Owner{EmailField: "correo", NameField: "nombre"}
	GradeOwner      = Owner{EmailField: "emailEstudiante", NameField: "nombreEstudiante"}
)

// Visible returns the records id may see.
// PRE: none
// POST: privileged identities get records unchanged and in order;
// standard identities get records whose owner e-mail equals id.Email
// (case-insensitive) OR whose owner name contains id.Name (case-insensitive);
// a standard identity with neither e-mail nor name gets an empty result.
// INVARIANT: Visible(Visible(rs, id, o), id, o) == Visible(rs, id, o)
//
// The name half is a substring match and can over-match ("Ana" matches
// "Juliana"). Kept for compatibility with existing data entry.
func Visible(records []record.Record, id identity.Identity, owner Owner) []record.Record {
	if id.IsPrivileged() {
		return records
	}
	email := strings.ToLower(id.Email)
	name := strings.ToLower(id.Name)
	out := make([]record.Record, 0)
	if email == "" && name == "" {
		return out
	}
	for _, r := range records {
		if matches(r, email, name, owner) {
			out = append(out, r)
		}
	}
	return out
}

// Owns reports whether a single record belongs to id under the same rule
// as Visible. Privileged identities own every record.
func Owns(r record.Record, id identity.Identity, owner Owner) bool {
	if id.IsPrivileged() {
		return true
	}
	return matches(r, strings.ToLower(id.Email), strings.ToLower(id.Name), owner)
}

func matches(r record.Record, email, name string, owner Owner) bool {
	if email != "" && owner.EmailField != "" {
		if strings.ToLower(r.String(owner.EmailField)) == email {
			return true
		}
	}
	if name != "" && owner.NameField != "" {
		if strings.Contains(strings.ToLower(r.String(owner.NameField)), name) {
			return true
		}
	}
	return false
}
