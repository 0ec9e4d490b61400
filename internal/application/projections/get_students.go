package projections

import (
	"context"
	"sort"
	"strings"

	"sura/internal/domain/identity"
)

// QueryGetStudents returns the users with the standard role, sorted by name.
// The grade form offers them as suggestions.
func QueryGetStudents(ctx context.Context, users RecordLister) ([]identity.Identity, error) {
	all, err := users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []identity.Identity
	for _, u := range all {
		id := identity.FromRecord(u)
		if id.Role == identity.RoleStandard && !id.IsZero() {
			out = append(out, id)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}
