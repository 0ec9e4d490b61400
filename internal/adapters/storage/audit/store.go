package audit

import (
	"context"

	domain "sura/internal/domain/audit"
)

// Store defines the interface for audit event persistence.
type Store interface {
	// Save persists an audit event.
	// PRE: event passes Validate
	// POST: Event is persisted
	Save(ctx context.Context, event domain.Event) error

	// List returns audit events matching filter, newest first.
	// PRE: limit > 0, offset >= 0
	// POST: Returns at most limit events ordered by timestamp desc
	List(ctx context.Context, filter Filter, limit, offset int) ([]domain.Event, error)

	// Count returns the number of events matching filter.
	Count(ctx context.Context, filter Filter) (int, error)
}

// Filter defines query parameters for listing audit events.
// Empty fields do not filter.
type Filter struct {
	Category   domain.Category
	Action     domain.Action
	ActorEmail string
	Resource   string
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)
