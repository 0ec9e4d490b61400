package orchestrators

import (
	"context"
	"log/slog"

	"sura/internal/domain/audit"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

// RecordReadWriter loads and writes records of one backend resource.
type RecordReadWriter interface {
	GetByID(ctx context.Context, id int64) (record.Record, error)
	RecordWriter
}

// DeactivateInput carries input for the deactivate orchestrator.
type DeactivateInput struct {
	Actor    identity.Identity
	Resource string
	ID       int64
	Field    string // boolean flag set to false, e.g. "vigencia"
	Request  RequestMeta
}

// DeactivateDeps holds dependencies for Deactivate.
type DeactivateDeps struct {
	Records RecordReadWriter
	Audit   AuditRecorder
}

// ExecuteDeactivate loads a record and writes it back with Field false.
// The backend has no partial update, so every other field is sent unchanged.
// PRE: ID > 0; Field names a boolean field of the resource
// POST: the record is stored with Field == false
func ExecuteDeactivate(ctx context.Context, input DeactivateInput, deps DeactivateDeps) (record.Record, error) {
	if input.ID <= 0 {
		return nil, record.ErrMissingID
	}
	current, err := deps.Records.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated[input.Field] = false
	saved, err := deps.Records.Apply(ctx, record.Update(updated, input.ID))
	if err != nil {
		slog.Warn("record_deactivate_failed", "resource", input.Resource, "id", input.ID, "error", err)
		return nil, err
	}

	slog.Info("record_deactivated", "resource", input.Resource, "id", input.ID, "actor", input.Actor.Email)
	recordAudit(ctx, deps.Audit,
		audit.NewEvent(input.Actor, audit.CategoryRecord, audit.ActionDeactivate).
			WithRecord(input.Resource, input.ID).
			WithDescription(input.Field+"=false"),
		input.Request)
	return saved, nil
}
