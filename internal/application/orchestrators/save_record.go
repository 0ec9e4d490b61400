package orchestrators

import (
	"context"
	"log/slog"

	"sura/internal/domain/audit"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

// RecordWriter applies a create or update to one backend resource.
type RecordWriter interface {
	Apply(ctx context.Context, op record.Operation) (record.Record, error)
}

// SaveRecordInput carries input for the save orchestrator.
type SaveRecordInput struct {
	Actor     identity.Identity
	Resource  string
	Operation record.Operation
	Request   RequestMeta
}

// SaveRecordDeps holds dependencies for SaveRecord.
type SaveRecordDeps struct {
	Records RecordWriter
	Audit   AuditRecorder
}

// ExecuteSaveRecord sends the operation to the backend and records who did it.
// PRE: Operation was built with record.Create or record.Update
// POST: Returns the saved record; an audit event is stored only on success
// INVARIANT: an update never changes the record's id
func ExecuteSaveRecord(ctx context.Context, input SaveRecordInput, deps SaveRecordDeps) (record.Record, error) {
	op := input.Operation
	if _, err := op.Payload(); err != nil {
		return nil, err
	}

	saved, err := deps.Records.Apply(ctx, op)
	if err != nil {
		slog.Warn("record_save_failed", "resource", input.Resource, "op", op.Kind().String(), "id", op.ID(), "error", err)
		return nil, err
	}

	id := op.ID()
	if savedID, ok := saved.ID(); ok && op.Kind() == record.KindCreate {
		id = savedID
	}
	action := audit.ActionCreate
	if op.Kind() == record.KindUpdate {
		action = audit.ActionUpdate
	}
	slog.Info("record_saved", "resource", input.Resource, "op", op.Kind().String(), "id", id, "actor", input.Actor.Email)
	recordAudit(ctx, deps.Audit,
		audit.NewEvent(input.Actor, audit.CategoryRecord, action).WithRecord(input.Resource, id),
		input.Request)
	return saved, nil
}
