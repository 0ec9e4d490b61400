package orchestrators

import (
	"context"
	"fmt"

	"sura/internal/domain/audit"
	"sura/internal/domain/identity"
)

// ExportInput describes a finished download.
type ExportInput struct {
	Actor    identity.Identity
	Resource string
	Format   string
	Rows     int
	Request  RequestMeta
}

// ExecuteRecordExport stores who downloaded which records.
// POST: one export event stored; a failing activity log is only logged
func ExecuteRecordExport(ctx context.Context, input ExportInput, rec AuditRecorder) {
	ev := audit.NewEvent(input.Actor, audit.CategoryRecord, audit.ActionExport).
		WithRecord(input.Resource, 0).
		WithDescription(fmt.Sprintf("%s, %d fila(s)", input.Format, input.Rows))
	recordAudit(ctx, rec, ev, input.Request)
}
