package orchestrators

import (
	"context"
	"log/slog"

	"sura/internal/domain/audit"
)

// AuditRecorder appends events to the activity log.
type AuditRecorder interface {
	Save(ctx context.Context, event audit.Event) error
}

// RequestMeta carries the client details stored with audit events.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// recordAudit stores ev. A failing activity log never fails the action
// that produced the event; the failure is logged instead.
func recordAudit(ctx context.Context, rec AuditRecorder, ev audit.Event, meta RequestMeta) {
	if rec == nil {
		return
	}
	ev = ev.WithRequest(meta.IPAddress, meta.UserAgent)
	if err := rec.Save(ctx, ev); err != nil {
		slog.Error("audit_save_failed", "category", ev.Category, "action", ev.Action, "error", err)
	}
}
