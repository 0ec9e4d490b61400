package orchestrators

import (
	"context"
	"log/slog"

	"sura/internal/adapters/backend"
	"sura/internal/domain/audit"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

// GradeDeleter removes a grade from the backend.
type GradeDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// DeleteGradeInput carries input for the delete orchestrator.
type DeleteGradeInput struct {
	Actor   identity.Identity
	ID      int64
	Request RequestMeta
}

// DeleteGradeDeps holds dependencies for DeleteGrade.
type DeleteGradeDeps struct {
	Grades GradeDeleter
	Audit  AuditRecorder
}

// ExecuteDeleteGrade deletes one grade.
// PRE: ID > 0
// POST: grade removed; a warning-level audit event stored
func ExecuteDeleteGrade(ctx context.Context, input DeleteGradeInput, deps DeleteGradeDeps) error {
	if input.ID <= 0 {
		return record.ErrMissingID
	}
	if err := deps.Grades.Delete(ctx, input.ID); err != nil {
		slog.Warn("grade_delete_failed", "id", input.ID, "error", err)
		return err
	}
	slog.Info("grade_deleted", "id", input.ID, "actor", input.Actor.Email)
	recordAudit(ctx, deps.Audit,
		audit.NewEvent(input.Actor, audit.CategoryRecord, audit.ActionDelete).
			WithRecord(backend.ResourceGrades, input.ID).
			WithSeverity(audit.SeverityWarning),
		input.Request)
	return nil
}
