package orchestrators

import (
	"context"
	"errors"
	"testing"

	"sura/internal/adapters/backend"
	"sura/internal/domain/audit"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

var teacher = identity.Identity{Name: "Luis Gil", Email: "luis@sura.edu", Role: identity.RolePrivileged}

// TestExecuteSaveRecord_Create verifies the new id is audited.
func TestExecuteSaveRecord_Create(t *testing.T) {
	recs := newMockRecords()
	aud := &mockAudit{}
	saved, err := ExecuteSaveRecord(context.Background(), SaveRecordInput{
		Actor: teacher, Resource: "cursos", Operation: record.Create(record.Record{"titulo": "Álgebra"}),
	}, SaveRecordDeps{Records: recs, Audit: aud})
	if err != nil {
		t.Fatalf("ExecuteSaveRecord: %v", err)
	}
	if id, _ := saved.ID(); id != 101 {
		t.Errorf("saved id = %d, want 101", id)
	}
	e := aud.last()
	if e.Action != audit.ActionCreate || e.Resource != "cursos" || e.RecordID != "101" || e.ActorEmail != teacher.Email {
		t.Errorf("audit = %+v", e)
	}
}

// TestExecuteSaveRecord_Update verifies the id is echoed and audited.
func TestExecuteSaveRecord_Update(t *testing.T) {
	recs := newMockRecords(record.Record{"id": int64(7), "titulo": "Álgebra"})
	aud := &mockAudit{}
	saved, err := ExecuteSaveRecord(context.Background(), SaveRecordInput{
		Actor: teacher, Resource: "cursos", Operation: record.Update(record.Record{"titulo": "Álgebra II"}, 7),
	}, SaveRecordDeps{Records: recs, Audit: aud})
	if err != nil {
		t.Fatalf("ExecuteSaveRecord: %v", err)
	}
	if id, _ := saved.ID(); id != 7 {
		t.Errorf("id = %d, want 7", id)
	}
	if e := aud.last(); e.Action != audit.ActionUpdate || e.RecordID != "7" {
		t.Errorf("audit = %+v", e)
	}
}

// TestExecuteSaveRecord_MissingID verifies nothing is sent for an update without id.
func TestExecuteSaveRecord_MissingID(t *testing.T) {
	recs := newMockRecords()
	_, err := ExecuteSaveRecord(context.Background(), SaveRecordInput{
		Operation: record.Update(record.Record{"titulo": "x"}, 0),
	}, SaveRecordDeps{Records: recs})
	if !errors.Is(err, record.ErrMissingID) {
		t.Errorf("err = %v, want ErrMissingID", err)
	}
	if len(recs.applied) != 0 {
		t.Error("request issued for an update without id")
	}
}

// TestExecuteSaveRecord_Rejected verifies backend rejections are returned and not audited.
func TestExecuteSaveRecord_Rejected(t *testing.T) {
	recs := newMockRecords()
	recs.applyErr = &backend.ValidationError{Resource: "cursos", Status: 400, Message: "Título duplicado"}
	aud := &mockAudit{}
	_, err := ExecuteSaveRecord(context.Background(), SaveRecordInput{
		Actor: teacher, Resource: "cursos", Operation: record.Create(record.Record{"titulo": "x"}),
	}, SaveRecordDeps{Records: recs, Audit: aud})
	if msg, ok := backend.ValidationMessage(err); !ok || msg != "Título duplicado" {
		t.Errorf("err = %v", err)
	}
	if len(aud.events) != 0 {
		t.Errorf("rejected write audited: %+v", aud.events)
	}
}

// TestExecuteDeactivate verifies the flag flips and other fields survive.
func TestExecuteDeactivate(t *testing.T) {
	recs := newMockRecords(record.Record{"id": int64(3), "nombreCompleto": "Marta Díaz", "vigencia": true, "edad": int64(40)})
	aud := &mockAudit{}
	saved, err := ExecuteDeactivate(context.Background(), DeactivateInput{
		Actor: teacher, Resource: "profesores", ID: 3, Field: "vigencia",
	}, DeactivateDeps{Records: recs, Audit: aud})
	if err != nil {
		t.Fatalf("ExecuteDeactivate: %v", err)
	}
	if saved.Bool("vigencia") {
		t.Error("vigencia still true")
	}
	if saved.String("nombreCompleto") != "Marta Díaz" || saved.String("edad") != "40" {
		t.Errorf("fields lost: %+v", saved)
	}
	if recs.applied[0].Kind() != record.KindUpdate || recs.applied[0].ID() != 3 {
		t.Errorf("operation = %v/%d", recs.applied[0].Kind(), recs.applied[0].ID())
	}
	if aud.last().Action != audit.ActionDeactivate {
		t.Errorf("audit = %+v", aud.last())
	}
}

// TestExecuteDeactivate_Errors covers a missing id and an unknown record.
func TestExecuteDeactivate_Errors(t *testing.T) {
	recs := newMockRecords()
	if _, err := ExecuteDeactivate(context.Background(), DeactivateInput{Field: "vigencia"}, DeactivateDeps{Records: recs}); !errors.Is(err, record.ErrMissingID) {
		t.Errorf("err = %v, want ErrMissingID", err)
	}
	if _, err := ExecuteDeactivate(context.Background(), DeactivateInput{ID: 9, Field: "vigencia"}, DeactivateDeps{Records: recs}); err == nil {
		t.Error("expected error for unknown record")
	}
	if len(recs.applied) != 0 {
		t.Error("write issued after a failed load")
	}
}

// TestExecuteDeleteGrade verifies deletion and audit severity.
func TestExecuteDeleteGrade(t *testing.T) {
	recs := newMockRecords(record.Record{"id": int64(5), "nota": 3.5})
	aud := &mockAudit{}
	if err := ExecuteDeleteGrade(context.Background(), DeleteGradeInput{Actor: teacher, ID: 5}, DeleteGradeDeps{Grades: recs, Audit: aud}); err != nil {
		t.Fatalf("ExecuteDeleteGrade: %v", err)
	}
	if len(recs.deleted) != 1 || recs.deleted[0] != 5 {
		t.Errorf("deleted = %v", recs.deleted)
	}
	e := aud.last()
	if e.Action != audit.ActionDelete || e.Severity != audit.SeverityWarning || e.Resource != backend.ResourceGrades {
		t.Errorf("audit = %+v", e)
	}
	if err := ExecuteDeleteGrade(context.Background(), DeleteGradeInput{}, DeleteGradeDeps{Grades: recs}); !errors.Is(err, record.ErrMissingID) {
		t.Errorf("err = %v, want ErrMissingID", err)
	}
}
