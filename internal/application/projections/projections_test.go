package projections

import (
	"context"
	"errors"
	"testing"

	"sura/internal/application/listutil"
	"sura/internal/domain/attendance"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
	"sura/internal/domain/visibility"
)

// --- Mock lister ---

type mockLister struct {
	records []record.Record
	byEmail map[string][]record.Record
	err     error
	emails  []string
}

// ListAll returns the fixture records.
func (m *mockLister) ListAll(_ context.Context) ([]record.Record, error) {
	return m.records, m.err
}

// ListByEmail returns the fixture records keyed by email.
func (m *mockLister) ListByEmail(_ context.Context, email string) ([]record.Record, error) {
	m.emails = append(m.emails, email)
	return m.byEmail[email], m.err
}

var (
	student = identity.Identity{Name: "Ana", Email: "ana@sura.edu", Role: identity.RoleStandard}
	teacher = identity.Identity{Name: "Luis", Email: "luis@sura.edu", Role: identity.RolePrivileged}
)

func params(page, perPage int) listutil.ListParams {
	return listutil.ListParams{PageParams: listutil.PageParams{Page: page, PerPage: perPage}}
}

func attendanceFixture() []record.Record {
	return []record.Record{
		{"id": 1, "nombrePersona": "Ana", "correoPersona": "ana@sura.edu", "fecha": "2024-05-01", "horaEntrada": "08:00"},
		{"id": 2, "nombrePersona": "Luis", "correoPersona": "otro@sura.edu", "fecha": "2024-05-03", "horaEntrada": "08:00"},
		{"id": 3, "nombrePersona": "Juliana", "correoPersona": "juli@sura.edu", "fecha": "2024-05-02"},
		{"id": 4, "nombrePersona": "Ana", "correoPersona": "ANA@sura.edu", "fecha": "2024-05-04", "horaEntrada": "10:30"},
	}
}

func ids(rs []record.Record) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		id, _ := r.ID()
		out = append(out, id)
	}
	return out
}

func equalIDs(a []int64, b ...int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestQueryListRecords_StudentSeesOwnNewestFirst verifies narrowing and default ordering.
func TestQueryListRecords_StudentSeesOwnNewestFirst(t *testing.T) {
	res, err := QueryListRecords(context.Background(), ListRecordsQuery{
		Viewer: student, Owner: &visibility.AttendanceOwner, Params: params(1, 20), NewestFirst: true,
	}, ListRecordsDeps{Records: &mockLister{records: attendanceFixture()}})
	if err != nil {
		t.Fatalf("QueryListRecords: %v", err)
	}
	// "Juliana" contains "ana": the permissive name match includes it.
	if got := ids(res.Rows); !equalIDs(got, 4, 3, 1) {
		t.Errorf("ids = %v, want [4 3 1]", got)
	}
	if res.Page.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Page.Total)
	}
}

// TestQueryListRecords_TeacherSeesAll verifies privileged viewers get every record and
// an out-of-range page is clamped to the last one.
func TestQueryListRecords_TeacherSeesAll(t *testing.T) {
	res, err := QueryListRecords(context.Background(), ListRecordsQuery{
		Viewer: teacher, Owner: &visibility.AttendanceOwner, Params: params(2, 10), NewestFirst: true,
	}, ListRecordsDeps{Records: &mockLister{records: attendanceFixture()}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Page.Total != 4 || res.Page.Page != 1 || len(res.Rows) != 4 {
		t.Errorf("total=%d page=%d rows=%d, want 4/1/4", res.Page.Total, res.Page.Page, len(res.Rows))
	}
}

// TestQueryListRecords_EmptyIdentity verifies fail-closed for a standard viewer with no email or name.
func TestQueryListRecords_EmptyIdentity(t *testing.T) {
	res, err := QueryListRecords(context.Background(), ListRecordsQuery{
		Viewer: identity.Identity{Role: identity.RoleStandard}, Owner: &visibility.AttendanceOwner, Params: params(1, 20),
	}, ListRecordsDeps{Records: &mockLister{records: attendanceFixture()}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("rows = %v, want none", ids(res.Rows))
	}
}

// TestQueryListRecords_SharedResourceAndSearch verifies nil owner and free-text search.
func TestQueryListRecords_SharedResourceAndSearch(t *testing.T) {
	p := params(1, 20)
	p.Search = "jul"
	res, err := QueryListRecords(context.Background(), ListRecordsQuery{
		Viewer: student, Params: p, SearchFields: []string{"nombrePersona"},
	}, ListRecordsDeps{Records: &mockLister{records: attendanceFixture()}})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(res.Rows); !equalIDs(got, 3) {
		t.Errorf("ids = %v, want [3]", got)
	}
}

// TestQueryListRecords_BackendError verifies errors pass through.
func TestQueryListRecords_BackendError(t *testing.T) {
	want := errors.New("down")
	_, err := QueryListRecords(context.Background(), ListRecordsQuery{Params: params(1, 20)}, ListRecordsDeps{Records: &mockLister{err: want}})
	if !errors.Is(err, want) {
		t.Errorf("err = %v", err)
	}
}

// TestQueryVisibleRecords_NoPagination verifies export sees all visible rows in screen order.
func TestQueryVisibleRecords_NoPagination(t *testing.T) {
	rows, err := QueryVisibleRecords(context.Background(), ListRecordsQuery{
		Viewer: teacher, Owner: &visibility.AttendanceOwner, Params: params(1, 10), NewestFirst: true,
	}, ListRecordsDeps{Records: &mockLister{records: attendanceFixture()}})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(rows); !equalIDs(got, 4, 2, 3, 1) {
		t.Errorf("ids = %v, want [4 2 3 1]", got)
	}
}

// TestQueryRecords_Match verifies resource filters apply after narrowing,
// on the list page and on the export alike.
func TestQueryRecords_Match(t *testing.T) {
	records := []record.Record{
		{"id": 1, "correoPersona": "ana@sura.edu", "tituloCurso": "Álgebra", "asistio": true, "fecha": "2024-05-01"},
		{"id": 2, "correoPersona": "ana@sura.edu", "tituloCurso": "Álgebra", "asistio": false, "fecha": "2024-05-02"},
		{"id": 3, "correoPersona": "otro@sura.edu", "tituloCurso": "Álgebra", "asistio": false, "fecha": "2024-05-03"},
		{"id": 4, "correoPersona": "ana@sura.edu", "tituloCurso": "Química", "asistio": false, "fecha": "2024-05-04"},
	}
	query := ListRecordsQuery{
		Viewer: student, Owner: &visibility.AttendanceOwner, Params: params(1, 20), NewestFirst: true,
		Match: attendance.NewFilter("Álgebra", attendance.StatusAbsent).Match,
	}
	deps := ListRecordsDeps{Records: &mockLister{records: records}}

	res, err := QueryListRecords(context.Background(), query, deps)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(res.Rows); !equalIDs(got, 2) || res.Page.Total != 1 {
		t.Errorf("list ids = %v total = %d, want [2] 1", got, res.Page.Total)
	}
	rows, err := QueryVisibleRecords(context.Background(), query, deps)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(rows); !equalIDs(got, 2) {
		t.Errorf("export ids = %v, want [2]", got)
	}
	if len(records) != 4 || ids(records)[1] != 2 {
		t.Error("backend records were mutated")
	}
}

// TestQueryListGrades verifies the email filter is honoured for teachers only.
func TestQueryListGrades(t *testing.T) {
	grades := []record.Record{
		{"id": 1, "nombreEstudiante": "Ana", "emailEstudiante": "ana@sura.edu", "nota": 4.0},
		{"id": 2, "nombreEstudiante": "Pedro", "emailEstudiante": "pedro@sura.edu", "nota": 3.0},
	}
	m := &mockLister{records: grades, byEmail: map[string][]record.Record{"pedro@sura.edu": grades[1:]}}

	res, err := QueryListGrades(context.Background(), ListGradesQuery{
		ListRecordsQuery: ListRecordsQuery{Viewer: teacher, Params: params(1, 20)}, StudentEmail: " pedro@sura.edu ",
	}, ListGradesDeps{Grades: m})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(res.Rows); !equalIDs(got, 2) || len(m.emails) != 1 || m.emails[0] != "pedro@sura.edu" {
		t.Errorf("teacher filter: ids=%v emails=%v", got, m.emails)
	}

	res, err = QueryListGrades(context.Background(), ListGradesQuery{
		ListRecordsQuery: ListRecordsQuery{Viewer: student, Params: params(1, 20)}, StudentEmail: "pedro@sura.edu",
	}, ListGradesDeps{Grades: m})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(res.Rows); !equalIDs(got, 1) {
		t.Errorf("student with ?email= sees %v, want only own [1]", got)
	}
	if len(m.emails) != 1 {
		t.Error("student request used the backend email filter")
	}
}

// TestQueryGetReports verifies the tab split and counts.
func TestQueryGetReports(t *testing.T) {
	m := &mockLister{records: []record.Record{
		{"id": 1, "tipoReporte": "ACADEMICO"},
		{"id": 2, "tipoReporte": "ADMINISTRATIVO"},
		{"id": 3},
		{"id": 4, "tipoReporte": "OTRO"},
	}}
	res, err := QueryGetReports(context.Background(), GetReportsQuery{Params: params(1, 20)}, GetReportsDeps{Reports: m})
	if err != nil {
		t.Fatal(err)
	}
	if res.Tab != TabAcademic || !equalIDs(ids(res.Rows), 1, 3) || res.AdministrativeCount != 1 {
		t.Errorf("academic tab = %+v", res)
	}
	res, _ = QueryGetReports(context.Background(), GetReportsQuery{Tab: TabAdministrative, Params: params(1, 20)}, GetReportsDeps{Reports: m})
	if res.Tab != TabAdministrative || !equalIDs(ids(res.Rows), 2) || res.AcademicCount != 2 {
		t.Errorf("administrative tab = %+v", res)
	}
}

// TestQueryGetStudents verifies role filtering and name order.
func TestQueryGetStudents(t *testing.T) {
	m := &mockLister{records: []record.Record{
		{"nombre": "zoe", "correo": "z@sura.edu", "rol": "Estudiante"},
		{"nombre": "Luis", "correo": "l@sura.edu", "rol": "Profesor"},
		{"nombre": "Ana", "correo": "a@sura.edu", "rol": "Estudiante"},
		{"rol": "Estudiante"},
	}}
	got, err := QueryGetStudents(context.Background(), m)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "Ana" || got[1].Name != "zoe" {
		t.Errorf("students = %+v", got)
	}
}
