package projections

import (
	"context"
	"strings"

	"sura/internal/application/listutil"
	"sura/internal/domain/record"
	"sura/internal/domain/visibility"
)

// GradeLister lists grades, optionally narrowed by the backend to one student.
type GradeLister interface {
	RecordLister
	ListByEmail(ctx context.Context, email string) ([]record.Record, error)
}

// ListGradesQuery carries query parameters.
type ListGradesQuery struct {
	ListRecordsQuery
	StudentEmail string // honoured for privileged viewers only
}

// ListGradesDeps holds dependencies for ListGrades.
type ListGradesDeps struct {
	Grades GradeLister
}

// QueryListGrades lists grades. A privileged viewer filtering by student
// email gets the backend's filtered listing; everyone else gets the full
// listing narrowed to what they may see.
// POST: Standard viewers never see another student's grades by passing ?email=
func QueryListGrades(ctx context.Context, query ListGradesQuery, deps ListGradesDeps) (ListRecordsResult, error) {
	query.Owner = &visibility.GradeOwner
	email := strings.TrimSpace(query.StudentEmail)
	if email == "" || !query.Viewer.IsPrivileged() {
		return QueryListRecords(ctx, query.ListRecordsQuery, ListRecordsDeps{Records: deps.Grades})
	}
	grades, err := deps.Grades.ListByEmail(ctx, email)
	if err != nil {
		return ListRecordsResult{}, err
	}
	rows, page := listutil.Apply(grades, query.Params, query.SearchFields)
	return ListRecordsResult{Rows: rows, Page: page}, nil
}
