package projections

import (
	"context"

	"sura/internal/application/listutil"
	"sura/internal/domain/record"
	"sura/internal/domain/report"
)

// Report tabs
const (
	TabAcademic       = "academico"
	TabAdministrative = "administrativo"
)

// GetReportsQuery carries query parameters.
type GetReportsQuery struct {
	Tab          string
	Params       listutil.ListParams
	SearchFields []string
}

// GetReportsResult carries the query result.
type GetReportsResult struct {
	Tab                 string
	Rows                []record.Record
	Page                listutil.PageInfo
	AcademicCount       int
	AdministrativeCount int
}

// GetReportsDeps holds dependencies for GetReports.
type GetReportsDeps struct {
	Reports RecordLister
}

// QueryGetReports splits reports into the academic and administrative tabs
// and returns the page of the selected one.
// PRE: viewer is privileged (checked by the route guard)
// POST: Tab is TabAcademic unless TabAdministrative was asked for
func QueryGetReports(ctx context.Context, query GetReportsQuery, deps GetReportsDeps) (GetReportsResult, error) {
	all, err := deps.Reports.ListAll(ctx)
	if err != nil {
		return GetReportsResult{}, err
	}
	academic, administrative := report.Split(all)

	result := GetReportsResult{
		Tab:                 TabAcademic,
		AcademicCount:       len(academic),
		AdministrativeCount: len(administrative),
	}
	current := academic
	if query.Tab == TabAdministrative {
		result.Tab = TabAdministrative
		current = administrative
	}
	result.Rows, result.Page = listutil.Apply(current, query.Params, query.SearchFields)
	return result, nil
}
