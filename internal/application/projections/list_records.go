package projections

import (
	"context"
	"slices"

	"sura/internal/application/listutil"
	"sura/internal/domain/attendance"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
	"sura/internal/domain/visibility"
)

// RecordLister lists every record of one backend resource.
type RecordLister interface {
	ListAll(ctx context.Context) ([]record.Record, error)
}

// ListRecordsQuery carries query parameters.
type ListRecordsQuery struct {
	Viewer       identity.Identity
	Owner        *visibility.Owner // nil when every viewer sees every record
	Params       listutil.ListParams
	SearchFields []string
	NewestFirst  bool // order attendance by fecha + horaEntrada when no sort is chosen
	Match        func(record.Record) bool // resource filters; nil keeps every record
}

// ListRecordsResult carries the query result.
type ListRecordsResult struct {
	Rows []record.Record
	Page listutil.PageInfo
}

// ListRecordsDeps holds dependencies for ListRecords.
type ListRecordsDeps struct {
	Records RecordLister
}

// QueryListRecords fetches a resource and returns the page the viewer asked for.
// PRE: Params were parsed with listutil.ParseListParams
// POST: Rows only contain records the viewer may see
// INVARIANT: narrowing and filters happen before search, sort and pagination
func QueryListRecords(ctx context.Context, query ListRecordsQuery, deps ListRecordsDeps) (ListRecordsResult, error) {
	all, err := deps.Records.ListAll(ctx)
	if err != nil {
		return ListRecordsResult{}, err
	}
	rows, page := listutil.Apply(prepare(all, query), query.Params, query.SearchFields)
	return ListRecordsResult{Rows: rows, Page: page}, nil
}

// QueryVisibleRecords returns every record the list page would show across
// all its pages, in the same order. Export uses it.
// PRE: same as QueryListRecords
// POST: no pagination is applied
func QueryVisibleRecords(ctx context.Context, query ListRecordsQuery, deps ListRecordsDeps) ([]record.Record, error) {
	all, err := deps.Records.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := listutil.Search(prepare(all, query), query.Params.Search, query.SearchFields)
	if query.Params.Sort != "" {
		out = listutil.SortBy(out, query.Params.Sort, query.Params.Dir)
	}
	return out, nil
}

// prepare narrows records to the viewer and the resource filters, then
// applies the default order.
func prepare(all []record.Record, query ListRecordsQuery) []record.Record {
	visible := all
	if query.Owner != nil {
		visible = visibility.Visible(all, query.Viewer, *query.Owner)
	}
	if query.Match != nil {
		visible = slices.DeleteFunc(slices.Clone(visible), func(r record.Record) bool { return !query.Match(r) })
	}
	if query.NewestFirst {
		visible = attendance.SortByDateTimeDesc(visible)
	}
	return visible
}
