// Package listutil parses list-view query parameters and applies search,
// sorting and pagination to records already fetched from the backend.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Query keys shared by the parser and the link builders.
const (
	KeySearch  = "q"
	KeySort    = "sort"
	KeyDir     = "dir"
	KeyPage    = "page"
	KeyPerPage = "per_page"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed
	PerPage int
}

// SortParams names the column a list is ordered by.
type SortParams struct {
	Sort string // empty keeps the backend order
	Dir  string // Asc or Desc
}

// Descending reports whether rows run from the largest value down.
func (s SortParams) Descending() bool { return s.Dir == Desc }

// Toggled returns the direction a header link for col should request:
// the reverse of the current one when col is already the sort key.
func (s SortParams) Toggled(col string) string {
	if s.Sort == col && s.Dir == Asc {
		return Desc
	}
	return Asc
}

// FilterParams carries the free-text search of a list.
type FilterParams struct {
	Search string
}

// ListParams combines all list view parameters.
type ListParams struct {
	PageParams
	SortParams
	FilterParams
}

// ParsePageParams extracts page and per_page from URL query values.
// PRE: none
// POST: Page >= 1 and PerPage is one of PerPageOptions
func ParsePageParams(q url.Values) PageParams {
	page, err := strconv.Atoi(q.Get(KeyPage))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get(KeyPerPage))
	if !slices.Contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseSortParams extracts sort and dir from URL query values.
// PRE: sortable lists the columns a caller may order by
// POST: Sort is empty or one of sortable; Dir is always Asc or Desc
func ParseSortParams(q url.Values, sortable []string) SortParams {
	s := SortParams{Sort: q.Get(KeySort), Dir: q.Get(KeyDir)}
	if !slices.Contains(sortable, s.Sort) {
		s.Sort = ""
	}
	if s.Dir != Desc {
		s.Dir = Asc
	}
	return s
}

// ParseListParams parses all list parameters from URL query values.
func ParseListParams(q url.Values, sortable []string) ListParams {
	return ListParams{
		PageParams:   ParsePageParams(q),
		SortParams:   ParseSortParams(q, sortable),
		FilterParams: FilterParams{Search: strings.TrimSpace(q.Get(KeySearch))},
	}
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: 1 <= Page <= TotalPages; an empty list still has one page
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max(1, (total+perPage-1)/perPage)
	return PageInfo{
		Page:       min(max(page, 1), totalPages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page.
// POST: 0 when the list is empty
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// PageNumbers returns a window of at most five page links around the
// current page, shifted inward at either end.
func (p PageInfo) PageNumbers() []int {
	const window = 5
	first := max(1, min(p.Page-window/2, p.TotalPages-window+1))
	last := min(p.TotalPages, first+window-1)
	pages := make([]int, 0, last-first+1)
	for n := first; n <= last; n++ {
		pages = append(pages, n)
	}
	return pages
}

// ShowPagination reports whether the rows span more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}
