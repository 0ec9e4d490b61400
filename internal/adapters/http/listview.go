package web

import (
	"net/url"
	"strconv"

	"sura/internal/application/listutil"
)

// listView builds the links of a list page so sorting, searching,
// pagination and extra filters survive each other.
type listView struct {
	Base   string
	Params listutil.ListParams
	Page   listutil.PageInfo
	Extra  url.Values // filters kept on every link, e.g. email or tab
}

func (v listView) query(page int, sort, dir string) url.Values {
	q := url.Values{}
	for k, vals := range v.Extra {
		for _, val := range vals {
			q.Add(k, val)
		}
	}
	if v.Params.Search != "" {
		q.Set(listutil.KeySearch, v.Params.Search)
	}
	if sort != "" {
		q.Set(listutil.KeySort, sort)
		q.Set(listutil.KeyDir, dir)
	}
	if page > 1 {
		q.Set(listutil.KeyPage, strconv.Itoa(page))
	}
	if v.Params.PerPage != listutil.DefaultPerPage && v.Params.PerPage > 0 {
		q.Set(listutil.KeyPerPage, strconv.Itoa(v.Params.PerPage))
	}
	return q
}

func (v listView) url(q url.Values) string {
	if len(q) == 0 {
		return v.Base
	}
	return v.Base + "?" + q.Encode()
}

// SortURL links to the first page sorted by col, toggling the direction
// when col is already the sort key.
func (v listView) SortURL(col string) string {
	return v.url(v.query(1, col, v.Params.Toggled(col)))
}

// SortIndicator marks the active sort column.
func (v listView) SortIndicator(col string) string {
	if v.Params.Sort != col {
		return ""
	}
	if v.Params.Descending() {
		return "▼"
	}
	return "▲"
}

// PageURL links to page n with the current sort.
func (v listView) PageURL(n int) string {
	return v.url(v.query(n, v.Params.Sort, v.Params.Dir))
}

// ExportURL links to the export of the current dataset in format.
func (v listView) ExportURL(base, format string) string {
	q := v.query(1, v.Params.Sort, v.Params.Dir)
	q.Del(listutil.KeyPage)
	q.Del(listutil.KeyPerPage)
	q.Set("formato", format)
	return base + "?" + q.Encode()
}

// PerPageOptions lists the selectable page sizes.
func (v listView) PerPageOptions() []int { return listutil.PerPageOptions }
