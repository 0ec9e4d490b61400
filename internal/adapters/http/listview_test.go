package web

import (
	"net/url"
	"strings"
	"testing"

	"sura/internal/application/listutil"
)

func viewFixture() listView {
	return listView{
		Base: "/notas",
		Params: listutil.ListParams{
			PageParams:   listutil.PageParams{Page: 2, PerPage: 50},
			SortParams:   listutil.SortParams{Sort: "nota", Dir: "asc"},
			FilterParams: listutil.FilterParams{Search: "ana"},
		},
		Extra: url.Values{"email": {"ana@sura.edu"}},
	}
}

// TestListView_SortURL verifies direction toggling and filter retention.
func TestListView_SortURL(t *testing.T) {
	v := viewFixture()
	got, _ := url.Parse(v.SortURL("nota"))
	q := got.Query()
	if q.Get("dir") != "desc" || q.Get("sort") != "nota" {
		t.Errorf("toggle: %s", got)
	}
	if q.Get("q") != "ana" || q.Get("email") != "ana@sura.edu" || q.Get("per_page") != "50" {
		t.Errorf("filters lost: %s", got)
	}
	if q.Get("page") != "" {
		t.Errorf("sorting should reset to page 1: %s", got)
	}
	other, _ := url.Parse(v.SortURL("nombreMateria"))
	if other.Query().Get("dir") != "asc" {
		t.Errorf("new column should sort asc: %s", other)
	}
}

// TestListView_PageURL verifies the current sort is kept.
func TestListView_PageURL(t *testing.T) {
	v := viewFixture()
	got := v.PageURL(3)
	if !strings.HasPrefix(got, "/notas?") || !strings.Contains(got, "page=3") || !strings.Contains(got, "sort=nota") {
		t.Errorf("PageURL = %s", got)
	}
	if (listView{Base: "/cursos"}).PageURL(1) != "/cursos" {
		t.Error("plain first page should have no query")
	}
}

// TestListView_ExportURL verifies pagination is dropped and the format added.
func TestListView_ExportURL(t *testing.T) {
	got, _ := url.Parse(viewFixture().ExportURL("/asistencias/exportar", "csv"))
	q := got.Query()
	if got.Path != "/asistencias/exportar" || q.Get("formato") != "csv" || q.Get("page") != "" || q.Get("per_page") != "" || q.Get("q") != "ana" {
		t.Errorf("ExportURL = %s", got)
	}
}

// TestListView_SortIndicator marks only the active column.
func TestListView_SortIndicator(t *testing.T) {
	v := viewFixture()
	if v.SortIndicator("nota") != "▲" || v.SortIndicator("otro") != "" {
		t.Error("indicator mismatch")
	}
}
