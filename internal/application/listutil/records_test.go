package listutil

import (
	"net/url"
	"testing"

	"sura/internal/domain/record"
)

func courses() []record.Record {
	return []record.Record{
		{"id": 1, "titulo": "Álgebra", "maestro": "Marta Ruiz", "estudiantes": 30},
		{"id": 2, "titulo": "Física", "maestro": "Luis Gómez", "estudiantes": 4},
		{"id": 3, "titulo": "Química", "maestro": "marta lópez", "estudiantes": 12},
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

func TestSearch_CaseInsensitiveAcrossFields(t *testing.T) {
	got := Search(courses(), "MARTA", []string{"titulo", "maestro"})
	if !equalIDs(ids(got), 1, 3) {
		t.Errorf("ids = %v, want [1 3]", ids(got))
	}
}

func TestSearch_EmptyQueryKeepsAll(t *testing.T) {
	if got := Search(courses(), "  ", []string{"titulo"}); len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestSearch_IgnoresUnlistedFields(t *testing.T) {
	if got := Search(courses(), "30", []string{"titulo"}); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestSortBy_Numeric(t *testing.T) {
	got := SortBy(courses(), "estudiantes", "asc")
	if !equalIDs(ids(got), 2, 3, 1) {
		t.Errorf("ids = %v, want [2 3 1]", ids(got))
	}
	got = SortBy(courses(), "estudiantes", "desc")
	if !equalIDs(ids(got), 1, 3, 2) {
		t.Errorf("ids = %v, want [1 3 2]", ids(got))
	}
}

func TestSortBy_TextAndNoMutation(t *testing.T) {
	in := courses()
	got := SortBy(in, "maestro", "asc")
	if !equalIDs(ids(got), 2, 3, 1) {
		t.Errorf("ids = %v, want [2 3 1]", ids(got))
	}
	if !equalIDs(ids(in), 1, 2, 3) {
		t.Error("input slice was reordered")
	}
}

func TestApply(t *testing.T) {
	var rs []record.Record
	for i := 1; i <= 25; i++ {
		rs = append(rs, record.Record{"id": i, "nombre": "Estudiante"})
	}
	p := ParseListParams(url.Values{"page": {"2"}, "per_page": {"10"}}, nil)
	page, info := Apply(rs, p, []string{"nombre"})
	if info.Total != 25 || info.TotalPages != 3 {
		t.Errorf("info = %+v", info)
	}
	if len(page) != 10 {
		t.Fatalf("page len = %d, want 10", len(page))
	}
	if id, _ := page[0].ID(); id != 11 {
		t.Errorf("first id on page 2 = %d, want 11", id)
	}
}

func TestApply_PageBeyondEndClamps(t *testing.T) {
	p := ParseListParams(url.Values{"page": {"9"}}, nil)
	page, info := Apply(courses(), p, nil)
	if info.Page != 1 || len(page) != 3 {
		t.Errorf("page %d len %d, want page 1 with 3 rows", info.Page, len(page))
	}
}

func TestPage_Empty(t *testing.T) {
	got := Page(nil, NewPageInfo(1, 20, 0))
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}
