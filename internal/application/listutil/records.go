package listutil

import (
	"sort"
	"strconv"
	"strings"

	"sura/internal/domain/record"
)

// Search keeps the records where any of fields contains q, ignoring case.
// An empty q returns records unchanged.
func Search(records []record.Record, q string, fields []string) []record.Record {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return records
	}
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(r.String(f)), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// SortBy returns a copy of records stably ordered by field. Values that both
// parse as numbers compare numerically, otherwise as lower-case text.
// PRE: dir is Asc or Desc
// POST: input slice is not modified
func SortBy(records []record.Record, field, dir string) []record.Record {
	out := make([]record.Record, len(records))
	copy(out, records)
	if field == "" {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i].String(field), out[j].String(field))
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compare(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Page returns the rows of records that fall on info's page.
func Page(records []record.Record, info PageInfo) []record.Record {
	start := info.Offset()
	if start >= len(records) {
		return []record.Record{}
	}
	end := start + info.PerPage
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// Apply searches, optionally sorts, and paginates records.
// PRE: records are already narrowed to what the viewer may see
// POST: Returns the current page and its metadata; Total counts all matches
func Apply(records []record.Record, p ListParams, searchFields []string) ([]record.Record, PageInfo) {
	matched := Search(records, p.Search, searchFields)
	if p.Sort != "" {
		matched = SortBy(matched, p.Sort, p.Dir)
	}
	info := NewPageInfo(p.Page, p.PerPage, len(matched))
	return Page(matched, info), info
}
