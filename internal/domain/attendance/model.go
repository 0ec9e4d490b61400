package attendance

import (
	"errors"
	"sort"
	"strings"
	"time"

	"sura/internal/domain/record"
)

// Backend field names for an attendance entry.
const (
	FieldPersonName  = "nombrePersona"
	FieldPersonEmail = "correoPersona"
	FieldDate        = "fecha"
	FieldEntryTime   = "horaEntrada"
	FieldAttended    = "asistio"
	FieldHasExcuse   = "tieneExcusa"
	FieldExcuse      = "excusa"
	FieldCourse      = "tituloCurso"
)

// Status labels shown and exported for an entry.
const (
	StatusPresent = "Presente"
	StatusAbsent  = "Ausente"
)

const defaultEntryTime = "00:00"

// ErrExcuseRequired is returned when an absence is marked as excused
// without the excuse text.
var ErrExcuseRequired = errors.New("Debes escribir la excusa")

// Normalize applies the attendance form rules to a submitted entry.
// A present entry carries no excuse; an absent one keeps the trimmed excuse
// only when it is marked as excused.
// PRE: r was decoded from the attendance form
// POST: returns a copy, or a *record.FieldError on FieldExcuse
func Normalize(r record.Record) (record.Record, error) {
	out := r.Clone()
	if out.Bool(FieldAttended) {
		out[FieldHasExcuse] = false
		out[FieldExcuse] = nil
		return out, nil
	}
	if !out.Bool(FieldHasExcuse) {
		out[FieldExcuse] = nil
		return out, nil
	}
	excuse := strings.TrimSpace(out.String(FieldExcuse))
	if excuse == "" {
		return nil, &record.FieldError{Field: FieldExcuse, Err: ErrExcuseRequired}
	}
	out[FieldExcuse] = excuse
	return out, nil
}

// Status returns the presence label for an attendance entry.
func Status(r record.Record) string {
	if r.Bool(FieldAttended) {
		return StatusPresent
	}
	return StatusAbsent
}

// Timestamp parses fecha + horaEntrada. A missing hour is midnight.
// PRE: none
// POST: ok is false when the date or hour cannot be parsed
func Timestamp(r record.Record) (time.Time, bool) {
	date := strings.TrimSpace(r.String(FieldDate))
	hour := strings.TrimSpace(r.String(FieldEntryTime))
	if date == "" {
		return time.Time{}, false
	}
	if hour == "" {
		hour = defaultEntryTime
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, date+"T"+hour); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// SortByDateTimeDesc orders entries newest first without mutating the input.
// Entries whose timestamp cannot be parsed go last, in their original order.
func SortByDateTimeDesc(records []record.Record) []record.Record {
	out := make([]record.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		ti, okI := Timestamp(out[i])
		tj, okJ := Timestamp(out[j])
		if okI != okJ {
			return okI
		}
		return ti.After(tj)
	})
	return out
}

// Filter narrows entries by course title and presence status.
// Empty fields match every entry.
type Filter struct {
	Course string
	Status string // StatusPresent, StatusAbsent or ""
}

// NewFilter builds a filter from user input. An unknown status is ignored.
func NewFilter(course, status string) Filter {
	f := Filter{Course: strings.TrimSpace(course)}
	for _, known := range []string{StatusPresent, StatusAbsent} {
		if strings.EqualFold(strings.TrimSpace(status), known) {
			f.Status = known
		}
	}
	return f
}

// IsZero reports whether the filter keeps every entry.
func (f Filter) IsZero() bool { return f.Course == "" && f.Status == "" }

// Match reports whether an entry passes the filter.
func (f Filter) Match(r record.Record) bool {
	if f.Course != "" && strings.TrimSpace(r.String(FieldCourse)) != f.Course {
		return false
	}
	return f.Status == "" || Status(r) == f.Status
}
