package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldID is the key under which the backend stores the record identifier.
const FieldID = "id"

// Domain errors
var (
	ErrMissingID          = errors.New("update requires a record identifier")
	ErrIdentifierOnCreate = errors.New("create must not carry a record identifier")
)

// Record is a backend entity: named fields mapped to scalar JSON values.
// An absent or non-positive "id" means the record has not been persisted.
type Record map[string]any

// ID returns the backend-assigned identifier.
// PRE: none
// POST: ok is false when the id is absent, non-integral or not positive
func (r Record) ID() (int64, bool) {
	v, present := r[FieldID]
	if !present || v == nil {
		return 0, false
	}
	var id int64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, false
		}
		id = parsed
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		id = int64(n)
	case int:
		id = int64(n)
	case int64:
		id = n
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		id = parsed
	default:
		return 0, false
	}
	if id <= 0 {
		return 0, false
	}
	return id, true
}

// HasID reports whether the record has been persisted.
func (r Record) HasID() bool {
	_, ok := r.ID()
	return ok
}

// String renders a field as text. Missing and null fields render as "".
// LocalDate arrays such as [2026, 2, 15] render as "2026-02-15" and
// LocalTime arrays such as [8, 30, 15] as "08:30:15".
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case []any:
		if d, ok := localArray(s); ok {
			return d
		}
	}
	return fmt.Sprint(v)
}

// Bool interprets a field as a boolean. Strings "true"/"on"/"1" are true.
func (r Record) Bool(field string) bool {
	switch b := r[field].(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "on", "1", "si", "sí":
			return true
		}
	}
	return false
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// WithoutID returns a copy of the record with the identifier removed.
func (r Record) WithoutID() Record {
	out := r.Clone()
	delete(out, FieldID)
	return out
}

// WithID returns a copy of the record carrying the given identifier.
func (r Record) WithID(id int64) Record {
	out := r.Clone()
	out[FieldID] = id
	return out
}

// FieldError reports a rule broken by one field of a record.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// localArray renders the arrays the backend uses for LocalDate and
// LocalTime values: [y,m,d] as "2006-01-02" and [h,m] or [h,m,s(,nanos)]
// as "15:04" or "15:04:05".
func localArray(parts []any) (string, bool) {
	nums, ok := integers(parts)
	if !ok {
		return "", false
	}
	if len(nums) == 3 && nums[0] > 31 && between(nums[1], 1, 12) && between(nums[2], 1, 31) {
		return fmt.Sprintf("%04d-%02d-%02d", nums[0], nums[1], nums[2]), true
	}
	if len(nums) < 2 || len(nums) > 4 || !between(nums[0], 0, 23) || !between(nums[1], 0, 59) {
		return "", false
	}
	if len(nums) == 2 {
		return fmt.Sprintf("%02d:%02d", nums[0], nums[1]), true
	}
	if !between(nums[2], 0, 59) {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d:%02d", nums[0], nums[1], nums[2]), true
}

func integers(parts []any) ([]int64, bool) {
	nums := make([]int64, len(parts))
	for i, p := range parts {
		switch n := p.(type) {
		case json.Number:
			v, err := n.Int64()
			if err != nil {
				return nil, false
			}
			nums[i] = v
		case float64:
			if n != math.Trunc(n) {
				return nil, false
			}
			nums[i] = int64(n)
		case int:
			nums[i] = int64(n)
		case int64:
			nums[i] = n
		default:
			return nil, false
		}
	}
	return nums, true
}

func between(v, lo, hi int64) bool { return v >= lo && v <= hi }
