// Package forms describes the editable fields of each backend resource and
// turns submitted form values into backend records, with Spanish
// validation messages.
package forms

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"sura/internal/domain/record"
)

// Kind is the input type of a field.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindNumber   Kind = "number"
	KindInteger  Kind = "integer"
	KindDate     Kind = "date"
	KindTime     Kind = "time"
	KindTextarea Kind = "textarea"
	KindSelect   Kind = "select"
	KindCheckbox Kind = "checkbox"
	KindURL      Kind = "url"
	KindPassword Kind = "password"
)

// Field is one input of a resource form.
type Field struct {
	Name     string // backend field name
	Label    string
	Kind     Kind
	Required bool
	Rules    string // validator tags applied to the typed value, e.g. "gte=0,lte=5"
	Options  []string
	Default  string
	Column   bool   // shown as a list column and searched by q
	List     string // id of a datalist offering suggestions
}

// InputType is the HTML input type attribute for the field.
func (f Field) InputType() string {
	switch f.Kind {
	case KindNumber, KindInteger:
		return "number"
	case KindText, KindTextarea, KindSelect:
		return "text"
	}
	return string(f.Kind)
}

// Step is the HTML step attribute for numeric inputs.
func (f Field) Step() string {
	if f.Kind == KindNumber {
		return "any"
	}
	return "1"
}

// Spec is the form and list definition of one resource.
type Spec struct {
	Resource string // backend resource name
	Title    string // plural heading
	Singular string
	Path     string // base page path
	Fields   []Field
}

// Columns returns the fields shown in the list table, in form order.
func (s Spec) Columns() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Column {
			out = append(out, f)
		}
	}
	return out
}

// SearchFields returns the field names matched by free-text search.
func (s Spec) SearchFields() []string {
	var out []string
	for _, f := range s.Columns() {
		out = append(out, f.Name)
	}
	return out
}

// Field looks up a field by backend name.
func (s Spec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// SortableField reports whether name may be used as a sort key.
func (s Spec) SortableField(name string) bool {
	if name == record.FieldID {
		return true
	}
	return slices.Contains(s.SearchFields(), name)
}

// Values holds the raw text of each input, as typed or as loaded.
type Values map[string]string

// Errors maps a field name to its validation message.
type Errors map[string]string

// Any reports whether at least one field failed validation.
func (e Errors) Any() bool { return len(e) > 0 }

// Defaults returns the initial values of a create form.
func Defaults(s Spec) Values {
	v := make(Values, len(s.Fields))
	for _, f := range s.Fields {
		v[f.Name] = f.Default
	}
	return v
}

// FromRecord returns the values of an edit form for r.
// PRE: r was loaded from the backend
// POST: dates are yyyy-mm-dd, hours are HH:MM, checkboxes "true" or ""
func FromRecord(s Spec, r record.Record) Values {
	v := make(Values, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Kind {
		case KindCheckbox:
			if r.Bool(f.Name) {
				v[f.Name] = "true"
			} else {
				v[f.Name] = ""
			}
		case KindDate:
			v[f.Name] = cut(r.String(f.Name), len("2006-01-02"))
		case KindTime:
			v[f.Name] = cut(r.String(f.Name), len("15:04"))
		case KindPassword:
			v[f.Name] = ""
		default:
			v[f.Name] = r.String(f.Name)
		}
	}
	return v
}

func cut(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// rawValue reads one input. Passwords are not trimmed.
func rawValue(form url.Values, f Field) string {
	raw := form.Get(f.Name)
	if f.Kind == KindPassword {
		return raw
	}
	return strings.TrimSpace(raw)
}

// parseNumber accepts a decimal comma, as typed on Spanish keyboards.
func parseNumber(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}
