package forms

import (
	"errors"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"

	"sura/internal/domain/record"
)

// custom validation tags
const (
	hourTag     = "hora"
	dateTag     = "datetime"
	notBlankTag = "notblank"
)

const dateLayout = "2006-01-02"

var hourRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// Validator checks submitted values with go-playground/validator and
// reports messages in Spanish.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator builds a validator with the Spanish translations registered.
// POST: Returns a ready-to-use validator
func NewValidator() *Validator {
	validate := validator.New()
	_es := es.New()
	uni := ut.New(_es, _es)
	translator, _ := uni.GetTranslator("es")
	_ = es_translations.RegisterDefaultTranslations(validate, translator)

	_ = validate.RegisterValidation(hourTag, hourValidation)
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)

	// the default translations are already registered, so a noop
	// registerFn is enough for the custom tags.
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{hourTag, dateTag, notBlankTag} {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustomErrs)
	}
	return &Validator{validate: validate, translator: translator}
}

func translateCustomErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case hourTag:
		return "debe ser una hora válida (HH:MM)"
	case dateTag:
		return "debe ser una fecha válida (AAAA-MM-DD)"
	case notBlankTag:
		return "no puede estar vacío"
	default:
		return ""
	}
}

func hourValidation(fl validator.FieldLevel) bool {
	return hourRegex.MatchString(fl.Field().String())
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// Var validates a single value against tags and returns the translated
// message prefixed with label, or "" when the value is valid.
func (v *Validator) Var(label string, value any, tags string) string {
	if tags == "" {
		return ""
	}
	err := v.validate.Var(value, tags)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return label + " " + strings.TrimSpace(verrs[0].Translate(v.translator))
	}
	return label + " no es válido"
}

// Decode converts submitted form values into a backend record.
// PRE: form was parsed from a POST body
// POST: values echoes the raw input; errors is empty when rec is usable.
// Empty optional fields are sent as null so an edit can clear them.
func (v *Validator) Decode(s Spec, form url.Values) (rec record.Record, values Values, errs Errors) {
	rec = record.Record{}
	values = Values{}
	errs = Errors{}
	for _, f := range s.Fields {
		raw := rawValue(form, f)
		if f.Kind == KindCheckbox {
			checked := record.Record{f.Name: raw}.Bool(f.Name)
			rec[f.Name] = checked
			if checked {
				values[f.Name] = "true"
			} else {
				values[f.Name] = ""
			}
			continue
		}
		values[f.Name] = raw
		if raw == "" {
			if f.Required {
				errs[f.Name] = v.Var(f.Label, raw, "required")
				continue
			}
			if isTextual(f.Kind) {
				rec[f.Name] = ""
			} else {
				rec[f.Name] = nil
			}
			continue
		}
		typed, msg := v.typed(f, raw)
		if msg != "" {
			errs[f.Name] = msg
			continue
		}
		rec[f.Name] = typed
	}
	return rec, values, errs
}

// typed converts raw to the field's value type and applies its rules.
func (v *Validator) typed(f Field, raw string) (any, string) {
	switch f.Kind {
	case KindNumber:
		n, err := parseNumber(raw)
		if err != nil {
			return nil, f.Label + " debe ser un número"
		}
		return n, v.Var(f.Label, n, f.Rules)
	case KindInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, f.Label + " debe ser un número entero"
		}
		return n, v.Var(f.Label, n, f.Rules)
	case KindEmail:
		return raw, v.Var(f.Label, raw, join("email", f.Rules))
	case KindURL:
		return raw, v.Var(f.Label, raw, join("url", f.Rules))
	case KindDate:
		return raw, v.Var(f.Label, raw, join(dateTag+"="+dateLayout, f.Rules))
	case KindTime:
		return raw, v.Var(f.Label, raw, join(hourTag, f.Rules))
	case KindSelect:
		if len(f.Options) > 0 && !slices.Contains(f.Options, raw) {
			return nil, f.Label + " debe ser uno de: " + strings.Join(f.Options, ", ")
		}
		return raw, v.Var(f.Label, raw, f.Rules)
	}
	return raw, v.Var(f.Label, raw, f.Rules)
}

func isTextual(k Kind) bool {
	switch k {
	case KindText, KindTextarea, KindEmail, KindURL, KindPassword, KindSelect:
		return true
	}
	return false
}

func join(base, extra string) string {
	if extra == "" {
		return base
	}
	return base + "," + extra
}
