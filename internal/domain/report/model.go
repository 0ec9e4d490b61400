package report

import "sura/internal/domain/record"

// FieldType holds the report category.
const FieldType = "tipoReporte"

// Report categories
const (
	TypeAcademic       = "ACADEMICO"
	TypeAdministrative = "ADMINISTRATIVO"
)

// ValidTypes contains all report categories.
var ValidTypes = []string{TypeAcademic, TypeAdministrative}

// IsAcademic reports whether r belongs to the academic tab.
// Reports without a category are academic.
func IsAcademic(r record.Record) bool {
	t := r.String(FieldType)
	return t == TypeAcademic || t == ""
}

// IsAdministrative reports whether r belongs to the administrative tab.
func IsAdministrative(r record.Record) bool {
	return r.String(FieldType) == TypeAdministrative
}

// Split partitions reports into the academic and administrative tabs.
// Reports with any other category appear in neither.
func Split(reports []record.Record) (academic, administrative []record.Record) {
	for _, r := range reports {
		switch {
		case IsAcademic(r):
			academic = append(academic, r)
		case IsAdministrative(r):
			administrative = append(administrative, r)
		}
	}
	return academic, administrative
}
