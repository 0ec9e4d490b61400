package grade

import (
	"errors"
	"strconv"
	"strings"

	"sura/internal/domain/record"
)

// Backend field names for a grade entry.
const (
	FieldStudentName  = "nombreEstudiante"
	FieldStudentCode  = "codigoEstudiante"
	FieldStudentEmail = "emailEstudiante"
	FieldSubject      = "nombreMateria"
	FieldExamType     = "tipoExamen"
	FieldScore        = "nota"
	FieldTeacherEmail = "profesorCorreo"
)

// Score bounds on the 0-5 scale.
const (
	MinScore = 0.0
	MaxScore = 5.0
)

// Domain errors
var (
	ErrInvalidScore    = errors.New("la nota debe ser un número")
	ErrScoreOutOfRange = errors.New("la nota debe estar entre 0 y 5")
)

// ParseScore parses a score typed in a form, accepting a decimal comma.
// PRE: none
// POST: returns a score within [MinScore, MaxScore] or an error
func ParseScore(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidScore
	}
	if v < MinScore || v > MaxScore {
		return 0, ErrScoreOutOfRange
	}
	return v, nil
}

// Normalize converts the score field of a submitted grade to a number.
// PRE: r has a score field
// POST: r[FieldScore] is a float64 within range, or a *record.FieldError
// naming FieldScore is returned
func Normalize(r record.Record) (record.Record, error) {
	v, err := ParseScore(r.String(FieldScore))
	if err != nil {
		return nil, &record.FieldError{Field: FieldScore, Err: err}
	}
	out := r.Clone()
	out[FieldScore] = v
	return out, nil
}

// StampTeacher records who entered a new grade.
// POST: returns a copy with FieldTeacherEmail set to teacherEmail
func StampTeacher(r record.Record, teacherEmail string) record.Record {
	out := r.Clone()
	out[FieldTeacherEmail] = strings.TrimSpace(teacherEmail)
	return out
}
