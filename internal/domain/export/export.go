// Package export shapes attendance entries into the rows of a downloadable
// report.
package export

import (
	"errors"
	"math"
	"time"

	"sura/internal/domain/attendance"
	"sura/internal/domain/record"
)

// Format constants for export file format.
const (
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
	FormatPrint = "imprimir"
)

// ErrUnknownFormat is returned for a format other than the ones above.
var ErrUnknownFormat = errors.New("formato de exportación no soportado")

// Header is the column row of every attendance export.
var Header = []string{"ID", "Nombre", "Fecha", "Hora Entrada", "Estado"}

// Row is one exported attendance entry.
type Row struct {
	ID        string
	Name      string
	Date      string
	EntryTime string
	Status    string
}

// Cells returns the row in Header order.
func (r Row) Cells() []string {
	return []string{r.ID, r.Name, r.Date, r.EntryTime, r.Status}
}

// Present reports whether the row is marked present.
func (r Row) Present() bool {
	return r.Status == attendance.StatusPresent
}

// Rows converts attendance records in the order given.
// PRE: records are the filtered, sorted entries shown on screen
// POST: len(result) == len(records)
func Rows(records []record.Record) []Row {
	out := make([]Row, 0, len(records))
	for _, r := range records {
		out = append(out, Row{
			ID:        r.String(record.FieldID),
			Name:      r.String(attendance.FieldPersonName),
			Date:      r.String(attendance.FieldDate),
			EntryTime: r.String(attendance.FieldEntryTime),
			Status:    attendance.Status(r),
		})
	}
	return out
}

// Summary counts present and absent rows.
type Summary struct {
	Total   int
	Present int
	Absent  int
	Percent float64 // present share, one decimal
}

// Summarize counts rows by status.
// POST: Percent is 0 when rows is empty
func Summarize(rows []Row) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		if r.Present() {
			s.Present++
		}
	}
	s.Absent = s.Total - s.Present
	if s.Total > 0 {
		s.Percent = math.Round(float64(s.Present)/float64(s.Total)*1000) / 10
	}
	return s
}

// IsKnownFormat reports whether format can be produced.
func IsKnownFormat(format string) bool {
	switch format {
	case FormatCSV, FormatXLSX, FormatPrint:
		return true
	}
	return false
}

// Filename names the downloaded file after the export date.
func Filename(format string, now time.Time) string {
	return "asistencias_" + now.Format("2006-01-02") + "." + format
}
