package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	exportWriter "sura/internal/adapters/export"
	"sura/internal/adapters/http/forms"
	"sura/internal/application/orchestrators"
	"sura/internal/application/projections"
	"sura/internal/domain/attendance"
	"sura/internal/domain/export"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

// Query keys of the attendance list filters. estado shares its key with
// the flash message selector; flash values are not statuses and are ignored.
const (
	keyCourse = "curso"
	keyStatus = "estado"
)

// attendanceFilter narrows attendance by course title and presence status.
func attendanceFilter(q url.Values) (func(record.Record) bool, url.Values) {
	f := attendance.NewFilter(q.Get(keyCourse), q.Get(keyStatus))
	if f.IsZero() {
		return nil, nil
	}
	keep := url.Values{}
	if f.Course != "" {
		keep.Set(keyCourse, f.Course)
	}
	if f.Status != "" {
		keep.Set(keyStatus, f.Status)
	}
	return f.Match, keep
}

// handleAttendanceExport downloads the attendance list the viewer is looking
// at (GET /asistencias/exportar?formato=csv|xlsx|imprimir). Search, sort and
// curso/estado filter parameters are the list page's, so the file holds the
// same rows in the same order, across all pages.
// PRE: viewer is authenticated
// POST: standard viewers only export their own attendance
func (s *server) handleAttendanceExport(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
	res := s.resources[forms.Attendance.Resource]
	format := r.URL.Query().Get("formato")
	if format == "" {
		format = export.FormatCSV
	}
	if !export.IsKnownFormat(format) {
		http.Error(w, export.ErrUnknownFormat.Error(), http.StatusBadRequest)
		return
	}

	params := listQuery(res, r.URL.Query())
	match, keep := res.filters(r.URL.Query())
	records, err := projections.QueryVisibleRecords(r.Context(), res.query(viewer, params, match), projections.ListRecordsDeps{Records: res.client})
	if err != nil {
		data := s.listData(res, viewer, params, keep)
		data["Error"] = bannerFor(r, err)
		s.render(w, r, http.StatusOK, "list.html", data)
		return
	}
	rows := export.Rows(records)

	if format == export.FormatPrint {
		s.render(w, r, http.StatusOK, "asistencias_imprimir.html", map[string]any{
			"Title":   "Reporte de asistencias",
			"Header":  export.Header,
			"Rows":    rows,
			"Summary": export.Summarize(rows),
			"Date":    s.now().Format("2006-01-02"),
		})
		return
	}

	var buf bytes.Buffer
	contentType := exportWriter.ContentTypeCSV
	if format == export.FormatXLSX {
		contentType = exportWriter.ContentTypeXLSX
		err = exportWriter.WriteXLSX(&buf, rows)
	} else {
		err = exportWriter.WriteCSV(&buf, rows)
	}
	if err != nil {
		internalError(w, fmt.Errorf("export %s: %w", format, err))
		return
	}

	slog.Info("attendance_exported", "format", format, "rows", len(rows), "email", viewer.Email)
	orchestrators.ExecuteRecordExport(r.Context(), orchestrators.ExportInput{
		Actor:    viewer,
		Resource: res.spec.Resource,
		Format:   format,
		Rows:     len(rows),
		Request:  requestMeta(r),
	}, s.auditRecorder())

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(format, s.now())))
	_, _ = buf.WriteTo(w)
}
