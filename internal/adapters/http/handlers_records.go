package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sura/internal/adapters/http/forms"
	"sura/internal/adapters/http/middleware"
	"sura/internal/application/listutil"
	"sura/internal/application/orchestrators"
	"sura/internal/application/projections"
	"sura/internal/domain/attendance"
	"sura/internal/domain/grade"
	"sura/internal/domain/identity"
	"sura/internal/domain/notification"
	"sura/internal/domain/record"
	"sura/internal/domain/visibility"
)

// recordClient is the part of a backend client the generic views use.
// Both *backend.Client and *backend.GradeClient satisfy it.
type recordClient interface {
	projections.RecordLister
	orchestrators.RecordReadWriter
}

// resource binds a form definition to its backend client and to the
// behaviour that differs between resources.
type resource struct {
	spec            forms.Spec
	client          recordClient
	owner           *visibility.Owner // nil when every viewer sees every record
	newestFirst     bool
	editable        bool
	deactivateField string
	deletable       bool
	exportable      bool
	bodyField       string // rendered as Markdown in the list

	// normalize runs after validation on both create and update. A
	// *record.FieldError is shown next to its field.
	normalize func(record.Record) (record.Record, error)
	// beforeCreate fills server-side fields of a new record.
	beforeCreate func(r record.Record, actor identity.Identity, now time.Time) record.Record
	// filter reads the resource's own list filters from the query. It
	// returns the matcher and the values every list link must keep.
	filter func(q url.Values) (match func(record.Record) bool, keep url.Values)
	// afterCreate runs once the backend stored a new record.
	afterCreate func(r *http.Request, actor identity.Identity, saved record.Record)
}

// Flash messages selected by the estado query parameter after a redirect.
var flashMessages = map[string]string{
	"creado":      "Registro creado correctamente.",
	"actualizado": "Registro actualizado correctamente.",
	"desactivado": "Registro desactivado correctamente.",
	"eliminado":   "Registro eliminado correctamente.",
}

func (s *server) buildResources() map[string]*resource {
	c := s.clients
	list := []*resource{
		{spec: forms.Users, client: c.Users},
		{
			spec: forms.Notifications, client: c.Notifications, editable: true, bodyField: notification.FieldBody,
			beforeCreate: stampNotification, afterCreate: s.notify,
		},
		{spec: forms.Teachers, client: c.Teachers, editable: true, deactivateField: forms.FieldTeacherActive},
		{spec: forms.Courses, client: c.Courses, editable: true, deactivateField: forms.FieldCourseActive},
		{
			spec: forms.Attendance, client: c.Attendance, owner: &visibility.AttendanceOwner, newestFirst: true, exportable: true,
			normalize: attendance.Normalize, filter: attendanceFilter,
		},
		{spec: forms.Enrollments, client: c.Enrollments, owner: &visibility.EnrollmentOwner, editable: true},
		{
			spec: forms.Grades, client: c.Grades, owner: &visibility.GradeOwner, editable: true, deletable: true,
			normalize: grade.Normalize, beforeCreate: stampTeacher,
		},
		{spec: forms.Reports, client: c.Reports, editable: true},
	}
	out := make(map[string]*resource, len(list))
	for _, res := range list {
		out[res.spec.Resource] = res
	}
	return out
}

func stampNotification(r record.Record, _ identity.Identity, now time.Time) record.Record {
	return notification.Stamp(r, now)
}

func stampTeacher(r record.Record, actor identity.Identity, _ time.Time) record.Record {
	return grade.StampTeacher(r, actor.Email)
}

// listQuery parses the list parameters a resource accepts.
func listQuery(res *resource, q url.Values) listutil.ListParams {
	sortable := append([]string{record.FieldID}, res.spec.SearchFields()...)
	return listutil.ParseListParams(q, sortable)
}

// filters parses the resource's list filters. Both results are nil when
// the resource has none or none was asked for.
func (res *resource) filters(q url.Values) (func(record.Record) bool, url.Values) {
	if res.filter == nil {
		return nil, nil
	}
	return res.filter(q)
}

func (res *resource) query(viewer identity.Identity, params listutil.ListParams, match func(record.Record) bool) projections.ListRecordsQuery {
	return projections.ListRecordsQuery{
		Viewer:       viewer,
		Owner:        res.owner,
		Params:       params,
		SearchFields: res.spec.SearchFields(),
		NewestFirst:  res.newestFirst,
		Match:        match,
	}
}

// handleList renders the list page of a resource (GET /{resource}).
// PRE: viewer is authenticated
// POST: personal resources show only the viewer's records unless privileged
func (s *server) handleList(res *resource) middleware.View {
	return func(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
		s.renderList(w, r, viewer, res, "")
	}
}

// renderList loads and renders a list page. A non-empty failure is shown
// above the table, e.g. when a deactivate action failed.
func (s *server) renderList(w http.ResponseWriter, r *http.Request, viewer identity.Identity, res *resource, failure string) {
	params := listQuery(res, r.URL.Query())
	match, keep := res.filters(r.URL.Query())
	data := s.listData(res, viewer, params, keep)
	data["Flash"] = flashMessages[r.URL.Query().Get("estado")]
	data["Failure"] = failure

	result, err := projections.QueryListRecords(r.Context(), res.query(viewer, params, match), projections.ListRecordsDeps{Records: res.client})
	if err != nil {
		data["Error"] = bannerFor(r, err)
		s.render(w, r, http.StatusOK, "list.html", data)
		return
	}
	data["Rows"] = result.Rows
	data["View"] = listView{Base: res.spec.Path, Params: params, Page: result.Page, Extra: keep}
	s.render(w, r, http.StatusOK, "list.html", data)
}

// listData holds the template values shared by every list page. filters
// are the resource filters in effect, kept on the page's links.
func (s *server) listData(res *resource, viewer identity.Identity, params listutil.ListParams, filters url.Values) map[string]any {
	privileged := viewer.IsPrivileged()
	return map[string]any{
		"Title":           res.spec.Title,
		"Spec":            res.spec,
		"Columns":         res.spec.Columns(),
		"BodyField":       res.bodyField,
		"Params":          params,
		"View":            listView{Base: res.spec.Path, Params: params, Extra: filters},
		"Filterable":      res.filter != nil,
		"Filters":         filters,
		"CanCreate":       privileged && res.spec.Resource != forms.Users.Resource,
		"CanEdit":         privileged && res.editable,
		"CanDelete":       privileged && res.deletable,
		"DeactivateField": deactivateFor(res, privileged),
		"Exportable":      res.exportable,
	}
}

func deactivateFor(res *resource, privileged bool) string {
	if !privileged {
		return ""
	}
	return res.deactivateField
}

// handleNewForm renders an empty create form (GET /{resource}/crear).
func (s *server) handleNewForm(res *resource) middleware.View {
	return func(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
		s.renderForm(w, r, http.StatusOK, res, formState{
			Action: res.spec.Path + "/crear",
			Values: forms.Defaults(res.spec),
		})
	}
}

// handleCreate validates and stores a new record (POST /{resource}/crear).
// PRE: viewer is privileged
// POST: redirects to the list on success; otherwise the form is shown again
// with the submitted values and the reason
func (s *server) handleCreate(res *resource) middleware.View {
	return func(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
		state := formState{Action: res.spec.Path + "/crear"}
		rec, ok := s.decodeForm(w, r, res, &state)
		if !ok {
			return
		}
		if res.beforeCreate != nil {
			rec = res.beforeCreate(rec, viewer, s.now())
		}
		saved, err := orchestrators.ExecuteSaveRecord(r.Context(), orchestrators.SaveRecordInput{
			Actor:     viewer,
			Resource:  res.spec.Resource,
			Operation: record.Create(rec),
			Request:   requestMeta(r),
		}, orchestrators.SaveRecordDeps{Records: res.client, Audit: s.auditRecorder()})
		if err != nil {
			state.Error = bannerFor(r, err)
			s.renderForm(w, r, http.StatusOK, res, state)
			return
		}
		if res.afterCreate != nil {
			res.afterCreate(r, viewer, saved)
		}
		http.Redirect(w, r, res.spec.Path+"?estado=creado", http.StatusSeeOther)
	}
}

// handleEditForm renders the edit form of one record (GET /{resource}/editar/{id}).
// POST: an unknown id renders the not-found message without a form
func (s *server) handleEditForm(res *resource) middleware.View {
	return func(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
		id, ok := pathID(r)
		state := formState{Action: res.spec.Path + "/editar/" + r.PathValue("id"), Editing: true}
		if !ok {
			state.Error, state.Missing = msgMissingID, true
			s.renderForm(w, r, http.StatusNotFound, res, state)
			return
		}
		existing, err := res.client.GetByID(r.Context(), id)
		if err != nil {
			state.Error, state.Missing = bannerFor(r, err), true
			s.renderForm(w, r, http.StatusOK, res, state)
			return
		}
		state.Values = forms.FromRecord(res.spec, existing)
		s.renderForm(w, r, http.StatusOK, res, state)
	}
}

// handleUpdate stores the edited record (POST /{resource}/editar/{id}).
// The submitted fields are merged over the stored record so that fields the
// form does not show are sent back unchanged.
// PRE: viewer is privileged
// POST: the record keeps its id
func (s *server) handleUpdate(res *resource) middleware.View {
	return func(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
		state := formState{Action: res.spec.Path + "/editar/" + r.PathValue("id"), Editing: true}
		id, ok := pathID(r)
		if !ok {
			state.Error, state.Missing = msgMissingID, true
			s.renderForm(w, r, http.StatusNotFound, res, state)
			return
		}
		rec, ok := s.decodeForm(w, r, res, &state)
		if !ok {
			return
		}
		existing, err := res.client.GetByID(r.Context(), id)
		if err != nil {
			state.Error = bannerFor(r, err)
			s.renderForm(w, r, http.StatusOK, res, state)
			return
		}
		merged := existing.Clone()
		for k, v := range rec {
			merged[k] = v
		}
		_, err = orchestrators.ExecuteSaveRecord(r.Context(), orchestrators.SaveRecordInput{
			Actor:     viewer,
			Resource:  res.spec.Resource,
			Operation: record.Update(merged, id),
			Request:   requestMeta(r),
		}, orchestrators.SaveRecordDeps{Records: res.client, Audit: s.auditRecorder()})
		if err != nil {
			state.Error = bannerFor(r, err)
			s.renderForm(w, r, http.StatusOK, res, state)
			return
		}
		http.Redirect(w, r, res.spec.Path+"?estado=actualizado", http.StatusSeeOther)
	}
}

// handleDeactivate clears the resource's active flag (POST /{resource}/desactivar/{id}).
// PRE: viewer is privileged; res has a deactivate field
func (s *server) handleDeactivate(res *resource) middleware.View {
	return func(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
		id, ok := pathID(r)
		if !ok {
			s.renderList(w, r, viewer, res, msgMissingID)
			return
		}
		_, err := orchestrators.ExecuteDeactivate(r.Context(), orchestrators.DeactivateInput{
			Actor:    viewer,
			Resource: res.spec.Resource,
			ID:       id,
			Field:    res.deactivateField,
			Request:  requestMeta(r),
		}, orchestrators.DeactivateDeps{Records: res.client, Audit: s.auditRecorder()})
		if err != nil {
			s.renderList(w, r, viewer, res, bannerFor(r, err))
			return
		}
		http.Redirect(w, r, res.spec.Path+"?estado=desactivado", http.StatusSeeOther)
	}
}

// formState is what a form page shows besides the field definitions.
type formState struct {
	Action  string
	Values  forms.Values
	Errors  forms.Errors
	Error   string // banner above the form
	Missing bool   // the record could not be loaded; no form is shown
	Editing bool
}

// decodeForm parses and validates the submitted form. When it fails the
// form has already been rendered again and ok is false.
func (s *server) decodeForm(w http.ResponseWriter, r *http.Request, res *resource, state *formState) (record.Record, bool) {
	if err := r.ParseForm(); err != nil {
		state.Error = msgUnexpected
		s.renderForm(w, r, http.StatusBadRequest, res, *state)
		return nil, false
	}
	rec, values, errs := s.validator.Decode(res.spec, r.PostForm)
	state.Values, state.Errors = values, errs
	if !errs.Any() && res.normalize != nil {
		var err error
		if rec, err = res.normalize(rec); err != nil {
			var fe *record.FieldError
			if errors.As(err, &fe) {
				errs = forms.Errors{fe.Field: fe.Error()}
				state.Errors = errs
			} else {
				state.Error = err.Error()
				s.renderForm(w, r, http.StatusUnprocessableEntity, res, *state)
				return nil, false
			}
		}
	}
	if errs.Any() {
		s.renderForm(w, r, http.StatusUnprocessableEntity, res, *state)
		return nil, false
	}
	return rec, true
}

func (s *server) renderForm(w http.ResponseWriter, r *http.Request, status int, res *resource, state formState) {
	data := map[string]any{
		"Title":  formTitle(res.spec, state.Editing),
		"Spec":   res.spec,
		"Form":   state,
		"Values": state.Values,
		"Errors": state.Errors,
	}
	if state.Values == nil {
		data["Values"] = forms.Values{}
	}
	if res.spec.Resource == forms.Grades.Resource && !state.Missing {
		data["Students"] = s.studentSuggestions(r.Context())
	}
	s.render(w, r, status, "form.html", data)
}

func formTitle(spec forms.Spec, editing bool) string {
	if editing {
		return "Editar " + spec.Singular
	}
	return "Crear " + spec.Singular
}

// studentSuggestions lists student identities for the grade form's datalist.
// A failure only loses the suggestions.
func (s *server) studentSuggestions(ctx context.Context) []identity.Identity {
	students, err := projections.QueryGetStudents(ctx, s.clients.Users)
	if err != nil {
		return nil
	}
	return students
}

// auditRecorder returns the activity log, or nil when none is configured.
func (s *server) auditRecorder() orchestrators.AuditRecorder {
	if s.audit == nil {
		return nil
	}
	return s.audit
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
