package web

import (
	"net/http"
	"net/url"
	"strings"

	"sura/internal/adapters/http/forms"
	"sura/internal/application/orchestrators"
	"sura/internal/application/projections"
	"sura/internal/domain/identity"
)

// handleGrades renders the grade list (GET /notas). Privileged viewers may
// narrow it to one student with ?email=, which the backend filters.
// PRE: viewer is authenticated
// POST: standard viewers only see their own grades whatever ?email= says
func (s *server) handleGrades(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
	s.renderGrades(w, r, viewer, "")
}

func (s *server) renderGrades(w http.ResponseWriter, r *http.Request, viewer identity.Identity, failure string) {
	res := s.resources[forms.Grades.Resource]
	params := listQuery(res, r.URL.Query())
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if !viewer.IsPrivileged() {
		email = ""
	}

	data := s.listData(res, viewer, params, nil)
	data["Flash"] = flashMessages[r.URL.Query().Get("estado")]
	data["Failure"] = failure
	data["EmailFilter"] = viewer.IsPrivileged()
	data["Email"] = email

	extra := url.Values{}
	if email != "" {
		extra.Set("email", email)
	}
	result, err := projections.QueryListGrades(r.Context(), projections.ListGradesQuery{
		ListRecordsQuery: res.query(viewer, params, nil),
		StudentEmail:     email,
	}, projections.ListGradesDeps{Grades: s.clients.Grades})
	if err != nil {
		data["Error"] = bannerFor(r, err)
		s.render(w, r, http.StatusOK, "list.html", data)
		return
	}
	data["Rows"] = result.Rows
	data["View"] = listView{Base: res.spec.Path, Params: params, Page: result.Page, Extra: extra}
	s.render(w, r, http.StatusOK, "list.html", data)
}

// handleDeleteGrade removes one grade (POST /notas/eliminar/{id}).
// PRE: viewer is privileged
// POST: redirects to the list; a failure is shown above the list
func (s *server) handleDeleteGrade(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
	id, ok := pathID(r)
	if !ok {
		s.renderGrades(w, r, viewer, msgMissingID)
		return
	}
	err := orchestrators.ExecuteDeleteGrade(r.Context(), orchestrators.DeleteGradeInput{
		Actor:   viewer,
		ID:      id,
		Request: requestMeta(r),
	}, orchestrators.DeleteGradeDeps{Grades: s.clients.Grades, Audit: s.auditRecorder()})
	if err != nil {
		s.renderGrades(w, r, viewer, bannerFor(r, err))
		return
	}
	http.Redirect(w, r, forms.Grades.Path+"?estado=eliminado", http.StatusSeeOther)
}
