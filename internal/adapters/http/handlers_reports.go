package web

import (
	"net/http"
	"net/url"

	"sura/internal/adapters/http/forms"
	"sura/internal/application/projections"
	"sura/internal/domain/identity"
)

// handleReports renders the reports page (GET /reportes) with its academic
// and administrative tabs, selected by ?tab=.
// PRE: viewer is privileged
func (s *server) handleReports(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
	res := s.resources[forms.Reports.Resource]
	params := listQuery(res, r.URL.Query())
	data := s.listData(res, viewer, params, nil)
	data["Flash"] = flashMessages[r.URL.Query().Get("estado")]

	result, err := projections.QueryGetReports(r.Context(), projections.GetReportsQuery{
		Tab:          r.URL.Query().Get("tab"),
		Params:       params,
		SearchFields: res.spec.SearchFields(),
	}, projections.GetReportsDeps{Reports: res.client})
	if err != nil {
		data["Tab"] = projections.TabAcademic
		data["Error"] = bannerFor(r, err)
		s.render(w, r, http.StatusOK, "reportes.html", data)
		return
	}
	data["Tab"] = result.Tab
	data["Rows"] = result.Rows
	data["AcademicCount"] = result.AcademicCount
	data["AdministrativeCount"] = result.AdministrativeCount
	data["View"] = listView{Base: res.spec.Path, Params: params, Page: result.Page, Extra: url.Values{"tab": {result.Tab}}}
	s.render(w, r, http.StatusOK, "reportes.html", data)
}
