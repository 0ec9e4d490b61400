package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	auditStore "sura/internal/adapters/storage/audit"
	"sura/internal/application/listutil"
	auditDomain "sura/internal/domain/audit"
	"sura/internal/domain/identity"
)

// Filter options offered on the audit page.
var (
	auditCategories = []auditDomain.Category{
		auditDomain.CategorySession,
		auditDomain.CategoryRecord,
		auditDomain.CategoryNotification,
		auditDomain.CategorySecurity,
	}
	auditActions = []auditDomain.Action{
		auditDomain.ActionLogin,
		auditDomain.ActionLoginFailed,
		auditDomain.ActionLogout,
		auditDomain.ActionRegister,
		auditDomain.ActionCreate,
		auditDomain.ActionUpdate,
		auditDomain.ActionDeactivate,
		auditDomain.ActionDelete,
		auditDomain.ActionExport,
		auditDomain.ActionEmail,
	}
)

// handleAdminAudit renders the activity log (GET /admin/auditoria), newest
// first, filtered by categoria, accion, correo and recurso.
// PRE: viewer is privileged
func (s *server) handleAdminAudit(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
	q := r.URL.Query()
	filter := auditStore.Filter{
		Category:   auditDomain.Category(strings.TrimSpace(q.Get("categoria"))),
		Action:     auditDomain.Action(strings.TrimSpace(q.Get("accion"))),
		ActorEmail: strings.TrimSpace(q.Get("correo")),
		Resource:   strings.TrimSpace(q.Get("recurso")),
	}
	data := map[string]any{
		"Title":      "Auditoría",
		"Filter":     filter,
		"Categories": auditCategories,
		"Actions":    auditActions,
	}
	if s.audit == nil {
		data["Error"] = "El registro de auditoría no está disponible."
		s.render(w, r, http.StatusOK, "auditoria.html", data)
		return
	}

	ctx := r.Context()
	total, err := s.audit.Count(ctx, filter)
	if err != nil {
		internalError(w, err)
		return
	}
	pp := listutil.ParsePageParams(q)
	page := listutil.NewPageInfo(pp.Page, pp.PerPage, total)
	events, err := s.audit.List(ctx, filter, page.PerPage, page.Offset())
	if err != nil {
		internalError(w, err)
		return
	}

	extra := url.Values{}
	for key, val := range map[string]string{
		"categoria": string(filter.Category),
		"accion":    string(filter.Action),
		"correo":    filter.ActorEmail,
		"recurso":   filter.Resource,
	} {
		if val != "" {
			extra.Set(key, val)
		}
	}
	data["Events"] = events
	data["View"] = listView{
		Base:   "/admin/auditoria",
		Params: listutil.ListParams{PageParams: pp},
		Page:   page,
		Extra:  extra,
	}
	s.render(w, r, http.StatusOK, "auditoria.html", data)
}

// Windows offered on the performance page, in minutes.
var perfWindows = []int{15, 60, 360, 1440}

const (
	defaultPerfWindow = 60
	perfTopN          = 10
)

// handleAdminPerformance renders request and backend timings
// (GET /admin/rendimiento?ventana=<minutes>).
// PRE: viewer is privileged
func (s *server) handleAdminPerformance(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
	window := defaultPerfWindow
	if v, err := strconv.Atoi(r.URL.Query().Get("ventana")); err == nil {
		for _, allowed := range perfWindows {
			if v == allowed {
				window = v
			}
		}
	}
	since := s.now().Add(-time.Duration(window) * time.Minute)
	s.render(w, r, http.StatusOK, "rendimiento.html", map[string]any{
		"Title":    "Rendimiento",
		"Window":   window,
		"Windows":  perfWindows,
		"Snapshot": s.collector.Snapshot(since, perfTopN),
	})
}
