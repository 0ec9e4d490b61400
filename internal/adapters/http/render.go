package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/csrf"

	"sura/internal/adapters/backend"
	"sura/internal/adapters/http/forms"
	"sura/internal/adapters/http/middleware"
	"sura/internal/adapters/markdown"
	"sura/internal/application/orchestrators"
	"sura/internal/domain/identity"
	"sura/internal/domain/record"
)

type pageTemplate = *template.Template

const layoutTemplate = "layout.html"

// funcMap holds the helpers available to every template.
var funcMap = template.FuncMap{
	"add":      func(a, b int) int { return a + b },
	"sub":      func(a, b int) int { return a - b },
	"markdown": markdown.HTML,
	"cell":     cellText,
	"field":    func(r record.Record, name string) string { return r.String(name) },
	"input":    inputData,
	"value":    func(v forms.Values, name string) string { return v[name] },
	"errorFor": func(e forms.Errors, name string) string { return e[name] },
	"recordID": func(r record.Record) int64 { id, _ := r.ID(); return id },
	"isActive": func(r record.Record, field string) bool { return r.Bool(field) },
}

// parsePages parses every page template together with the layout.
// POST: one template set per page, keyed by file name
func parsePages(fsys fs.FS) (map[string]pageTemplate, error) {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]pageTemplate, len(names))
	for _, name := range names {
		base := path.Base(name)
		if base == layoutTemplate {
			continue
		}
		tpl, err := template.New(layoutTemplate).Funcs(funcMap).ParseFS(fsys, "templates/"+layoutTemplate, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", base, err)
		}
		pages[base] = tpl
	}
	return pages, nil
}

// inputData is what the input template needs to draw one form field.
func inputData(f forms.Field, v forms.Values, e forms.Errors) map[string]any {
	return map[string]any{"Field": f, "Value": v[f.Name], "Error": e[f.Name]}
}

// cellText renders one list cell.
func cellText(r record.Record, f forms.Field) string {
	if f.Kind == forms.KindCheckbox {
		if r.Bool(f.Name) {
			return "Sí"
		}
		return "No"
	}
	return r.String(f.Name)
}

// navItem is one entry of the navigation bar and of the home page cards.
type navItem struct {
	Label          string
	Path           string
	Description    string
	PrivilegedOnly bool
}

var navItems = []navItem{
	{Label: "Usuarios", Path: "/usuarios", Description: "Ver lista de usuarios registrados en el sistema."},
	{Label: "Notificaciones", Path: "/notificaciones", Description: "Consultar notificaciones recibidas."},
	{Label: "Nueva notificación", Path: "/notificaciones/crear", Description: "Crear y enviar una notificación a usuarios.", PrivilegedOnly: true},
	{Label: "Profesores", Path: "/profesores", Description: "Consultar la información de los profesores."},
	{Label: "Cursos", Path: "/cursos", Description: "Consultar los cursos ofrecidos."},
	{Label: "Asistencias", Path: "/asistencias", Description: "Registrar y consultar asistencias por curso."},
	{Label: "Matrícula", Path: "/matricula", Description: "Consultar matrículas del período."},
	{Label: "Notas", Path: "/notas", Description: "Consultar calificaciones."},
	{Label: "Reportes", Path: "/reportes", Description: "Visualizar estadísticas y reportes del sistema.", PrivilegedOnly: true},
	{Label: "Auditoría", Path: "/admin/auditoria", Description: "Revisar la actividad registrada.", PrivilegedOnly: true},
	{Label: "Rendimiento", Path: "/admin/rendimiento", Description: "Tiempos de respuesta de la aplicación y del servidor.", PrivilegedOnly: true},
}

// navFor hides privileged-only entries from standard identities.
func navFor(id identity.Identity) []navItem {
	var out []navItem
	for _, item := range navItems {
		if item.PrivilegedOnly && !id.IsPrivileged() {
			continue
		}
		out = append(out, item)
	}
	return out
}

// render executes a page inside the layout. The identity comes from the
// context set by Auth; the navigation is built from it.
func (s *server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	tpl, ok := s.pages[name]
	if !ok {
		internalError(w, fmt.Errorf("unknown template %q", name))
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	id, loggedIn := middleware.IdentityFromContext(r.Context())
	data["Identity"] = id
	data["LoggedIn"] = loggedIn
	data["Privileged"] = loggedIn && id.IsPrivileged()
	data["Nav"] = navFor(id)
	data["CSRFField"] = csrf.TemplateField(r)
	data["CurrentPath"] = r.URL.Path

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "Error interno del servidor", http.StatusInternalServerError)
}

// Static banners shown instead of internal error details.
const (
	msgNetwork    = "No se pudo conectar con el servidor. Verifica tu conexión e inténtalo de nuevo."
	msgNotFound   = "El registro solicitado no existe."
	msgMissingID  = "El registro no tiene un identificador válido."
	msgUnexpected = "Ocurrió un error inesperado. Inténtalo de nuevo."
)

// bannerFor turns an error caught at the view boundary into a user message
// and logs the details.
func bannerFor(r *http.Request, err error) string {
	slog.Error("backend_request_failed", "path", r.URL.Path, "error", err)
	if msg, ok := backend.ValidationMessage(err); ok {
		return msg
	}
	switch {
	case backend.IsNetwork(err):
		return msgNetwork
	case backend.IsNotFound(err):
		return msgNotFound
	case errors.Is(err, record.ErrMissingID), errors.Is(err, record.ErrIdentifierOnCreate):
		return msgMissingID
	}
	return msgUnexpected
}

// requestMeta extracts the client details stored with audit events.
func requestMeta(r *http.Request) orchestrators.RequestMeta {
	return orchestrators.RequestMeta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: truncate(r.UserAgent(), 255),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
