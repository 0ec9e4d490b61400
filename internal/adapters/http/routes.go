package web

import (
	"net/http"

	"sura/internal/adapters/http/forms"
	"sura/internal/adapters/http/middleware"
)

// registerRoutes maps every page to its handler and access requirement.
func (s *server) registerRoutes(mux *http.ServeMux) {
	authed := func(v middleware.View) http.Handler { return middleware.Guard(middleware.AnyAuthenticated, v) }
	priv := func(v middleware.View) http.Handler { return middleware.Guard(middleware.PrivilegedOnly, v) }

	// Public
	mux.HandleFunc("GET /{$}", s.handleLanding)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /registro", s.handleRegisterForm)
	mux.HandleFunc("POST /registro", s.handleRegister)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("/", s.handleUnknown)

	mux.Handle("GET /home", authed(s.handleHome))

	// Resource lists are open to every session; writes are privileged.
	for _, res := range s.resources {
		base := res.spec.Path
		switch res.spec.Resource {
		case forms.Grades.Resource:
			mux.Handle("GET "+base, authed(s.handleGrades))
			mux.Handle("POST "+base+"/eliminar/{id}", priv(s.handleDeleteGrade))
		case forms.Reports.Resource:
			mux.Handle("GET "+base, priv(s.handleReports))
		default:
			mux.Handle("GET "+base, authed(s.handleList(res)))
		}
		if res.spec.Resource == forms.Users.Resource {
			continue
		}
		mux.Handle("GET "+base+"/crear", priv(s.handleNewForm(res)))
		mux.Handle("POST "+base+"/crear", priv(s.handleCreate(res)))
		if res.editable {
			mux.Handle("GET "+base+"/editar/{id}", priv(s.handleEditForm(res)))
			mux.Handle("POST "+base+"/editar/{id}", priv(s.handleUpdate(res)))
		}
		if res.deactivateField != "" {
			mux.Handle("POST "+base+"/desactivar/{id}", priv(s.handleDeactivate(res)))
		}
	}
	mux.Handle("GET "+forms.Attendance.Path+"/exportar", authed(s.handleAttendanceExport))

	// Admin
	mux.Handle("GET /admin/auditoria", priv(s.handleAdminAudit))
	mux.Handle("GET /admin/rendimiento", priv(s.handleAdminPerformance))
}
