package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sura/internal/adapters/http/forms"
	"sura/internal/adapters/http/middleware"
	"sura/internal/application/orchestrators"
	"sura/internal/domain/account"
	"sura/internal/domain/identity"
)

const (
	msgInvalidCredentials = "Correo o contraseña incorrectos"
	msgRegistered         = "Cuenta creada. Ya puedes iniciar sesión."
	msgLoggedOut          = "Sesión cerrada."
)

// handleLanding renders the public start page (GET /).
func (s *server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "inicio.html", map[string]any{"Title": "Sura"})
}

// handleUnknown sends every unmatched path to the start page.
func (s *server) handleUnknown(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLoginForm renders the login form (GET /login). A user already
// logged in goes straight to the home page.
func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.IdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, middleware.HomePath, http.StatusSeeOther)
		return
	}
	data := map[string]any{"Title": "Iniciar sesión", "Email": ""}
	switch {
	case r.URL.Query().Get("registro") == "ok":
		data["Flash"] = msgRegistered
	case r.URL.Query().Get("sesion") == "cerrada":
		data["Flash"] = msgLoggedOut
	}
	s.render(w, r, http.StatusOK, "login.html", data)
}

// handleLogin checks the credentials and opens a session (POST /login).
// POST: on success the session cookie is set and the user lands on /home;
// otherwise the form is shown again with the e-mail kept
func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Solicitud inválida", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue(identity.FieldEmail))
	password := r.PostFormValue(identity.FieldPassword)
	data := map[string]any{"Title": "Iniciar sesión", "Email": email}

	errs := forms.Errors{}
	if msg := s.validator.Var("Correo", email, "required,email"); msg != "" {
		errs[identity.FieldEmail] = msg
	}
	if msg := s.validator.Var("Contraseña", password, "required"); msg != "" {
		errs[identity.FieldPassword] = msg
	}
	if errs.Any() {
		data["Errors"] = errs
		s.render(w, r, http.StatusUnprocessableEntity, "login.html", data)
		return
	}

	id, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    email,
		Password: password,
		Request:  requestMeta(r),
	}, orchestrators.LoginDeps{Users: s.clients.Users, Audit: s.auditRecorder()})
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidCredentials) {
			data["Error"] = msgInvalidCredentials
			s.render(w, r, http.StatusUnauthorized, "login.html", data)
			return
		}
		data["Error"] = bannerFor(r, err)
		s.render(w, r, http.StatusOK, "login.html", data)
		return
	}
	if err := s.sessions.Save(w, id); err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, middleware.HomePath, http.StatusSeeOther)
}

// handleRegisterForm renders the sign-up form (GET /registro).
func (s *server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.renderRegister(w, r, http.StatusOK, forms.Defaults(forms.Registration), nil, "")
}

// handleRegister creates a user account (POST /registro).
// POST: redirects to /login?registro=ok; the password is stored hashed
func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Solicitud inválida", http.StatusBadRequest)
		return
	}
	rec, values, errs := s.validator.Decode(forms.Registration, r.PostForm)
	if errs.Any() {
		s.renderRegister(w, r, http.StatusUnprocessableEntity, values, errs, "")
		return
	}
	reg := account.Registration{
		Name:     rec.String(identity.FieldName),
		Email:    rec.String(identity.FieldEmail),
		Password: rec.String(identity.FieldPassword),
		Role:     rec.String(identity.FieldRole),
	}
	_, err := orchestrators.ExecuteRegister(r.Context(), orchestrators.RegisterInput{
		Registration: reg,
		Request:      requestMeta(r),
	}, orchestrators.RegisterDeps{Users: s.clients.Users, Audit: s.auditRecorder()})
	if err != nil {
		s.renderRegister(w, r, http.StatusOK, values, nil, registerMessage(r, err))
		return
	}
	http.Redirect(w, r, middleware.LoginPath+"?registro=ok", http.StatusSeeOther)
}

func (s *server) renderRegister(w http.ResponseWriter, r *http.Request, status int, values forms.Values, errs forms.Errors, banner string) {
	values[identity.FieldPassword] = ""
	s.render(w, r, status, "registro.html", map[string]any{
		"Title":  "Registro",
		"Spec":   forms.Registration,
		"Values": values,
		"Errors": errs,
		"Error":  banner,
	})
}

// registerMessage shows domain rule violations as they are and hides
// everything else behind the usual banners.
func registerMessage(r *http.Request, err error) string {
	for _, known := range []error{
		orchestrators.ErrEmailAlreadyExists,
		account.ErrPasswordTooShort,
		account.ErrEmptyPassword,
		account.ErrEmptyName,
		account.ErrEmptyEmail,
		identity.ErrInvalidRole,
	} {
		if errors.Is(err, known) {
			return capitalize(known.Error())
		}
	}
	return bannerFor(r, err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// handleLogout ends the session (POST /logout).
func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		orchestrators.ExecuteLogout(r.Context(), orchestrators.LogoutInput{
			Actor:   id,
			Request: requestMeta(r),
		}, s.auditRecorder())
	}
	s.sessions.Clear(w)
	slog.Debug("session_cleared", "path", r.URL.Path)
	http.Redirect(w, r, middleware.LoginPath+"?sesion=cerrada", http.StatusSeeOther)
}

// handleHome renders the start page of a logged-in user (GET /home).
func (s *server) handleHome(w http.ResponseWriter, r *http.Request, viewer identity.Identity) {
	s.render(w, r, http.StatusOK, "home.html", map[string]any{
		"Title": "Inicio",
		"Cards": navFor(viewer),
	})
}
