package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"sura/internal/adapters/backend"
	"sura/internal/adapters/email"
	"sura/internal/adapters/http/forms"
	"sura/internal/adapters/http/middleware"
	"sura/internal/adapters/http/perf"
	auditStore "sura/internal/adapters/storage/audit"
	"sura/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Clients holds one backend client per resource.
type Clients struct {
	Users         *backend.Client
	Teachers      *backend.Client
	Courses       *backend.Client
	Notifications *backend.Client
	Attendance    *backend.Client
	Enrollments   *backend.Client
	Reports       *backend.Client
	Grades        *backend.GradeClient
}

// NewClients builds every resource client over one HTTP client.
// PRE: apiBase is the versioned API root, e.g. backend.APIBase(origin, namespace)
// POST: Returns clients sharing httpClient
func NewClients(httpClient backend.Doer, apiBase string) Clients {
	return Clients{
		Users:         backend.NewClient(httpClient, apiBase, backend.ResourceUsers),
		Teachers:      backend.NewClient(httpClient, apiBase, backend.ResourceTeachers),
		Courses:       backend.NewClient(httpClient, apiBase, backend.ResourceCourses),
		Notifications: backend.NewClient(httpClient, apiBase, backend.ResourceNotifications),
		Attendance:    backend.NewClient(httpClient, apiBase, backend.ResourceAttendance),
		Enrollments:   backend.NewClient(httpClient, apiBase, backend.ResourceEnrollments),
		Reports:       backend.NewClient(httpClient, apiBase, backend.ResourceReports),
		Grades:        backend.NewGradeClient(httpClient, apiBase),
	}
}

// Deps holds everything the handlers need.
type Deps struct {
	Config    config.Config
	Clients   Clients
	Audit     auditStore.Store
	Sender    email.Sender
	Collector *perf.Collector
}

// server carries the wired dependencies of the handlers.
type server struct {
	cfg       config.Config
	clients   Clients
	audit     auditStore.Store
	sender    email.Sender
	collector *perf.Collector
	sessions  *middleware.SessionStore
	validator *forms.Validator
	pages     map[string]pageTemplate
	resources map[string]*resource
	now       func() time.Time
}

// NewMux wires HTTP handlers for the app.
// PRE: deps.Config has its session and CSRF keys set (config.Load does this)
// POST: Returns the handler with the middleware chain applied
func NewMux(deps Deps) (http.Handler, error) {
	s, err := newServer(deps)
	if err != nil {
		return nil, err
	}
	mux, err := s.routes()
	if err != nil {
		return nil, err
	}
	limiter := middleware.NewRateLimiter(deps.Config.RateLimit, time.Minute)

	// Timing is outermost, then RateLimit, Auth, CSRF, SecurityHeaders.
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(deps.Config.CSRFKey, deps.Config.IsProduction(), deps.Config.TrustedOrigins),
		middleware.Auth(s.sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(s.collector, deps.Config.SlowRequestMs),
	), nil
}

func newServer(deps Deps) (*server, error) {
	pages, err := parsePages(templateFS)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	sender := deps.Sender
	if sender == nil {
		sender = email.NewNoopSender()
	}
	collector := deps.Collector
	if collector == nil {
		collector = perf.NewCollector(perf.DefaultRingSize)
	}
	s := &server{
		cfg:       deps.Config,
		clients:   deps.Clients,
		audit:     deps.Audit,
		sender:    sender,
		collector: collector,
		sessions:  middleware.NewSessionStore(deps.Config.SessionHashKey, deps.Config.SessionBlockKey, deps.Config.IsProduction()),
		validator: forms.NewValidator(),
		pages:     pages,
		now:       time.Now,
	}
	s.resources = s.buildResources()
	return s, nil
}

// routes returns the mux with static files and every page registered.
func (s *server) routes() (*http.ServeMux, error) {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	s.registerRoutes(mux)
	return mux, nil
}
