package browser_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"sura/internal/adapters/backend"
	web "sura/internal/adapters/http"
	"sura/internal/config"
)

const (
	teacherEmail    = "profe@sura.edu"
	teacherPassword = "secreto1"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	API     *memoryAPI
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// memoryAPI is a JSON resource backend kept in memory.
type memoryAPI struct {
	mu     sync.Mutex
	data   map[string][]map[string]any
	nextID int
}

func (m *memoryAPI) seed(resource string, rows ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[resource] = append(m.data[resource], rows...)
}

func (m *memoryAPI) rows(resource string) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]any(nil), m.data[resource]...)
}

func (m *memoryAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/"), "/"), "/")
	resource := parts[0]
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && len(parts) == 1:
		rows := m.data[resource]
		if rows == nil {
			rows = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(rows)
	case r.Method == http.MethodGet:
		for _, row := range m.data[resource] {
			if fmt.Sprint(row["id"]) == parts[1] {
				_ = json.NewEncoder(w).Encode(row)
				return
			}
		}
		http.NotFound(w, r)
	case r.Method == http.MethodPost:
		raw, _ := io.ReadAll(r.Body)
		row := map[string]any{}
		if err := json.Unmarshal(raw, &row); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		m.nextID++
		row["id"] = m.nextID
		m.data[resource] = append(m.data[resource], row)
		_ = json.NewEncoder(w).Encode(row)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// newTestApp starts the app against an in-memory backend and launches Chromium.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	api := &memoryAPI{data: map[string][]map[string]any{}, nextID: 100}
	api.seed(backend.ResourceUsers, map[string]any{
		"id": 1, "nombre": "Profe Prueba", "correo": teacherEmail, "contraseña": teacherPassword, "rol": "Profesor",
	})
	backendSrv := httptest.NewServer(api)
	t.Cleanup(backendSrv.Close)

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	key := []byte("0123456789abcdef0123456789abcdef")
	cfg := config.Config{
		Env:             config.EnvDevelopment,
		SessionHashKey:  key,
		SessionBlockKey: key,
		CSRFKey:         key,
		MailFrom:        "Sura <no-reply@sura.edu>",
		RateLimit:       1000,
		TrustedOrigins: []string{
			fmt.Sprintf("127.0.0.1:%d", port),
			fmt.Sprintf("localhost:%d", port),
		},
	}
	mux, err := web.NewMux(web.Deps{
		Config:  cfg,
		Clients: web.NewClients(backendSrv.Client(), backend.APIBase(backendSrv.URL, "api")),
	})
	if err != nil {
		t.Fatalf("failed to build mux: %v", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		srv.Close()
		t.Skipf("playwright not available: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		srv.Close()
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		API:     api,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in as the seeded teacher and waits for the home page.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=correo]").Fill(teacherEmail); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=contraseña]").Fill(teacherPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/home", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to home: %v", err)
	}
}
