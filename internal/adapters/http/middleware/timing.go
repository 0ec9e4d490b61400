package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sura/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

var statusWriterPool = sync.Pool{
	New: func() any { return &statusWriter{} },
}

// Timing assigns every page request an id, times it and records it.
// The id is echoed in X-Request-ID and kept in the request context, where
// the backend transport picks it up so both log lines share request_id.
// Normal requests log at DEBUG; requests slower than slowMs log at WARN.
// Static assets pass through untouched. A nil collector only logs.
func Timing(collector *perf.Collector, slowMs int) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := float64(slowMs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := r.Header.Get(perf.RequestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}
			w.Header().Set(perf.RequestIDHeader, reqID)
			r = r.WithContext(perf.WithRequestID(r.Context(), reqID))

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0
				route := r.Method + " " + routeOf(r.URL.Path)

				event, level := "request", slog.LevelDebug
				if durationMs >= threshold {
					event, level = "slow_request", slog.LevelWarn
				}
				slog.Log(r.Context(), level, event,
					"request_id", reqID,
					"route", route,
					"status", sw.status,
					"duration_ms", durationMs,
				)

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       route,
						StatusCode: sw.status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// routeOf collapses trailing numeric ids so "/cursos/editar/12" and
// "/cursos/editar/13" aggregate as "/cursos/editar/{id}".
func routeOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 || i == len(path)-1 {
		return path
	}
	for _, c := range path[i+1:] {
		if c < '0' || c > '9' {
			return path
		}
	}
	return path[:i] + "/{id}"
}
