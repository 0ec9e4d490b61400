package backend

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sura/internal/adapters/http/perf"
)

// DefaultSlowBackendMs is the default threshold for slow backend call warnings.
const DefaultSlowBackendMs = 300

// TimedTransport wraps an http.RoundTripper to log slow backend calls and
// optionally record them to a collector.
type TimedTransport struct {
	next      http.RoundTripper
	collector *perf.Collector
	threshold float64
}

// Compile-time check that *TimedTransport satisfies http.RoundTripper.
var _ http.RoundTripper = (*TimedTransport)(nil)

// NewTimedTransport wraps next (http.DefaultTransport when nil).
// PRE: none
// POST: Returns a RoundTripper that records every call to collector
func NewTimedTransport(next http.RoundTripper, collector *perf.Collector, slowMs int) *TimedTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if slowMs <= 0 {
		slowMs = DefaultSlowBackendMs
	}
	return &TimedTransport{
		next:      next,
		collector: collector,
		threshold: float64(slowMs),
	}
}

// RoundTrip performs the request and records its duration. The page
// request id in req's context, if any, is forwarded as X-Request-ID.
// PRE: req is a valid outgoing request
// POST: response returned unchanged; timing logged and recorded
func (t *TimedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqID := perf.RequestID(req.Context())
	if reqID != "" && req.Header.Get(perf.RequestIDHeader) == "" {
		// RoundTrippers must not modify the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set(perf.RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	op := req.Method + " " + resourceOf(req.URL.Path)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	event, level := "backend_call", slog.LevelDebug
	if durationMs >= t.threshold {
		event, level = "slow_backend_call", slog.LevelWarn
	}
	slog.Log(req.Context(), level, event,
		"request_id", reqID,
		"op", op,
		"status", status,
		"duration_ms", durationMs,
	)
	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindBackend,
			Path:       op,
			StatusCode: status,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
	return resp, err
}

// NewHTTPClient returns an *http.Client with the timed transport and timeout.
func NewHTTPClient(timeout time.Duration, slowMs int, collector *perf.Collector) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTimedTransport(nil, collector, slowMs),
	}
}

// resourceOf collapses ".../v1/notas/12" to "notas/{id}" so per-record
// calls aggregate under one path.
func resourceOf(path string) string {
	i := strings.Index(path, "/v1/")
	if i < 0 {
		return path
	}
	parts := strings.Split(strings.Trim(path[i+len("/v1/"):], "/"), "/")
	if len(parts) > 1 {
		return parts[0] + "/{id}"
	}
	return parts[0]
}
