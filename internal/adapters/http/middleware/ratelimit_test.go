package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeClock returns a limiter whose time only moves when advance is called.
func fakeClock(rl *RateLimiter) (advance func(time.Duration)) {
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return func(d time.Duration) { now = now.Add(d) }
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	fakeClock(rl)
	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests must pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request within the interval must be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("limits are per IP")
	}
}

func TestRateLimiter_RefillsContinuously(t *testing.T) {
	rl := NewRateLimiter(60, time.Minute)
	advance := fakeClock(rl)
	for i := 0; i < 60; i++ {
		rl.Allow("a")
	}
	if rl.Allow("a") {
		t.Fatal("bucket should be empty")
	}
	advance(time.Second)
	if !rl.Allow("a") {
		t.Error("one token should be back after a second")
	}
	if rl.Allow("a") {
		t.Error("only one token should be back")
	}
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	advance := fakeClock(rl)
	rl.Allow("idle")
	advance(2 * time.Minute)
	rl.Allow("active")
	if _, ok := rl.buckets["idle"]; ok {
		t.Error("idle bucket kept after a full interval")
	}
	if len(rl.buckets) != 1 {
		t.Errorf("buckets = %d, want 1", len(rl.buckets))
	}
}

func TestRateLimiter_ZeroRateAllowsAll(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !rl.Allow("x") {
			t.Fatal("zero rate must not limit")
		}
	}
}

func TestRateLimit_OnlyCountsWrites(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	fakeClock(rl)
	h := RateLimit(rl)(okHandler(http.StatusOK))

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/cursos", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %d status = %d, want 200", i, rr.Code)
		}
	}

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "192.0.2.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}
	if rr := post(); rr.Code != http.StatusOK {
		t.Fatalf("first POST status = %d", rr.Code)
	}
	rr := post()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "3600" {
		t.Errorf("Retry-After = %q, want 3600", rr.Header().Get("Retry-After"))
	}
}

func TestClientIP(t *testing.T) {
	if got := clientIP("192.0.2.1:5555"); got != "192.0.2.1" {
		t.Errorf("clientIP = %q", got)
	}
	if got := clientIP("garbage"); got != "garbage" {
		t.Errorf("clientIP = %q", got)
	}
}
