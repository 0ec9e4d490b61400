package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"sura/internal/adapters/http/perf"
)

// RateLimiter is a per-client token bucket refilled continuously.
// Buckets idle for longer than a full refill are dropped on the next sweep,
// which runs at most once per interval from Allow itself.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	capacity  float64
	perSecond float64
	interval  time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter allows rate requests per interval and per client, with
// bursts up to rate.
// PRE: interval > 0
// POST: a rate <= 0 yields a limiter that allows everything
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		capacity:  float64(rate),
		perSecond: float64(rate) / interval.Seconds(),
		interval:  interval,
		now:       time.Now,
	}
}

// Allow takes one token from key's bucket.
// POST: false when the bucket is empty; the bucket is left untouched then
func (rl *RateLimiter) Allow(key string) bool {
	ok, _ := rl.take(key)
	return ok
}

// take returns whether a token was available and, if not, how long until one is.
func (rl *RateLimiter) take(key string) (bool, time.Duration) {
	if rl.capacity <= 0 {
		return true, 0
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.capacity, seen: now}
		rl.buckets[key] = b
	}
	b.tokens = math.Min(rl.capacity, b.tokens+now.Sub(b.seen).Seconds()*rl.perSecond)
	b.seen = now
	if b.tokens < 1 {
		wait := (1 - b.tokens) * rl.interval.Seconds() / rl.capacity
		return false, time.Duration(wait * float64(time.Second))
	}
	b.tokens--
	return true, 0
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.interval {
		return
	}
	rl.lastSweep = now
	for key, b := range rl.buckets {
		if now.Sub(b.seen) > rl.interval {
			delete(rl.buckets, key)
		}
	}
}

// RateLimit returns middleware that limits form posts per client IP.
// GET and HEAD never consume tokens.
// POST: a limited request gets 429 with Retry-After in whole seconds
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			ip := ClientIP(r)
			ok, wait := limiter.take(ip)
			if !ok {
				retry := int(math.Ceil(wait.Seconds()))
				slog.Warn("rate_limit_exceeded",
					"request_id", perf.RequestID(r.Context()),
					"ip", ip,
					"path", r.URL.Path,
					"retry_after_s", retry,
				)
				w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
				http.Error(w, "Demasiadas solicitudes, espera un momento e inténtalo de nuevo", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the address of the peer that sent r, without its port.
func ClientIP(r *http.Request) string {
	return clientIP(r.RemoteAddr)
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
