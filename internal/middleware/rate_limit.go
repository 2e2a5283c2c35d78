package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/baharkarakas/finflow-backend/internal/api/httpx"
)

type tokenBucket struct {
	tokens float64
	last   time.Time
}

// limiter keeps one bucket per client key, refilled at rate tokens/second up to burst.
// A bucket idle for a full refill interval is indistinguishable from a new one and is dropped.
type limiter struct {
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	rate      float64
	burst     float64
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newLimiter(rps int, now func() time.Time) *limiter {
	l := &limiter{
		buckets: make(map[string]*tokenBucket),
		rate:    float64(rps),
		burst:   float64(rps),
		now:     now,
	}
	l.idle = time.Duration(l.burst / l.rate * float64(time.Second))
	return l
}

func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: l.burst, last: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.rate
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
		b.last = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep runs at most once per idle interval. Caller holds mu.
func (l *limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idle {
		return
	}
	l.lastSweep = now
	for k, b := range l.buckets {
		if now.Sub(b.last) >= l.idle {
			delete(l.buckets, k)
		}
	}
}

func hostKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func userKey(r *http.Request) string {
	if uid, ok := UserID(r.Context()); ok {
		return "u:" + uid
	}
	return hostKey(r)
}

// RateLimit allows rps requests per second per remote host. rps <= 0 disables it.
func RateLimit(rps int) func(http.Handler) http.Handler {
	return rateLimit(rps, time.Now, hostKey)
}

// UserRateLimit allows rps requests per second per authenticated user and
// must be mounted after Auth. Requests without a user fall back to the host.
func UserRateLimit(rps int) func(http.Handler) http.Handler {
	return rateLimit(rps, time.Now, userKey)
}

func rateLimit(rps int, now func() time.Time, key func(*http.Request) string) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := newLimiter(rps, now)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(key(r)) {
				w.Header().Set("Retry-After", "1")
				httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
