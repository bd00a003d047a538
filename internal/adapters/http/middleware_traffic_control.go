package httpadapter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/docmindhq/docmind/internal/observability/metrics"
)

const (
	defaultBackpressureWait = 100 * time.Millisecond

	// Idle limiter entries are dropped so the per-client map stays bounded
	// under many distinct client IPs.
	limiterIdleTTL    = 3 * time.Minute
	limiterSweepEvery = time.Minute
)

// clientLimiters hands out one token bucket per client key and sweeps
// entries that have been idle longer than limiterIdleTTL.
type clientLimiters struct {
	rps   int
	burst int

	mu        sync.Mutex
	entries   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(rps, burst int) *clientLimiters {
	if burst < rps {
		burst = rps
	}
	return &clientLimiters{
		rps:     rps,
		burst:   burst,
		entries: map[string]*clientLimiter{},
		now:     time.Now,
	}
}

func (l *clientLimiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	entry, ok := l.entries[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func (l *clientLimiters) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < limiterSweepEvery {
		return
	}
	l.lastSweep = now
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(l.entries, key)
		}
	}
}

// rateLimitMiddleware applies a token-bucket limit per client IP.
func rateLimitMiddleware(next http.Handler, rps, burst int, m *metrics.HTTPServerMetrics) http.Handler {
	limiters := newClientLimiters(rps, burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			key = host
		}

		if !limiters.get(key).Allow() {
			if m != nil {
				m.RecordRateLimited("api", "rate_limit")
			}
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// backpressureMiddleware bounds the number of in-flight requests. Requests
// that cannot acquire a slot within wait are rejected with 503.
func backpressureMiddleware(next http.Handler, maxInFlight int, wait time.Duration) http.Handler {
	slots := make(chan struct{}, maxInFlight)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case slots <- struct{}{}:
			defer func() { <-slots }()
			next.ServeHTTP(w, r)
		case <-timer.C:
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "server overloaded, try again later"})
		case <-r.Context().Done():
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "request cancelled"})
		}
	})
}
