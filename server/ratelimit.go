package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// loginLimiterConfig bounds credential-check attempts per client address.
type loginLimiterConfig struct {
	Rate  rate.Limit
	Burst int
	TTL   time.Duration
}

// defaultLoginLimiterConfig allows 10 attempts per minute with a burst of
// 10, which is generous for a human and tight for a guessing loop.
func defaultLoginLimiterConfig() loginLimiterConfig {
	return loginLimiterConfig{
		Rate:  rate.Limit(10.0 / 60.0),
		Burst: 10,
		TTL:   10 * time.Minute,
	}
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// loginLimiter keeps one token bucket per client key and drops buckets that
// have been idle past the TTL.
type loginLimiter struct {
	config   loginLimiterConfig
	mu       sync.Mutex
	limiters map[string]*limiterEntry
}

func newLoginLimiter(config loginLimiterConfig) *loginLimiter {
	return &loginLimiter{
		config:   config,
		limiters: make(map[string]*limiterEntry),
	}
}

// Allow reports whether key may attempt another login right now.
func (l *loginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for existing, entry := range l.limiters {
		if now.Sub(entry.lastAccess) > l.config.TTL {
			delete(l.limiters, existing)
		}
	}

	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.config.Rate, l.config.Burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = now
	return entry.limiter.Allow()
}

// limitLogins applies the per-address limiter to the login route.
func (s *Server) limitLogins(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "too many login attempts, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
