package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/example/morning-report/internal/platform/api"
	"github.com/example/morning-report/internal/platform/httpserver"
)

// PerIP keeps one token bucket per client address.
type PerIP struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rate    rate.Limit
	burst   int
}

// NewPerIP allows rps requests per second per client with the given burst.
func NewPerIP(rps float64, burst int) *PerIP {
	if burst < 1 {
		burst = 1
	}
	return &PerIP{buckets: make(map[string]*rate.Limiter), rate: rate.Limit(rps), burst: burst}
}

func (p *PerIP) allow(key string) bool {
	p.mu.Lock()
	l, ok := p.buckets[key]
	if !ok {
		l = rate.NewLimiter(p.rate, p.burst)
		p.buckets[key] = l
	}
	p.mu.Unlock()
	return l.Allow()
}

// Middleware answers 429 once a client has spent its burst.
func (p *PerIP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !p.allow(clientIP(r)) {
			api.RateLimited(w, "RATE_LIMITED", "Too many requests", httpserver.RequestIDFromContext(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop, then RemoteAddr without
// its port.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
