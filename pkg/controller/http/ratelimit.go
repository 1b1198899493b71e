package http

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an unused client limiter is kept
const limiterIdleTTL = 10 * time.Minute

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter holds one token bucket per client
type clientLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*clientEntry
	lastSweep time.Time
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*clientEntry),
	}
}

func (c *clientLimiter) allow(key string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) > limiterIdleTTL {
		for k, e := range c.clients {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(c.clients, k)
			}
		}
		c.lastSweep = now
	}

	entry, ok := c.clients[key]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// clientKey identifies the caller by user when authenticated, else by address
func clientKey(r *http.Request) string {
	if token, err := auth.TokenFromContext(r.Context()); err == nil && token.Email != auth.AnonymousEmail {
		return "user:" + token.Email
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

func rateLimitMiddleware(limiter *clientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.limit == rate.Inf {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.allow(clientKey(r), time.Now()) {
				retry := 1
				if limiter.limit > 0 {
					retry = max(1, int(1/float64(limiter.limit)))
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				writeJSON(r.Context(), w, http.StatusTooManyRequests, errorResponse{Error: "too many duplicate checks, slow down"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
