// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"net/netip"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// clients idle this long are dropped on the next sweep
	limiterIdleTTL = 10 * time.Minute
	sweepInterval  = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. The client is the socket
// peer unless the peer is a trusted proxy, see ClientIP.
// A nil *RateLimiter lets every request through.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	proxies   []netip.Prefix
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter returns nil when rps is not positive, which disables limiting.
func NewRateLimiter(rps float64, burst int, trustedProxies []netip.Prefix) *RateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		proxies: trustedProxies,
		now:     time.Now,
	}
}

// Allow reports whether the client identified by key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	if rl == nil {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > sweepInterval {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > limiterIdleTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Wrap rejects requests over the limit with 429
func (rl *RateLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	if rl == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, rl.proxies)
		if !rl.Allow(ip) {
			slog.Warn("rate limited", "remote", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			ErrorResponse(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(w, r)
	}
}
