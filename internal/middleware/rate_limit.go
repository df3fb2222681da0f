package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/util"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. It guards the credential
// endpoints against password guessing.
//
// The client IP comes from c.RealIP(), so the echo instance must have an
// IPExtractor that only trusts proxy headers from known proxies.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	every     time.Duration
	burst     int
	idle      time.Duration
	lastSweep time.Time
	Clock     util.Clock
}

// NewRateLimiter allows perMinute requests per client, with bursts up to
// the same amount.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	every := time.Minute / time.Duration(perMinute)
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		every:   every,
		burst:   perMinute,
		// A bucket idle this long has refilled completely, so dropping it
		// loses nothing.
		idle:  every * time.Duration(perMinute),
		Clock: util.NewRealClock(),
	}
}

// Allow reports whether key may make a request now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.Clock.NowUtc()
	if now.Sub(rl.lastSweep) >= rl.idle {
		rl.sweep(now)
	}

	client, exists := rl.clients[key]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rate.Every(rl.every), rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// Clients reports how many client buckets are currently tracked.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) sweep(now time.Time) {
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) >= rl.idle {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests").SetInternal(apperrors.ErrRateLimited)
			}
			return next(c)
		}
	}
}
