package middleware

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// OwnerRateLimiter throttles query traffic per calendar owner so that one
// noisy client cannot starve the others. Owners are identified by the
// ownerId field in the request; requests without one share a single bucket.
type OwnerRateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter
	perSec rate.Limit
	burst  int
}

// NewOwnerRateLimiter creates a limiter allowing perSec requests per second
// per owner with the given burst.
func NewOwnerRateLimiter(perSec float64, burst int) *OwnerRateLimiter {
	return &OwnerRateLimiter{
		limits: make(map[string]*rate.Limiter),
		perSec: rate.Limit(perSec),
		burst:  burst,
	}
}

func (rl *OwnerRateLimiter) limiterFor(owner string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[owner]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.perSec, rl.burst)
	rl.limits[owner] = limiter
	return limiter
}

// Allow reports whether a request for the given owner may proceed now.
func (rl *OwnerRateLimiter) Allow(owner string) bool {
	return rl.limiterFor(owner).Allow()
}

// Middleware rejects over-limit requests with 429. The owner is taken from
// the ownerId query parameter when present; POST bodies carry the owner in
// JSON, so body-based endpoints fall back to the client IP.
func (rl *OwnerRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.QueryParam("ownerId")
			if key == "" {
				key = c.RealIP()
			}
			if !rl.Allow(key) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"code":    "RATE_LIMITED",
					"message": "too many requests, retry later",
				})
			}
			return next(c)
		}
	}
}
