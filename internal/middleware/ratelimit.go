package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/wanderplan/internal/config"
	"github.com/octobees/wanderplan/internal/dto"
)

// RateLimit is a token bucket that can guard several routes at once.
// A zero config disables limiting.
type RateLimit struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewRateLimit builds the bucket from cfg.
func NewRateLimit(cfg config.RateLimitConfig) *RateLimit {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return &RateLimit{}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	return &RateLimit{limiter: rate.NewLimiter(rate.Every(perRequest), cfg.Requests)}
}

func (l *RateLimit) allow() bool {
	if l.limiter == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limiter.Allow()
}

// Middleware draws from the bucket. deny answers rejected requests; nil
// answers with a JSON 429 envelope.
func (l *RateLimit) Middleware(deny echo.HandlerFunc) echo.MiddlewareFunc {
	if deny == nil {
		deny = rejectJSON
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allow() {
				return deny(c)
			}
			return next(c)
		}
	}
}

// RateLimiter applies a dedicated token bucket to the routes it is attached to.
func RateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	return NewRateLimit(cfg).Middleware(nil)
}

func rejectJSON(c echo.Context) error {
	return c.JSON(http.StatusTooManyRequests, dto.ErrorEnvelope("generation rate limit exceeded"))
}
