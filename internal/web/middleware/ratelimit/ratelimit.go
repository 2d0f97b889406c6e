// Package ratelimit limits requests per client ip with token buckets.
package ratelimit

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/content-api/content-api/internal/config"
	"github.com/content-api/content-api/internal/web/handler"
)

// Limiter keeps one token bucket per client ip.
type Limiter struct {
	rps     rate.Limit
	burst   int
	buckets sync.Map // ip -> *rate.Limiter
}

// New creates a Limiter from the rate limit settings.
func New(cfg config.RateLimit) *Limiter {
	return &Limiter{
		rps:   rate.Limit(cfg.RequestsPerSecond),
		burst: cfg.Burst,
	}
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	if v, ok := l.buckets.Load(key); ok {
		return v.(*rate.Limiter) //nolint:forcetypeassert
	}

	v, _ := l.buckets.LoadOrStore(key, rate.NewLimiter(l.rps, l.burst))

	return v.(*rate.Limiter) //nolint:forcetypeassert
}

// Allow reports whether one more request from key fits into its bucket.
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// Handler rejects requests over the limit with 429.
func (l *Limiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			ip = "unknown"
		}

		if !l.Allow(ip) {
			log.Debug().Str("IP", ip).Msg("rate limit exceeded")
			c.Set(fiber.HeaderRetryAfter, "1")

			return handler.SendError(c, fiber.StatusTooManyRequests, handler.MsgRateLimitError)
		}

		return c.Next()
	}
}
