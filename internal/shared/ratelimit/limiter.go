package ratelimit

import (
	"context"
	"time"

	"cardvault/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// Default admission policy: 10 requests per client per minute.
const (
	DefaultMaxRequests = 10
	DefaultWindow      = time.Minute
)

// Limiter decides whether a request from the given client key is admitted.
// Denial is an ordinary outcome, not an error; the error return is reserved for
// backend failures (e.g. an unreachable Redis instance).
type Limiter interface {
	Allow(ctx context.Context, clientKey string) (bool, error)
}

// Middleware returns a Fiber handler that gates all inbound traffic through the
// provided limiter, keyed by client network address. Backend failures fail open:
// admission control protects capacity, it must not take the API down with it.
func Middleware(limiter Limiter, log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-Forwarded-For", c.IP())

		allowed, err := limiter.Allow(c.UserContext(), key)
		if err != nil {
			log.WithComponent("ratelimit").Warnf("limiter backend error, failing open: %v", err)
			return c.Next()
		}
		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		}
		return c.Next()
	}
}
