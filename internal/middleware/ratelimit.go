package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	log "github.com/sirupsen/logrus"
)

// RateLimit allows max requests per client IP within window. Counters
// live in store so several service processes can share them.
func RateLimit(store fiber.Storage, prefix string, max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    store,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "ratelimit:" + prefix + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Warnf("Rate limit %s reached by %s on %s", prefix, c.IP(), c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": message,
			})
		},
	})
}
