package middleware

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Nicolas78240/Arbitr/pkg/ratelimit"
)

// LoginRateLimit throttles credential-guessing on the login routes, keyed by
// client IP and path. A Redis outage fails open: login availability beats
// brute-force hygiene here, and the failure is logged.
func LoginRateLimit(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("%s:%s", c.IP(), c.Path())

		allowed, err := limiter.Allow(c.Context(), key)
		if err != nil {
			log.Printf("[RATELIMIT] Check failed, allowing request: %v", err)
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":      "RATE_LIMITED",
				"message":    "Too many login attempts, retry later",
				"statusCode": fiber.StatusTooManyRequests,
			})
		}

		return c.Next()
	}
}
