package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit bounds request rate per authenticated user, falling back to the
// client IP for unauthenticated traffic. identifier namespaces the limiter so
// different route groups keep independent buckets.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			key := fmt.Sprintf("%v", c.Locals("user_id"))
			if key == "" || key == "0" || key == "<nil>" {
				key = c.IP()
			}
			return identifier + ":" + key
		},
	})
}
