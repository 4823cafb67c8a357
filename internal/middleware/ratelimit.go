package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// defaultPerMinute is the single-tier request budget; the teacher's
// per-second/per-day/per-month ladder collapses to one window since
// there are no partner tiers to differentiate it by.
const defaultPerMinute = 120

// RateLimitMiddleware enforces a fixed per-minute request budget per
// caller, using a Redis counter keyed by minute bucket (grounded on the
// teacher's internal/middleware/ratelimit.go Incr+Expire idiom).
func RateLimitMiddleware(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := c.IP()
		if caller, ok := c.Locals("caller").(*CallerContext); ok {
			identity = caller.KeyID
		}

		ctx := context.Background()
		now := time.Now()
		key := fmt.Sprintf("rl:%s:%s", identity, now.Format("2006-01-02T15:04"))

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis unavailable: degrade to allowing the request through.
			return c.Next()
		}
		rdb.Expire(ctx, key, 90*time.Second)

		remaining := int64(defaultPerMinute) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(defaultPerMinute))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(defaultPerMinute) {
			c.Set("Retry-After", "60")
			return c.Status(429).JSON(fiber.Map{
				"error":       "rate_limit_exceeded",
				"message":     "Too many requests, try again shortly",
				"limit":       defaultPerMinute,
				"retry_after": 60,
			})
		}

		return c.Next()
	}
}

// ResetRateLimit clears the current minute's counter for an identity
// (admin/test helper).
func ResetRateLimit(rdb *redis.Client, identity string) error {
	ctx := context.Background()
	key := fmt.Sprintf("rl:%s:%s", identity, time.Now().Format("2006-01-02T15:04"))
	return rdb.Del(ctx, key).Err()
}
