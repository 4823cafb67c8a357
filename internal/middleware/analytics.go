package middleware

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsMiddleware logs every request as a query_log row (grounded on
// the teacher's internal/middleware/analytics.go request-logging idiom,
// trimmed from partner billing fields to caller key id, endpoint, method,
// response status, latency and cache hit; query parameters and result
// fields are not logged).
func AnalyticsMiddleware(db *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		var keyID string
		if caller, ok := c.Locals("caller").(*CallerContext); ok {
			keyID = caller.KeyID
		}

		cacheHit := false
		if v := c.Locals("cache_hit"); v != nil {
			cacheHit = v.(bool)
		}

		go logRequest(db, keyID, c.Path(), c.Method(), c.Response().StatusCode(), int(latency.Milliseconds()), cacheHit)

		c.Set("X-Response-Time", latency.String())
		return err
	}
}

func logRequest(db *pgxpool.Pool, keyID, path, method string, status, latencyMs int, cacheHit bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.Exec(ctx, `
		INSERT INTO query_log (api_key_id, endpoint, method, response_status, latency_ms, cache_hit, created_at)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, NOW())
	`, keyID, path, method, status, latencyMs, cacheHit)
	if err != nil {
		log.Println("failed to log request:", err)
	}
}
