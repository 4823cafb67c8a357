package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citypath/corridor/internal/apikey"
)

// CallerContext holds the identity of the authenticated caller. A single
// flat key space replaces the teacher's per-partner/per-tier context —
// this router has no billing tiers to carry.
type CallerContext struct {
	KeyID string
	Name  string
}

// AuthMiddleware validates the Authorization: Bearer <key> header against
// the api_key table.
func AuthMiddleware(db *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{
				"error":   "missing_api_key",
				"message": "API key is required. Use Authorization: Bearer YOUR_API_KEY",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{
				"error":   "invalid_auth_format",
				"message": "Authorization header must be in format: Bearer YOUR_API_KEY",
			})
		}

		rawKey := strings.TrimSpace(parts[1])
		if !strings.HasPrefix(rawKey, "pk_") {
			return c.Status(401).JSON(fiber.Map{
				"error":   "invalid_api_key_format",
				"message": "API key must start with pk_",
			})
		}

		rec, err := apikey.Validate(c.Context(), db, rawKey)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{
				"error":   "invalid_api_key",
				"message": "The provided API key is invalid, expired, or has been revoked",
			})
		}

		apikey.Touch(db, rec.ID)
		c.Locals("caller", &CallerContext{KeyID: rec.ID, Name: rec.Name})
		return c.Next()
	}
}

// OptionalAuth is like AuthMiddleware but continues unauthenticated when
// no Authorization header is present.
func OptionalAuth(db *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		return AuthMiddleware(db)(c)
	}
}
