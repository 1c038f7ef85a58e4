// middleware/auth.go
package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the identity the Gateway forwards as
// headers. Identity/session lifecycle lives entirely in the gateway; this
// service only ever sees a stable user id and a display name.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		c.Locals("user_id", userID)
		c.Locals("username", c.Get("X-User-Name"))
		return c.Next()
	}
}
