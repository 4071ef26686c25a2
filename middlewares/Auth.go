package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// UserID returns the authenticated caller set by JWTMiddleware.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok && id != 0
}
