package middleware

import "github.com/gofiber/fiber/v2"

const StoreUnavailableMessage = "Database client not initialized. Check environment variables."

// RequireStore answers 500 on every request while the database is not available.
func RequireStore(ready func() bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !ready() {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": StoreUnavailableMessage})
		}
		return c.Next()
	}
}
