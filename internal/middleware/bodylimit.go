package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// BodyLimit rejects request bodies larger than limit bytes, except on the
// listed paths which are bounded by the app-wide limit only.
func BodyLimit(limit int, except ...string) fiber.Handler {
	skip := make(map[string]bool, len(except))
	for _, p := range except {
		skip[p] = true
	}

	return func(c *fiber.Ctx) error {
		if skip[c.Path()] {
			return c.Next()
		}
		if n := c.Request().Header.ContentLength(); n > limit || len(c.Body()) > limit {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": "Request body too large",
			})
		}
		return c.Next()
	}
}
