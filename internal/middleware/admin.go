package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forexpro/backend/internal/model"
)

const AdminIDKey = "admin_id"

// AdminOnly rejects callers whose token does not carry the admin role.
// It must run after Auth.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetRole(c) != model.RoleAdmin || GetUserID(c) == 0 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		c.Locals(AdminIDKey, GetUserID(c))
		return c.Next()
	}
}

// BlockDemo rejects demo sessions on routes that move money or change
// stored state.
func BlockDemo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IsDemo(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This action is not available in demo mode",
			})
		}
		return c.Next()
	}
}

// GetAdminID returns the admin user ID from context
func GetAdminID(c *fiber.Ctx) int64 {
	adminID, ok := c.Locals(AdminIDKey).(int64)
	if !ok {
		return 0
	}
	return adminID
}
