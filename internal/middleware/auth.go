package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/forexpro/backend/internal/model"
	"github.com/forexpro/backend/internal/token"
)

const (
	UserIDKey = "user_id"
	RoleKey   = "role"
	DemoIDKey = "demo_id"
)

// Auth verifies the bearer token and stores the caller's identity in locals.
func Auth(tokens *token.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Access token required",
			})
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(RoleKey, claims.Role)
		if claims.DemoID != "" {
			c.Locals(DemoIDKey, claims.DemoID)
		}

		return c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// GetUserID returns the user ID from context
func GetUserID(c *fiber.Ctx) int64 {
	userID, ok := c.Locals(UserIDKey).(int64)
	if !ok {
		return 0
	}
	return userID
}

func GetRole(c *fiber.Ctx) model.Role {
	role, _ := c.Locals(RoleKey).(model.Role)
	return role
}

// GetDemoID returns the demo session id, empty for stored users.
func GetDemoID(c *fiber.Ctx) string {
	id, _ := c.Locals(DemoIDKey).(string)
	return id
}

func IsDemo(c *fiber.Ctx) bool {
	return GetRole(c) == model.RoleDemo
}
