package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forexpro/backend/internal/middleware"
)

func (h *Handler) GetReferralStats(c *fiber.Ctx) error {
	stats, err := h.referralSvc.GetStats(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetReferralHistory lists the users who signed up with the caller's code.
func (h *Handler) GetReferralHistory(c *fiber.Ctx) error {
	users, err := h.referralSvc.ReferredUsers(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"referrals": users})
}
