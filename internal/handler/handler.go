package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forexpro/backend/internal/service"
)

type Handler struct {
	authSvc     *service.AuthService
	profileSvc  *service.ProfileService
	referralSvc *service.ReferralService
	botSvc      *service.BotService
	walletSvc   *service.WalletService
	ratesSvc    *service.RatesService
	health      *service.HealthWorker
}

func New(
	authSvc *service.AuthService,
	profileSvc *service.ProfileService,
	referralSvc *service.ReferralService,
	botSvc *service.BotService,
	walletSvc *service.WalletService,
	ratesSvc *service.RatesService,
	health *service.HealthWorker,
) *Handler {
	return &Handler{
		authSvc:     authSvc,
		profileSvc:  profileSvc,
		referralSvc: referralSvc,
		botSvc:      botSvc,
		walletSvc:   walletSvc,
		ratesSvc:    ratesSvc,
		health:      health,
	}
}

// Health reports the last background database check.
func (h *Handler) Health(c *fiber.Ctx) error {
	if h.health == nil {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	status := h.health.Status()
	if status.Database == "down" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"database": status,
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": status,
	})
}

func (h *Handler) GetRates(c *fiber.Ctx) error {
	return c.JSON(h.ratesSvc.GetRates(c.Context()))
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	return c.QueryInt("limit", 0), c.QueryInt("offset", 0)
}
