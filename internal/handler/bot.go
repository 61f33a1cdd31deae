package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forexpro/backend/internal/middleware"
	"github.com/forexpro/backend/internal/service"
)

type PurchaseBotRequest struct {
	BotID      int64   `json:"botId" validate:"omitempty,gt=0"`
	Name       string  `json:"name" validate:"omitempty,max=100"`
	Investment float64 `json:"investment" validate:"omitempty,gt=0"`
	ImageURL   string  `json:"imageUrl" validate:"omitempty,url"`
}

type ProgressRequest struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

func (h *Handler) AvailableBots(c *fiber.Ctx) error {
	templates, err := h.botSvc.Templates(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bots": templates})
}

func (h *Handler) ListBots(c *fiber.Ctx) error {
	if middleware.IsDemo(c) {
		return c.JSON(fiber.Map{"bots": []interface{}{}})
	}

	bots, err := h.botSvc.ListUserBots(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bots": bots})
}

func (h *Handler) PurchaseBot(c *fiber.Ctx) error {
	var req PurchaseBotRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	bot, err := h.botSvc.Purchase(c.Context(), middleware.GetUserID(c), service.PurchaseInput{
		TemplateID: req.BotID,
		Name:       req.Name,
		Investment: req.Investment,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Bot purchased successfully",
		"bot":     bot,
	})
}

func (h *Handler) SetBotProgress(c *fiber.Ctx) error {
	botID, err := c.ParamsInt("id")
	if err != nil || botID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid bot id",
		})
	}

	var req ProgressRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	result, err := h.botSvc.SetProgress(c.Context(), middleware.GetUserID(c), int64(botID), *req.Progress)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *Handler) SimulateBot(c *fiber.Ctx) error {
	botID, err := c.ParamsInt("id")
	if err != nil || botID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid bot id",
		})
	}

	result, err := h.botSvc.Simulate(c.Context(), middleware.GetUserID(c), int64(botID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
