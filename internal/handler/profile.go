package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/forexpro/backend/internal/config"
	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/middleware"
	"github.com/forexpro/backend/internal/service"
)

type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Country  *string `json:"country" validate:"omitempty,max=100"`
	Currency *string `json:"currency" validate:"omitempty,currency"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	if middleware.IsDemo(c) {
		return h.Me(c)
	}

	profile, err := h.profileSvc.GetProfile(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	upd := service.ProfileUpdate{Name: req.Name, Phone: req.Phone, Country: req.Country}
	if req.Currency != nil {
		cur := parseCurrency(*req.Currency)
		upd.Currency = &cur
	}

	user, err := h.profileSvc.UpdateProfile(c.Context(), middleware.GetUserID(c), upd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	err := h.profileSvc.ChangePassword(c.Context(), middleware.GetUserID(c), req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// UploadProfileImage accepts a multipart "profileImage" file of at most
// config.MaxProfileImage bytes.
func (h *Handler) UploadProfileImage(c *fiber.Ctx) error {
	file, err := c.FormFile("profileImage")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No image uploaded",
		})
	}

	if file.Size > config.MaxProfileImage {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image must be 3MB or smaller",
		})
	}
	if !strings.HasPrefix(file.Header.Get(fiber.HeaderContentType), "image/") {
		return respondError(c, service.ErrInvalidImage)
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer src.Close()

	url, err := h.profileSvc.SaveProfileImage(c.Context(), middleware.GetUserID(c), file.Filename, src)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profileImage": url})
}

func (h *Handler) GetReferralBonuses(c *fiber.Ctx) error {
	bonuses, err := h.referralSvc.Bonuses(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bonuses": bonuses})
}

func (h *Handler) GetReferredUsers(c *fiber.Ctx) error {
	users, err := h.referralSvc.ReferredUsers(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"referredUsers": users})
}

// DashboardSummary returns balance, bots and recent activity in one call.
// Demo sessions get the demo account with no activity.
func (h *Handler) DashboardSummary(c *fiber.Ctx) error {
	if middleware.IsDemo(c) {
		return c.JSON(fiber.Map{
			"profile":            demoProfile(c),
			"bots":               []interface{}{},
			"recentTransactions": []interface{}{},
		})
	}

	summary, err := h.profileSvc.Summary(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

func demoProfile(c *fiber.Ctx) fiber.Map {
	return fiber.Map{
		"user":             demoUser(c),
		"formattedBalance": currency.Format(currency.DemoBalance.In(currency.USD), currency.USD),
	}
}
