package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forexpro/backend/internal/middleware"
	"github.com/forexpro/backend/internal/model"
	"github.com/forexpro/backend/internal/service"
)

type SignupRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8,max=72"`
	Currency     string  `json:"currency" validate:"required,currency"`
	Phone        *string `json:"phone" validate:"omitempty,max=20"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
	ReferralCode string  `json:"referralCode" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	session, err := h.authSvc.Signup(c.Context(), service.SignupInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Currency:     parseCurrency(req.Currency),
		Phone:        req.Phone,
		Country:      req.Country,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	session, err := h.authSvc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(session)
}

// Demo starts a throwaway demo session. Nothing is stored.
func (h *Handler) Demo(c *fiber.Ctx) error {
	session, err := h.authSvc.Demo()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(session)
}

// Me returns the caller, or the demo stub for demo sessions.
func (h *Handler) Me(c *fiber.Ctx) error {
	if middleware.IsDemo(c) {
		return c.JSON(fiber.Map{"user": demoUser(c)})
	}

	profile, err := h.profileSvc.GetProfile(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": profile})
}

func demoUser(c *fiber.Ctx) *model.DemoUser {
	return model.NewDemoUser(middleware.GetDemoID(c))
}
