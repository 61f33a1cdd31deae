package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/service"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// errorMappings lists the errors safe to show to clients. An empty
// message means the error text itself is shown.
var errorMappings = []errorMapping{
	{service.ErrEmailTaken, fiber.StatusBadRequest, "Email already registered"},
	{service.ErrInvalidReferralCode, fiber.StatusBadRequest, "Invalid referral code"},
	{service.ErrInvalidCredentials, fiber.StatusBadRequest, "Invalid credentials"},
	{service.ErrInsufficientBalance, fiber.StatusBadRequest, "Insufficient balance"},
	{service.ErrInvalidPassword, fiber.StatusBadRequest, "Invalid password"},
	{service.ErrPasswordMismatch, fiber.StatusBadRequest, "Passwords do not match"},
	{service.ErrInvalidAmount, fiber.StatusBadRequest, "Invalid amount"},
	{service.ErrBelowMinimum, fiber.StatusBadRequest, ""},
	{service.ErrNoActiveBots, fiber.StatusBadRequest, "You need at least one active trading bot to withdraw"},
	{service.ErrNoCompletedDeposit, fiber.StatusBadRequest, "You need at least one completed deposit to withdraw"},
	{service.ErrInvalidStatus, fiber.StatusBadRequest, "Invalid status"},
	{service.ErrInvalidMethod, fiber.StatusBadRequest, "Invalid payment method"},
	{service.ErrInvalidCoin, fiber.StatusBadRequest, "Unsupported coin or network"},
	{service.ErrInvalidImage, fiber.StatusBadRequest, "Only image files are allowed"},
	{service.ErrInvalidRate, fiber.StatusBadRequest, "Exchange rate must be positive"},
	{currency.ErrUnsupportedCurrency, fiber.StatusBadRequest, "Unsupported currency"},
	{service.ErrUserNotFound, fiber.StatusNotFound, "User not found"},
	{service.ErrTransactionNotFound, fiber.StatusNotFound, "Transaction not found"},
	{service.ErrBotNotFound, fiber.StatusNotFound, "Bot not found"},
	{service.ErrBotTemplateNotFound, fiber.StatusNotFound, "Bot not found"},
	{service.ErrDepositAddressNotFound, fiber.StatusNotFound, "Deposit address not configured"},
}

// respondError writes the client-facing form of err. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(fiber.Map{"error": msg})
		}
	}

	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Server error",
	})
}

// ErrorHandler renders errors that escape handlers, including Fiber's
// own (404 routes, body too large) in the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return respondError(c, err)
}
