package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forexpro/backend/internal/middleware"
	"github.com/forexpro/backend/internal/model"
	"github.com/forexpro/backend/internal/service"
)

type DepositRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Method   string  `json:"method" validate:"required,oneof=crypto mpesa"`
	Currency string  `json:"currency" validate:"omitempty,currency"`
	Network  string  `json:"network" validate:"omitempty,max=20"`
	TxHash   string  `json:"txHash" validate:"omitempty,max=200"`
}

type WithdrawRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Method   string  `json:"method" validate:"required,oneof=crypto mpesa"`
	Currency string  `json:"currency" validate:"omitempty,currency"`
	Address  string  `json:"address" validate:"required,max=200"`
	Network  string  `json:"network" validate:"omitempty,max=20"`
	Password string  `json:"password" validate:"required"`
}

func (h *Handler) GetDepositAddress(c *fiber.Ctx) error {
	addr, err := h.walletSvc.DepositAddress(c.Context(), c.Query("coin"), c.Query("network"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(addr)
}

func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req DepositRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	result, err := h.walletSvc.Deposit(c.Context(), middleware.GetUserID(c), service.DepositInput{
		Amount:   req.Amount,
		Method:   req.Method,
		Currency: parseCurrency(req.Currency),
		Network:  req.Network,
		TxHash:   req.TxHash,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req WithdrawRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	t, err := h.walletSvc.Withdraw(c.Context(), middleware.GetUserID(c), service.WithdrawInput{
		Amount:   req.Amount,
		Method:   req.Method,
		Currency: parseCurrency(req.Currency),
		Address:  req.Address,
		Network:  req.Network,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Withdrawal request submitted",
		"transaction": t,
	})
}

// history serves the caller's ledger filtered by txType.
func (h *Handler) history(txType model.TransactionType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if middleware.IsDemo(c) {
			return c.JSON(fiber.Map{"transactions": []interface{}{}})
		}

		limit, offset := pagination(c)
		views, err := h.walletSvc.History(c.Context(), middleware.GetUserID(c), txType, limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"transactions": views})
	}
}

func (h *Handler) Transactions() fiber.Handler { return h.history("") }

func (h *Handler) Deposits() fiber.Handler { return h.history(model.TransactionTypeDeposit) }

func (h *Handler) Withdrawals() fiber.Handler { return h.history(model.TransactionTypeWithdraw) }

// ReferralEarnings lists the bonus transactions credited to the caller.
func (h *Handler) ReferralEarnings() fiber.Handler { return h.history(model.TransactionTypeBonus) }
