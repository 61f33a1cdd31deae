package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/forexpro/backend/internal/middleware"
	"github.com/forexpro/backend/internal/model"
	"github.com/forexpro/backend/internal/service"
)

// AdminHandler handles admin panel requests
type AdminHandler struct {
	adminSvc *service.AdminService
	authSvc  *service.AuthService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminSvc *service.AdminService, authSvc *service.AuthService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, authSvc: authSvc}
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an admin by email. Any failure is a plain 401.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	email := req.Email
	if email == "" {
		email = req.Username
	}

	session, err := h.authSvc.AdminLogin(c.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warnf("Failed admin login for %q from %s", email, c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}
		return respondError(c, err)
	}
	return c.JSON(session)
}

// --- Stats ---

// GetStats returns admin dashboard statistics
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.adminSvc.GetStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// --- User Management ---

type ListUsersResponse struct {
	Users []model.User `json:"users"`
	Total int          `json:"total"`
}

// ListUsers lists users with pagination
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	users, total, err := h.adminSvc.ListUsers(c.Context(), c.Query("search"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(ListUsersResponse{
		Users: users,
		Total: total,
	})
}

func userIDParam(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	return int64(id), err == nil && id > 0
}

// GetUser gets detailed user info
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	targetUserID, ok := userIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	user, err := h.adminSvc.GetUser(c.Context(), targetUserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

type SetBalanceRequest struct {
	Balance *float64 `json:"balance" validate:"required,gte=0"`
}

// SetBalance sets user balance to a specific value
func (h *AdminHandler) SetBalance(c *fiber.Ctx) error {
	targetUserID, ok := userIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	var req SetBalanceRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.adminSvc.SetBalance(c.Context(), middleware.GetAdminID(c), targetUserID, *req.Balance); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

type VerifyUserRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

func (h *AdminHandler) VerifyUser(c *fiber.Ctx) error {
	targetUserID, ok := userIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	var req VerifyUserRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.adminSvc.SetVerified(c.Context(), middleware.GetAdminID(c), targetUserID, *req.Verified); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// --- Transactions ---

func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	txs, err := h.adminSvc.ListTransactions(c.Context(),
		model.TransactionStatus(c.Query("status")),
		model.TransactionType(c.Query("type")),
		limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": txs})
}

func (h *AdminHandler) PendingWithdrawals(c *fiber.Ctx) error {
	txs, err := h.adminSvc.PendingWithdrawals(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"withdrawals": txs})
}

type UpdateTransactionRequest struct {
	Status string `json:"status" validate:"required,oneof=completed failed"`
}

// UpdateTransaction settles a pending deposit or withdrawal.
func (h *AdminHandler) UpdateTransaction(c *fiber.Ctx) error {
	txID, err := c.ParamsInt("id")
	if err != nil || txID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid transaction id",
		})
	}

	var req UpdateTransactionRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	update, err := h.adminSvc.UpdateTransactionStatus(c.Context(), middleware.GetAdminID(c), int64(txID), model.TransactionStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(update)
}

type AdminDepositRequest struct {
	UserID   int64   `json:"userId" validate:"required,gt=0"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,currency"`
	Note     string  `json:"note" validate:"omitempty,max=500"`
}

func (h *AdminHandler) Deposit(c *fiber.Ctx) error {
	var req AdminDepositRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	t, err := h.adminSvc.Deposit(c.Context(), middleware.GetAdminID(c), service.AdminDepositInput{
		UserID:   req.UserID,
		Amount:   req.Amount,
		Currency: parseCurrency(req.Currency),
		Note:     req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transaction": t})
}

// --- Bots ---

func (h *AdminHandler) ListBots(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	bots, err := h.adminSvc.ListBots(c.Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bots": bots})
}

type AdminCreateBotRequest struct {
	UserID     int64   `json:"userId" validate:"required,gt=0"`
	Name       string  `json:"name" validate:"required,max=100"`
	Investment float64 `json:"investment" validate:"required,gt=0"`
}

func (h *AdminHandler) CreateBot(c *fiber.Ctx) error {
	var req AdminCreateBotRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	bot, err := h.adminSvc.CreateBot(c.Context(), middleware.GetAdminID(c), req.UserID, req.Name, req.Investment)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"bot": bot})
}

func (h *AdminHandler) DeleteBot(c *fiber.Ctx) error {
	botID, err := c.ParamsInt("id")
	if err != nil || botID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid bot id",
		})
	}

	if err := h.adminSvc.DeleteBot(c.Context(), middleware.GetAdminID(c), int64(botID)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// --- Deposit addresses ---

func (h *AdminHandler) ListDepositAddresses(c *fiber.Ctx) error {
	addrs, err := h.adminSvc.ListDepositAddresses(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"addresses": addrs})
}

type DepositAddressRequest struct {
	Coin    string `json:"coin" validate:"required,oneof=USDT BTC ETH"`
	Network string `json:"network" validate:"required,oneof=BSC ETH BTC"`
	Address string `json:"address" validate:"required,min=10,max=200"`
}

func (h *AdminHandler) SetDepositAddress(c *fiber.Ctx) error {
	var req DepositAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.Coin = strings.ToUpper(strings.TrimSpace(req.Coin))
	req.Network = strings.ToUpper(strings.TrimSpace(req.Network))
	if ok, err := check(c, &req); !ok {
		return err
	}

	addr, err := h.adminSvc.SetDepositAddress(c.Context(), middleware.GetAdminID(c), req.Coin, req.Network, req.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(addr)
}

// --- Logs, settings ---

func (h *AdminHandler) GetLogs(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	logs, err := h.adminSvc.GetLogs(c.Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"logs": logs})
}

func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.adminSvc.GetSettings(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

type ExchangeRateRequest struct {
	Rate float64 `json:"rate" validate:"required,gt=0"`
}

func (h *AdminHandler) SetExchangeRate(c *fiber.Ctx) error {
	var req ExchangeRateRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.adminSvc.SetExchangeRate(c.Context(), middleware.GetAdminID(c), req.Rate); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "rate": req.Rate})
}
