package service

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

type AdminDepositInput struct {
	UserID   int64
	Amount   float64
	Currency currency.Currency
	Note     string
}

type TransactionUpdate struct {
	Transaction *model.Transaction `json:"transaction"`
	Changed     bool               `json:"changed"`
}

type AdminService struct {
	users    UserRepository
	txs      TransactionRepository
	logs     AdminLogRepository
	settings SettingsRepository
	rates    *RatesService
	botSvc   *BotService
	wallet   *WalletService
}

func NewAdminService(users UserRepository, txs TransactionRepository, logs AdminLogRepository, settings SettingsRepository, rates *RatesService) *AdminService {
	return &AdminService{users: users, txs: txs, logs: logs, settings: settings, rates: rates}
}

// SetBotService sets the bot service (to avoid circular deps)
func (s *AdminService) SetBotService(botSvc *BotService) {
	s.botSvc = botSvc
}

// SetWalletService sets the wallet service (to avoid circular deps)
func (s *AdminService) SetWalletService(wallet *WalletService) {
	s.wallet = wallet
}

func (s *AdminService) audit(ctx context.Context, adminID int64, action string, target *int64, details map[string]interface{}) {
	if err := s.logs.LogAdminAction(ctx, adminID, action, target, details); err != nil {
		log.Errorf("Failed to record admin action %s by %d: %v", action, adminID, err)
	}
}

// --- Users ---

func (s *AdminService) ListUsers(ctx context.Context, search string, limit, offset int) ([]model.User, int, error) {
	return s.users.ListUsers(ctx, model.UserListFilter{
		Search: strings.TrimSpace(search),
		Limit:  clampLimit(limit, 50, 500),
		Offset: max(offset, 0),
	})
}

func (s *AdminService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.GetUser(ctx, userID)
}

func (s *AdminService) SetBalance(ctx context.Context, adminID, userID int64, balance float64) error {
	if balance < 0 {
		return ErrInvalidAmount
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.SetUserBalance(ctx, userID, balance); err != nil {
		return err
	}

	s.audit(ctx, adminID, model.AdminActionSetBalance, &userID, map[string]interface{}{
		"old_balance": user.Balance,
		"new_balance": balance,
		"currency":    user.Currency,
	})
	return nil
}

func (s *AdminService) SetVerified(ctx context.Context, adminID, userID int64, verified bool) error {
	if err := s.users.SetUserVerified(ctx, userID, verified); err != nil {
		return err
	}

	s.audit(ctx, adminID, model.AdminActionVerifyUser, &userID, map[string]interface{}{
		"verified": verified,
	})
	return nil
}

// --- Transactions ---

func (s *AdminService) ListTransactions(ctx context.Context, status model.TransactionStatus, txType model.TransactionType, limit, offset int) ([]model.TransactionWithUser, error) {
	return s.txs.ListTransactionsWithUser(ctx, model.TransactionFilter{
		Status: status,
		Type:   txType,
		Limit:  clampLimit(limit, 100, 500),
		Offset: max(offset, 0),
	})
}

func (s *AdminService) PendingWithdrawals(ctx context.Context) ([]model.TransactionWithUser, error) {
	return s.ListTransactions(ctx, model.TransactionStatusPending, model.TransactionTypeWithdraw, 500, 0)
}

// UpdateTransactionStatus settles a pending transaction. Settling the
// same transaction twice is a no-op reported with Changed=false.
func (s *AdminService) UpdateTransactionStatus(ctx context.Context, adminID, txID int64, status model.TransactionStatus) (*TransactionUpdate, error) {
	if status != model.TransactionStatusCompleted && status != model.TransactionStatusFailed {
		return nil, ErrInvalidStatus
	}

	t, changed, err := s.txs.SetTransactionStatus(ctx, txID, status, s.rates.Converter(ctx))
	if err != nil {
		return nil, err
	}

	if changed {
		s.audit(ctx, adminID, model.AdminActionUpdateTransaction, &t.UserID, map[string]interface{}{
			"transaction_id": t.ID,
			"type":           t.Type,
			"status":         status,
			"amount":         t.Amount,
			"currency":       t.Currency,
		})
	} else {
		log.Warnf("Transaction %d already %s, status %s ignored", t.ID, t.Status, status)
	}

	return &TransactionUpdate{Transaction: t, Changed: changed}, nil
}

// Deposit credits a user directly, bypassing minimums and referral logic.
func (s *AdminService) Deposit(ctx context.Context, adminID int64, in AdminDepositInput) (*model.Transaction, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	user, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Currency == "" {
		in.Currency = user.Currency
	}
	amount, err := s.rates.Converter(ctx).Convert(in.Amount, in.Currency, user.Currency)
	if err != nil {
		return nil, err
	}

	t := &model.Transaction{
		UserID:   user.ID,
		Type:     model.TransactionTypeDeposit,
		Method:   model.MethodAdmin,
		Amount:   amount,
		Currency: user.Currency,
		Status:   model.TransactionStatusCompleted,
		Note:     optional(in.Note),
	}
	if err := s.txs.AdminDeposit(ctx, t); err != nil {
		return nil, err
	}

	s.audit(ctx, adminID, model.AdminActionDeposit, &user.ID, map[string]interface{}{
		"transaction_id": t.ID,
		"amount":         in.Amount,
		"currency":       in.Currency,
		"credited":       amount,
	})
	return t, nil
}

// --- Bots ---

func (s *AdminService) ListBots(ctx context.Context, limit, offset int) ([]model.BotWithOwner, error) {
	return s.botSvc.ListAll(ctx, clampLimit(limit, 100, 500), max(offset, 0))
}

func (s *AdminService) CreateBot(ctx context.Context, adminID, userID int64, name string, investment float64) (*model.TradingBot, error) {
	bot, err := s.botSvc.Grant(ctx, userID, name, investment)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, adminID, model.AdminActionCreateBot, &userID, map[string]interface{}{
		"bot_id":     bot.ID,
		"investment": investment,
		"multiplier": bot.Multiplier,
	})
	return bot, nil
}

func (s *AdminService) DeleteBot(ctx context.Context, adminID, botID int64) error {
	bot, err := s.botSvc.Delete(ctx, botID)
	if err != nil {
		return err
	}

	s.audit(ctx, adminID, model.AdminActionDeleteBot, &bot.UserID, map[string]interface{}{
		"bot_id": bot.ID,
		"status": bot.Status,
	})
	return nil
}

// --- Deposit addresses ---

func (s *AdminService) ListDepositAddresses(ctx context.Context) ([]model.DepositAddress, error) {
	return s.wallet.ListDepositAddresses(ctx)
}

func (s *AdminService) SetDepositAddress(ctx context.Context, adminID int64, coin, network, address string) (*model.DepositAddress, error) {
	addr, err := s.wallet.SetDepositAddress(ctx, coin, network, address)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, adminID, model.AdminActionSetDepositAddress, nil, map[string]interface{}{
		"coin":    addr.Coin,
		"network": addr.Network,
		"address": addr.Address,
	})
	return addr, nil
}

// --- Stats, logs, settings ---

func (s *AdminService) GetStats(ctx context.Context) (*model.AdminStats, error) {
	return s.logs.GetAdminStats(ctx)
}

func (s *AdminService) GetLogs(ctx context.Context, limit, offset int) ([]model.AdminLog, error) {
	return s.logs.GetAdminLogs(ctx, clampLimit(limit, 50, 500), max(offset, 0))
}

func (s *AdminService) GetSettings(ctx context.Context) (map[string]string, error) {
	return s.settings.GetAllSettings(ctx)
}

func (s *AdminService) SetExchangeRate(ctx context.Context, adminID int64, rate float64) error {
	old := s.rates.Rate(ctx)
	if err := s.rates.SetRate(ctx, rate); err != nil {
		return err
	}

	s.audit(ctx, adminID, model.AdminActionSetExchangeRate, nil, map[string]interface{}{
		"old_rate": old,
		"new_rate": rate,
	})
	return nil
}
