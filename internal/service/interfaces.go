package service

import (
	"context"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
	"github.com/forexpro/backend/internal/repository"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*model.User, error)

	// RegisterUser creates the user, the signup bonus and any pending
	// referral bonus atomically
	RegisterUser(ctx context.Context, reg *model.Registration) (*model.User, error)

	UpdateProfile(ctx context.Context, id int64, name string, phone, country *string) error

	// ChangeCurrency converts balance and profit under a row lock
	ChangeCurrency(ctx context.Context, id int64, to currency.Currency, conv currency.Converter) (*model.User, error)

	UpdatePassword(ctx context.Context, id int64, hash string) error

	// SetProfileImage stores path and returns the previous image path
	SetProfileImage(ctx context.Context, id int64, path string) (*string, error)

	SetUserBalance(ctx context.Context, id int64, balance float64) error
	SetUserVerified(ctx context.Context, id int64, verified bool) error
	ListUsers(ctx context.Context, f model.UserListFilter) ([]model.User, int, error)
}

// TransactionRepository defines the interface for the transaction ledger
type TransactionRepository interface {
	GetTransaction(ctx context.Context, id int64) (*model.Transaction, error)
	ListTransactions(ctx context.Context, f model.TransactionFilter) ([]model.Transaction, error)
	ListTransactionsWithUser(ctx context.Context, f model.TransactionFilter) ([]model.TransactionWithUser, error)
	CountCompletedDeposits(ctx context.Context, userID int64) (int, error)

	// CreateDeposit records a pending deposit and, when qualifies is set,
	// completes the depositor's pending referral bonus exactly once
	CreateDeposit(ctx context.Context, t *model.Transaction, qualifies bool, conv currency.Converter) (*model.ReferralBonus, error)

	// CreateWithdrawal debits the balance conditionally and records the withdrawal
	CreateWithdrawal(ctx context.Context, t *model.Transaction) error

	// AdminDeposit records a completed deposit and credits it
	AdminDeposit(ctx context.Context, t *model.Transaction) error

	// SetTransactionStatus applies a guarded pending->status transition
	SetTransactionStatus(ctx context.Context, id int64, status model.TransactionStatus, conv currency.Converter) (*model.Transaction, bool, error)
}

// BotRepository defines the interface for trading bot data access
type BotRepository interface {
	ListBotTemplates(ctx context.Context) ([]model.BotTemplate, error)
	GetBotTemplate(ctx context.Context, id int64) (*model.BotTemplate, error)

	// PurchaseBot debits the investment and creates the bot atomically
	PurchaseBot(ctx context.Context, bot *model.TradingBot, purchase *model.Transaction) error

	CreateBot(ctx context.Context, bot *model.TradingBot) error
	ListUserBots(ctx context.Context, userID int64) ([]model.TradingBot, error)
	ListBots(ctx context.Context, limit, offset int) ([]model.BotWithOwner, error)

	// ProgressBot advances a bot and credits its profit once on completion
	ProgressBot(ctx context.Context, botID, userID int64, step model.BotStep, conv currency.Converter) (*model.BotProgressResult, error)

	DeleteBot(ctx context.Context, id int64) (*model.TradingBot, error)
}

// ReferralRepository defines the interface for referral bonus queries
type ReferralRepository interface {
	GetReferralStats(ctx context.Context, referrerID int64) (*model.ReferralStats, error)
	ListReferralBonuses(ctx context.Context, referrerID int64) ([]model.ReferralBonusView, error)
	ListReferredUsers(ctx context.Context, code string) ([]model.ReferredUser, error)
}

// DepositAddressRepository defines the interface for deposit address lookups
type DepositAddressRepository interface {
	GetDepositAddress(ctx context.Context, coin, network string) (*model.DepositAddress, error)
	UpsertDepositAddress(ctx context.Context, addr *model.DepositAddress) error
	ListDepositAddresses(ctx context.Context) ([]model.DepositAddress, error)
}

// AdminLogRepository defines the interface for admin audit data
type AdminLogRepository interface {
	LogAdminAction(ctx context.Context, adminID int64, action string, targetUserID *int64, details interface{}) error
	GetAdminLogs(ctx context.Context, limit, offset int) ([]model.AdminLog, error)
	GetAdminStats(ctx context.Context) (*model.AdminStats, error)
}

// SettingsRepository defines the interface for runtime settings
type SettingsRepository interface {
	GetSettingFloat(ctx context.Context, key string) (float64, error)
	SetSettingFloat(ctx context.Context, key string, value float64) error
	GetAllSettings(ctx context.Context) (map[string]string, error)
}

// Notifier receives wallet events worth an operator's attention
type Notifier interface {
	DepositRequested(ctx context.Context, user *model.User, t *model.Transaction)
	WithdrawalRequested(ctx context.Context, user *model.User, t *model.Transaction)
}

type nopNotifier struct{}

func (nopNotifier) DepositRequested(context.Context, *model.User, *model.Transaction)    {}
func (nopNotifier) WithdrawalRequested(context.Context, *model.User, *model.Transaction) {}

var (
	_ UserRepository           = (*repository.Repository)(nil)
	_ TransactionRepository    = (*repository.Repository)(nil)
	_ BotRepository            = (*repository.Repository)(nil)
	_ ReferralRepository       = (*repository.Repository)(nil)
	_ DepositAddressRepository = (*repository.Repository)(nil)
	_ AdminLogRepository       = (*repository.Repository)(nil)
	_ SettingsRepository       = (*repository.Repository)(nil)
)
