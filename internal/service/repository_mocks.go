package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) user(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserRepository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	return m.user(m.Called(ctx, code))
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, reg *model.Registration) (*model.User, error) {
	return m.user(m.Called(ctx, reg))
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id int64, name string, phone, country *string) error {
	return m.Called(ctx, id, name, phone, country).Error(0)
}

func (m *MockUserRepository) ChangeCurrency(ctx context.Context, id int64, to currency.Currency, conv currency.Converter) (*model.User, error) {
	return m.user(m.Called(ctx, id, to, conv))
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *MockUserRepository) SetProfileImage(ctx context.Context, id int64, path string) (*string, error) {
	args := m.Called(ctx, id, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockUserRepository) SetUserBalance(ctx context.Context, id int64, balance float64) error {
	return m.Called(ctx, id, balance).Error(0)
}

func (m *MockUserRepository) SetUserVerified(ctx context.Context, id int64, verified bool) error {
	return m.Called(ctx, id, verified).Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, f model.UserListFilter) ([]model.User, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.User), args.Int(1), args.Error(2)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, f model.TransactionFilter) ([]model.Transaction, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsWithUser(ctx context.Context, f model.TransactionFilter) ([]model.TransactionWithUser, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TransactionWithUser), args.Error(1)
}

func (m *MockTransactionRepository) CountCompletedDeposits(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) CreateDeposit(ctx context.Context, t *model.Transaction, qualifies bool, conv currency.Converter) (*model.ReferralBonus, error) {
	args := m.Called(ctx, t, qualifies, conv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralBonus), args.Error(1)
}

func (m *MockTransactionRepository) CreateWithdrawal(ctx context.Context, t *model.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTransactionRepository) AdminDeposit(ctx context.Context, t *model.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTransactionRepository) SetTransactionStatus(ctx context.Context, id int64, status model.TransactionStatus, conv currency.Converter) (*model.Transaction, bool, error) {
	args := m.Called(ctx, id, status, conv)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Transaction), args.Bool(1), args.Error(2)
}

// MockBotRepository is a mock implementation of BotRepository
type MockBotRepository struct {
	mock.Mock
}

func (m *MockBotRepository) ListBotTemplates(ctx context.Context) ([]model.BotTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BotTemplate), args.Error(1)
}

func (m *MockBotRepository) GetBotTemplate(ctx context.Context, id int64) (*model.BotTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BotTemplate), args.Error(1)
}

func (m *MockBotRepository) PurchaseBot(ctx context.Context, bot *model.TradingBot, purchase *model.Transaction) error {
	return m.Called(ctx, bot, purchase).Error(0)
}

func (m *MockBotRepository) CreateBot(ctx context.Context, bot *model.TradingBot) error {
	return m.Called(ctx, bot).Error(0)
}

func (m *MockBotRepository) ListUserBots(ctx context.Context, userID int64) ([]model.TradingBot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TradingBot), args.Error(1)
}

func (m *MockBotRepository) ListBots(ctx context.Context, limit, offset int) ([]model.BotWithOwner, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BotWithOwner), args.Error(1)
}

func (m *MockBotRepository) ProgressBot(ctx context.Context, botID, userID int64, step model.BotStep, conv currency.Converter) (*model.BotProgressResult, error) {
	args := m.Called(ctx, botID, userID, step, conv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BotProgressResult), args.Error(1)
}

func (m *MockBotRepository) DeleteBot(ctx context.Context, id int64) (*model.TradingBot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TradingBot), args.Error(1)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) GetReferralStats(ctx context.Context, referrerID int64) (*model.ReferralStats, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralStats), args.Error(1)
}

func (m *MockReferralRepository) ListReferralBonuses(ctx context.Context, referrerID int64) ([]model.ReferralBonusView, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReferralBonusView), args.Error(1)
}

func (m *MockReferralRepository) ListReferredUsers(ctx context.Context, code string) ([]model.ReferredUser, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReferredUser), args.Error(1)
}

// MockDepositAddressRepository is a mock implementation of DepositAddressRepository
type MockDepositAddressRepository struct {
	mock.Mock
}

func (m *MockDepositAddressRepository) GetDepositAddress(ctx context.Context, coin, network string) (*model.DepositAddress, error) {
	args := m.Called(ctx, coin, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DepositAddress), args.Error(1)
}

func (m *MockDepositAddressRepository) UpsertDepositAddress(ctx context.Context, addr *model.DepositAddress) error {
	return m.Called(ctx, addr).Error(0)
}

func (m *MockDepositAddressRepository) ListDepositAddresses(ctx context.Context) ([]model.DepositAddress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DepositAddress), args.Error(1)
}

// MockAdminLogRepository is a mock implementation of AdminLogRepository
type MockAdminLogRepository struct {
	mock.Mock
}

func (m *MockAdminLogRepository) LogAdminAction(ctx context.Context, adminID int64, action string, targetUserID *int64, details interface{}) error {
	return m.Called(ctx, adminID, action, targetUserID, details).Error(0)
}

func (m *MockAdminLogRepository) GetAdminLogs(ctx context.Context, limit, offset int) ([]model.AdminLog, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AdminLog), args.Error(1)
}

func (m *MockAdminLogRepository) GetAdminStats(ctx context.Context) (*model.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminStats), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSettingFloat(ctx context.Context, key string) (float64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockSettingsRepository) SetSettingFloat(ctx context.Context, key string, value float64) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockSettingsRepository) GetAllSettings(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) DepositRequested(ctx context.Context, user *model.User, t *model.Transaction) {
	m.Called(ctx, user, t)
}

func (m *MockNotifier) WithdrawalRequested(ctx context.Context, user *model.User, t *model.Transaction) {
	m.Called(ctx, user, t)
}
