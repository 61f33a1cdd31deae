package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/forexpro/backend/internal/cache"
	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

type adminFixture struct {
	svc      *AdminService
	users    *MockUserRepository
	txs      *MockTransactionRepository
	logs     *MockAdminLogRepository
	settings *MockSettingsRepository
	bots     *MockBotRepository
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users:    new(MockUserRepository),
		txs:      new(MockTransactionRepository),
		logs:     new(MockAdminLogRepository),
		settings: new(MockSettingsRepository),
		bots:     new(MockBotRepository),
	}
	rates := NewRatesService(f.settings, testRate, time.Minute)
	f.svc = NewAdminService(f.users, f.txs, f.logs, f.settings, rates)
	f.svc.SetBotService(NewBotService(f.users, f.bots, rates))
	f.svc.SetWalletService(NewWalletService(f.users, f.txs, new(MockDepositAddressRepository), rates, cache.NewMemory(), time.Minute))
	return f
}

func TestUpdateTransactionStatusAuditsOnce(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.settings.On("GetSettingFloat", ctx, SettingUSDToKSH).Return(testRate, nil)

	completed := &model.Transaction{ID: 5, UserID: 2, Type: model.TransactionTypeDeposit, Amount: 1000, Currency: currency.KSH, Status: model.TransactionStatusCompleted}
	f.txs.On("SetTransactionStatus", ctx, int64(5), model.TransactionStatusCompleted, mock.Anything).Return(completed, true, nil).Once()
	f.txs.On("SetTransactionStatus", ctx, int64(5), model.TransactionStatusCompleted, mock.Anything).Return(completed, false, nil).Once()
	f.logs.On("LogAdminAction", ctx, int64(1), model.AdminActionUpdateTransaction, mock.Anything, mock.Anything).Return(nil).Once()

	first, err := f.svc.UpdateTransactionStatus(ctx, 1, 5, model.TransactionStatusCompleted)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := f.svc.UpdateTransactionStatus(ctx, 1, 5, model.TransactionStatusCompleted)
	require.NoError(t, err)
	assert.False(t, second.Changed)

	f.logs.AssertNumberOfCalls(t, "LogAdminAction", 1)
}

func TestUpdateTransactionStatusRejectsPending(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.UpdateTransactionStatus(context.Background(), 1, 5, model.TransactionStatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.UpdateTransactionStatus(context.Background(), 1, 5, "approved")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	f.txs.AssertNotCalled(t, "SetTransactionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateTransactionStatusNotFound(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.settings.On("GetSettingFloat", ctx, SettingUSDToKSH).Return(testRate, nil)
	f.txs.On("SetTransactionStatus", ctx, int64(404), model.TransactionStatusFailed, mock.Anything).Return(nil, false, ErrTransactionNotFound)

	_, err := f.svc.UpdateTransactionStatus(ctx, 1, 404, model.TransactionStatusFailed)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	f.logs.AssertNotCalled(t, "LogAdminAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminDepositConvertsToUserCurrency(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.settings.On("GetSettingFloat", ctx, SettingUSDToKSH).Return(testRate, nil)

	f.users.On("GetUser", ctx, int64(2)).Return(testUser(2, currency.USD, 0), nil)
	f.txs.On("AdminDeposit", ctx, mock.MatchedBy(func(tx *model.Transaction) bool {
		return tx.Amount == 10 && tx.Currency == currency.USD &&
			tx.Method == model.MethodAdmin && tx.Status == model.TransactionStatusCompleted
	})).Return(nil)
	f.logs.On("LogAdminAction", ctx, int64(1), model.AdminActionDeposit, mock.Anything, mock.Anything).Return(nil)

	tx, err := f.svc.Deposit(ctx, 1, AdminDepositInput{UserID: 2, Amount: 1297.6, Currency: currency.KSH})
	require.NoError(t, err)
	assert.Equal(t, 10.0, tx.Amount)
	f.txs.AssertExpectations(t)
}

func TestSetBalance(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	assert.ErrorIs(t, f.svc.SetBalance(ctx, 1, 2, -1), ErrInvalidAmount)

	f.users.On("GetUser", ctx, int64(2)).Return(testUser(2, currency.KSH, 100), nil)
	f.users.On("SetUserBalance", ctx, int64(2), 750.0).Return(nil)
	f.logs.On("LogAdminAction", ctx, int64(1), model.AdminActionSetBalance, mock.Anything, mock.MatchedBy(func(d map[string]interface{}) bool {
		return d["old_balance"] == 100.0 && d["new_balance"] == 750.0
	})).Return(nil)

	require.NoError(t, f.svc.SetBalance(ctx, 1, 2, 750))
	f.logs.AssertExpectations(t)
}

func TestAuditFailureDoesNotFailAction(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	f.users.On("SetUserVerified", ctx, int64(2), true).Return(nil)
	f.logs.On("LogAdminAction", ctx, int64(1), model.AdminActionVerifyUser, mock.Anything, mock.Anything).Return(assert.AnError)

	assert.NoError(t, f.svc.SetVerified(ctx, 1, 2, true))
}

func TestAdminCreateAndDeleteBot(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.settings.On("GetSettingFloat", ctx, SettingUSDToKSH).Return(testRate, nil)

	f.users.On("GetUser", ctx, int64(2)).Return(testUser(2, currency.KSH, 0), nil)
	f.bots.On("CreateBot", ctx, mock.Anything).Return(nil)
	f.bots.On("DeleteBot", ctx, int64(9)).Return(&model.TradingBot{ID: 9, UserID: 2, Status: model.BotStatusActive}, nil)
	f.logs.On("LogAdminAction", ctx, int64(1), mock.Anything, mock.Anything, mock.Anything).Return(nil)

	bot, err := f.svc.CreateBot(ctx, 1, 2, "Gift", 2000)
	require.NoError(t, err)
	assert.Equal(t, 2.33, bot.Multiplier)

	require.NoError(t, f.svc.DeleteBot(ctx, 1, 9))
	f.logs.AssertNumberOfCalls(t, "LogAdminAction", 2)
}

func TestSetExchangeRate(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	f.settings.On("GetSettingFloat", ctx, SettingUSDToKSH).Return(testRate, nil)
	f.settings.On("SetSettingFloat", ctx, SettingUSDToKSH, 130.5).Return(nil)
	f.logs.On("LogAdminAction", ctx, int64(1), model.AdminActionSetExchangeRate, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.svc.SetExchangeRate(ctx, 1, 130.5))

	assert.ErrorIs(t, f.svc.SetExchangeRate(ctx, 1, 0), ErrInvalidRate)
}
