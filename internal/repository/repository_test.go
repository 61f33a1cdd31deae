package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

var (
	conv    = currency.NewConverter(129.76)
	codeSeq int
)

func setupRepository(t *testing.T) *Repository {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("forexpro_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"test":      "forexpro-repository",
			"test-name": t.Name(),
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, Migrate(dsn))

	repo, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func registerUser(t *testing.T, repo *Repository, email string, cur currency.Currency, referrer *model.User) *model.User {
	t.Helper()

	reg := &model.Registration{
		Name:         "Test " + email,
		Email:        email,
		PasswordHash: "hash",
		Currency:     cur,
		ReferralCode: nextCode(),
		SignupBonus:  currency.SignupBonus.In(cur),
		Referrer:     referrer,
	}
	if referrer != nil {
		reg.ReferralBonus = currency.ReferralBonus.In(referrer.Currency)
	}

	user, err := repo.RegisterUser(context.Background(), reg)
	require.NoError(t, err)
	return user
}

func nextCode() string {
	codeSeq++
	return fmt.Sprintf("CODE%04d", codeSeq)
}

func newBot(userID int64, investment float64) *model.TradingBot {
	return &model.TradingBot{
		UserID:         userID,
		Name:           "Starter Bot",
		Investment:     investment,
		InvestmentKSH:  investment,
		Multiplier:     2.3,
		DailyProfit:    investment * 2.3 / model.BotCycleDays,
		TotalProfit:    investment * 2.3,
		Status:         model.BotStatusActive,
		ImageURL:       model.DefaultBotImageURL,
		NextMiningTime: time.Now().Add(24 * time.Hour),
	}
}

func TestRegisterUser(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	user := registerUser(t, repo, "a@example.com", currency.KSH, nil)
	assert.Equal(t, 200.0, user.Balance)
	assert.Equal(t, model.RoleUser, user.Role)

	txs, err := repo.ListTransactions(ctx, model.TransactionFilter{UserID: &user.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, model.TransactionTypeBonus, txs[0].Type)
	assert.Equal(t, model.MethodSignupBonus, txs[0].Method)

	_, err = repo.RegisterUser(ctx, &model.Registration{
		Name: "Dup", Email: "a@example.com", PasswordHash: "hash",
		Currency: currency.KSH, ReferralCode: "OTHER001",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = repo.RegisterUser(ctx, &model.Registration{
		Name: "Dup", Email: "b@example.com", PasswordHash: "hash",
		Currency: currency.KSH, ReferralCode: user.ReferralCode,
	})
	assert.ErrorIs(t, err, ErrReferralCodeTaken)

	exists, err := repo.EmailExists(ctx, "A@Example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPurchaseBotInsufficientBalance(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	user := registerUser(t, repo, "poor@example.com", currency.KSH, nil)

	err := repo.PurchaseBot(ctx, newBot(user.ID, 5000), &model.Transaction{
		UserID: user.ID, Type: model.TransactionTypePurchase, Method: model.MethodBot,
		Amount: 5000, Currency: currency.KSH, Status: model.TransactionStatusCompleted,
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	bots, err := repo.ListUserBots(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, bots)

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, got.Balance)

	txs, err := repo.ListTransactions(ctx, model.TransactionFilter{UserID: &user.ID, Type: model.TransactionTypePurchase, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestBotCompletionCreditsOnce(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	user := registerUser(t, repo, "bot@example.com", currency.KSH, nil)
	require.NoError(t, repo.SetUserBalance(ctx, user.ID, 10000))

	bot := newBot(user.ID, 10000)
	require.NoError(t, repo.PurchaseBot(ctx, bot, &model.Transaction{
		UserID: user.ID, Type: model.TransactionTypePurchase, Method: model.MethodBot,
		Amount: 10000, Currency: currency.KSH, Status: model.TransactionStatusCompleted,
	}))

	other := registerUser(t, repo, "other@example.com", currency.KSH, nil)
	_, err := repo.ProgressBot(ctx, bot.ID, other.ID, model.BotStep{Delta: 10}, conv)
	assert.ErrorIs(t, err, ErrBotNotFound)

	res, err := repo.ProgressBot(ctx, bot.ID, user.ID, model.BotStep{Delta: model.BotProgressStep}, conv)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Progress)
	assert.False(t, res.Completed)

	hundred := 100
	res, err = repo.ProgressBot(ctx, bot.ID, user.ID, model.BotStep{Set: &hundred}, conv)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.InDelta(t, 23000, res.Credited, 0.01)

	res, err = repo.ProgressBot(ctx, bot.ID, user.ID, model.BotStep{Set: &hundred}, conv)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Zero(t, res.Credited)

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 23000, got.Balance, 0.01)
	assert.InDelta(t, 23000, got.Profit, 0.01)
	assert.Zero(t, got.ActiveBots)
}

func TestReferralBonusCreditedOnce(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	referrer := registerUser(t, repo, "ref@example.com", currency.USD, nil)
	referred := registerUser(t, repo, "new@example.com", currency.KSH, referrer)

	deposit := func() *model.ReferralBonus {
		bonus, err := repo.CreateDeposit(ctx, &model.Transaction{
			UserID: referred.ID, Type: model.TransactionTypeDeposit, Method: model.MethodMpesa,
			Amount: 10000, Currency: currency.KSH, Status: model.TransactionStatusPending,
		}, true, conv)
		require.NoError(t, err)
		return bonus
	}

	bonus := deposit()
	require.NotNil(t, bonus)
	assert.Equal(t, referrer.ID, bonus.ReferrerID)
	assert.Nil(t, deposit())

	got, err := repo.GetUser(ctx, referrer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.5+2.3, got.Balance, 0.001)
	assert.Equal(t, 1, got.Referrals)

	stats, err := repo.GetReferralStats(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Zero(t, stats.Pending)
	assert.Equal(t, 2.3, stats.TotalBonus)
}

func TestSetTransactionStatusIdempotent(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	user := registerUser(t, repo, "tx@example.com", currency.KSH, nil)

	dep := &model.Transaction{
		UserID: user.ID, Type: model.TransactionTypeDeposit, Method: model.MethodMpesa,
		Amount: 500, Currency: currency.KSH, Status: model.TransactionStatusPending,
	}
	_, err := repo.CreateDeposit(ctx, dep, false, conv)
	require.NoError(t, err)

	_, changed, err := repo.SetTransactionStatus(ctx, dep.ID, model.TransactionStatusCompleted, conv)
	require.NoError(t, err)
	assert.True(t, changed)

	_, changed, err = repo.SetTransactionStatus(ctx, dep.ID, model.TransactionStatusCompleted, conv)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 700.0, got.Balance)

	wd := &model.Transaction{
		UserID: user.ID, Type: model.TransactionTypeWithdraw, Method: model.MethodMpesa,
		Amount: 300, Currency: currency.KSH, Status: model.TransactionStatusPending,
	}
	require.NoError(t, repo.CreateWithdrawal(ctx, wd))

	got, err = repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 400.0, got.Balance)

	_, changed, err = repo.SetTransactionStatus(ctx, wd.ID, model.TransactionStatusFailed, conv)
	require.NoError(t, err)
	assert.True(t, changed)
	_, changed, err = repo.SetTransactionStatus(ctx, wd.ID, model.TransactionStatusFailed, conv)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err = repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 700.0, got.Balance)

	_, _, err = repo.SetTransactionStatus(ctx, 999999, model.TransactionStatusCompleted, conv)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestWithdrawalCannotOverdraw(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	user := registerUser(t, repo, "wd@example.com", currency.KSH, nil)

	err := repo.CreateWithdrawal(ctx, &model.Transaction{
		UserID: user.ID, Type: model.TransactionTypeWithdraw, Method: model.MethodMpesa,
		Amount: 5000, Currency: currency.KSH, Status: model.TransactionStatusPending,
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	txs, err := repo.ListTransactions(ctx, model.TransactionFilter{UserID: &user.ID, Type: model.TransactionTypeWithdraw, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestChangeCurrency(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	user := registerUser(t, repo, "fx@example.com", currency.KSH, nil)
	require.NoError(t, repo.SetUserBalance(ctx, user.ID, 1297.6))

	got, err := repo.ChangeCurrency(ctx, user.ID, currency.USD, conv)
	require.NoError(t, err)
	assert.Equal(t, currency.USD, got.Currency)
	assert.Equal(t, 10.0, got.Balance)

	same, err := repo.ChangeCurrency(ctx, user.ID, currency.USD, conv)
	require.NoError(t, err)
	assert.Equal(t, 10.0, same.Balance)

	_, err = repo.ChangeCurrency(ctx, 999999, currency.USD, conv)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSettingsAndDepositAddresses(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	rate, err := repo.GetSettingFloat(ctx, "usd_ksh_rate")
	require.NoError(t, err)
	assert.Equal(t, 129.76, rate)

	require.NoError(t, repo.SetSettingFloat(ctx, "usd_ksh_rate", 130))
	rate, err = repo.GetSettingFloat(ctx, "usd_ksh_rate")
	require.NoError(t, err)
	assert.Equal(t, 130.0, rate)

	_, err = repo.GetDepositAddress(ctx, "BTC", "BTC")
	assert.ErrorIs(t, err, ErrDepositAddressNotFound)

	require.NoError(t, repo.UpsertDepositAddress(ctx, &model.DepositAddress{Coin: "USDT", Network: "TRC20", Address: "T1"}))
	require.NoError(t, repo.UpsertDepositAddress(ctx, &model.DepositAddress{Coin: "USDT", Network: "TRC20", Address: "T2"}))

	addr, err := repo.GetDepositAddress(ctx, "USDT", "TRC20")
	require.NoError(t, err)
	assert.Equal(t, "T2", addr.Address)

	templates, err := repo.ListBotTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 4)
}
