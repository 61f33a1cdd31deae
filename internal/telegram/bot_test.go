package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

func TestDepositMessage(t *testing.T) {
	hash := "0xhash"
	msg := depositMessage(
		&model.User{ID: 3, Name: "Jane <Doe>", Email: "jane@example.com"},
		&model.Transaction{ID: 10, Amount: 12500, Currency: currency.KSH, Method: model.MethodMpesa, TxHash: &hash},
	)

	assert.Contains(t, msg, "New deposit #10")
	assert.Contains(t, msg, "Jane &lt;Doe&gt;")
	assert.Contains(t, msg, "KSh 12,500.00")
	assert.Contains(t, msg, "<code>0xhash</code>")
}

func TestWithdrawalMessage(t *testing.T) {
	addr, network := "0xabc", "BSC"
	msg := withdrawalMessage(
		&model.User{ID: 3, Name: "Jane", Currency: currency.USD, Balance: 100},
		&model.Transaction{ID: 11, Amount: 40, Currency: currency.USD, Method: model.MethodCrypto, Address: &addr, Network: &network},
	)

	assert.Contains(t, msg, "Withdrawal request #11")
	assert.Contains(t, msg, "$40.00")
	assert.Contains(t, msg, "Balance left: $60.00")
	assert.Contains(t, msg, "<code>0xabc</code> (BSC)")
}

func TestStatsMessage(t *testing.T) {
	msg := statsMessage(&model.AdminStats{TotalUsers: 12, VerifiedUsers: 4, PendingWithdrawals: 2, TotalBalanceKSH: 1000})

	assert.Contains(t, msg, "Users: 12 (4 verified)")
	assert.Contains(t, msg, "Pending withdrawals: 2")
	assert.Contains(t, msg, "KSh 1,000.00")
}

type deadlineStats struct {
	deadline time.Time
	ok       bool
}

func (d *deadlineStats) GetStats(ctx context.Context) (*model.AdminStats, error) {
	d.deadline, d.ok = ctx.Deadline()
	return &model.AdminStats{TotalUsers: 1}, nil
}

func TestLoadStatsHasDeadline(t *testing.T) {
	src := &deadlineStats{}
	b := &Bot{stats: src}

	stats, err := b.loadStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalUsers)
	require.True(t, src.ok)
	assert.WithinDuration(t, time.Now().Add(statsTimeout), src.deadline, time.Second)
}
