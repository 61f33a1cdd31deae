package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

func TestReferralStatsUseUserCurrency(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	referrals := new(MockReferralRepository)
	svc := NewReferralService(users, referrals)

	users.On("GetUser", ctx, int64(1)).Return(testUser(1, currency.USD, 0), nil)
	referrals.On("GetReferralStats", ctx, int64(1)).Return(&model.ReferralStats{Total: 2, Completed: 1, Pending: 1, TotalBonus: 2.3}, nil)

	stats, err := svc.GetStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "CODE0001", stats.ReferralCode)
	assert.Equal(t, currency.USD, stats.Currency)
	assert.Equal(t, 1.33, stats.BonusPerReferral)
	assert.Equal(t, 2, stats.Total)
}

func TestReferredUsersByCode(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	referrals := new(MockReferralRepository)
	svc := NewReferralService(users, referrals)

	users.On("GetUser", ctx, int64(1)).Return(testUser(1, currency.KSH, 0), nil)
	referrals.On("ListReferredUsers", ctx, "CODE0001").Return([]model.ReferredUser{{}}, nil)

	list, err := svc.ReferredUsers(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
