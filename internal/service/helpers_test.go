package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/forexpro/backend/internal/currency"
	"github.com/forexpro/backend/internal/model"
)

const testRate = 129.76

func newTestRates() *RatesService {
	settings := new(MockSettingsRepository)
	settings.On("GetSettingFloat", mock.Anything, SettingUSDToKSH).Return(testRate, nil).Maybe()
	return NewRatesService(settings, testRate, time.Minute)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func testUser(id int64, cur currency.Currency, balance float64) *model.User {
	return &model.User{
		ID:           id,
		Name:         "Test User",
		Email:        "user@example.com",
		Currency:     cur,
		Balance:      balance,
		ReferralCode: "CODE0001",
		Role:         model.RoleUser,
	}
}

func strPtr(s string) *string { return &s }
