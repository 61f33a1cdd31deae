package model

import (
	"time"

	"github.com/forexpro/backend/internal/currency"
)

type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusCompleted ReferralStatus = "completed"
)

type ReferralBonus struct {
	ID          int64             `json:"id" db:"id"`
	ReferrerID  int64             `json:"referrer_id" db:"referrer_id"`
	ReferredID  int64             `json:"referred_id" db:"referred_id"`
	Amount      float64           `json:"amount" db:"amount"`
	Currency    currency.Currency `json:"currency" db:"currency"`
	Status      ReferralStatus    `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
}

// ReferralBonusView is a bonus with the referred user's name.
type ReferralBonusView struct {
	ReferralBonus
	ReferredName  string `json:"referred_name" db:"referred_name"`
	ReferredEmail string `json:"referred_email" db:"referred_email"`
}

type ReferredUser struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Email       string          `json:"email" db:"email"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	BonusStatus *ReferralStatus `json:"bonusStatus" db:"bonus_status"`
	BonusAmount *float64        `json:"bonusAmount,omitempty" db:"bonus_amount"`
}

type ReferralStats struct {
	ReferralCode     string            `json:"referralCode"`
	Total            int               `json:"total" db:"total"`
	Completed        int               `json:"completed" db:"completed"`
	Pending          int               `json:"pending" db:"pending"`
	TotalBonus       float64           `json:"totalBonus" db:"total_bonus"`
	BonusPerReferral float64           `json:"bonusPerReferral"`
	Currency         currency.Currency `json:"currency"`
}
