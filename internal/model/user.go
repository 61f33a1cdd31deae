package model

import (
	"time"

	"github.com/forexpro/backend/internal/currency"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleDemo  Role = "demo"
)

type User struct {
	ID            int64             `json:"id" db:"id"`
	Name          string            `json:"name" db:"name"`
	Email         string            `json:"email" db:"email"`
	Password      string            `json:"-" db:"password"`
	Phone         *string           `json:"phone,omitempty" db:"phone"`
	Country       *string           `json:"country,omitempty" db:"country"`
	Currency      currency.Currency `json:"currency" db:"currency"`
	Balance       float64           `json:"balance" db:"balance"`
	Profit        float64           `json:"profit" db:"profit"`
	ActiveBots    int               `json:"active_bots" db:"active_bots"`
	Referrals     int               `json:"referrals" db:"referrals"`
	ReferralCode  string            `json:"referral_code" db:"referral_code"`
	ReferredBy    *string           `json:"referred_by,omitempty" db:"referred_by"`
	ProfileImage  *string           `json:"profile_image,omitempty" db:"profile_image"`
	Role          Role              `json:"role" db:"role"`
	Verified      bool              `json:"verified" db:"verified"`
	PhoneVerified bool              `json:"phone_verified" db:"phone_verified"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NewDemoUser builds the in-memory account handed out by demo mode.
// It is never persisted.
func NewDemoUser(id string) *DemoUser {
	return &DemoUser{
		ID:           id,
		Name:         "Demo Trader",
		Email:        "demo@forexpro.com",
		Currency:     currency.USD,
		Balance:      currency.DemoBalance.In(currency.USD),
		Role:         RoleDemo,
		ReferralCode: "DEMO2025",
	}
}

type DemoUser struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Currency     currency.Currency `json:"currency"`
	Balance      float64           `json:"balance"`
	Profit       float64           `json:"profit"`
	ActiveBots   int               `json:"active_bots"`
	Role         Role              `json:"role"`
	ReferralCode string            `json:"referral_code"`
}

// UserProfile is the profile view with the balance in both currencies.
type UserProfile struct {
	User
	FormattedBalance   string            `json:"formattedBalance"`
	ConvertedBalance   float64           `json:"convertedBalance"`
	OtherCurrency      currency.Currency `json:"otherCurrency"`
	FormattedConverted string            `json:"formattedConvertedBalance"`
	BonusCount         int               `json:"bonusCount"`
	CompletedReferrals int               `json:"completedReferrals"`
}

// Registration carries everything written by a signup.
type Registration struct {
	Name         string
	Email        string
	PasswordHash string
	Phone        *string
	Country      *string
	Currency     currency.Currency
	ReferralCode string
	SignupBonus  float64

	// Referrer is set when the user signed up with a valid referral code.
	Referrer      *User
	ReferralBonus float64
}
