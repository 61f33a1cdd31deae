package model

import (
	"time"

	"github.com/forexpro/backend/internal/currency"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeBonus    TransactionType = "bonus"
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypeProfit   TransactionType = "profit"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	}
	return false
}

// Transaction methods
const (
	MethodCrypto      = "crypto"
	MethodMpesa       = "mpesa"
	MethodAdmin       = "admin"
	MethodSignupBonus = "signup_bonus"
	MethodReferral    = "referral"
	MethodBot         = "bot"
)

type Transaction struct {
	ID          int64             `json:"id" db:"id"`
	UserID      int64             `json:"user_id" db:"user_id"`
	Type        TransactionType   `json:"type" db:"type"`
	Method      string            `json:"method" db:"method"`
	Amount      float64           `json:"amount" db:"amount"`
	Currency    currency.Currency `json:"currency" db:"currency"`
	Status      TransactionStatus `json:"status" db:"status"`
	Address     *string           `json:"address,omitempty" db:"address"`
	Network     *string           `json:"network,omitempty" db:"network"`
	TxHash      *string           `json:"tx_hash,omitempty" db:"tx_hash"`
	Note        *string           `json:"note,omitempty" db:"note"`
	ReferenceID *int64            `json:"reference_id,omitempty" db:"reference_id"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// TransactionWithUser is a transaction joined with its owner, for the admin panel.
type TransactionWithUser struct {
	Transaction
	UserName     string            `json:"user_name" db:"user_name"`
	UserEmail    string            `json:"user_email" db:"user_email"`
	UserCurrency currency.Currency `json:"user_currency" db:"user_currency"`
}

// TransactionView is a history row rendered for the owner.
type TransactionView struct {
	Transaction
	FormattedAmount string  `json:"formattedAmount"`
	ConvertedAmount float64 `json:"convertedAmount"`
}

type TransactionFilter struct {
	UserID *int64
	Type   TransactionType
	Status TransactionStatus
	Limit  int
	Offset int
}
