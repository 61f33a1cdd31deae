package model

import (
	"encoding/json"
	"time"
)

type AdminLog struct {
	ID           int64           `json:"id" db:"id"`
	AdminID      int64           `json:"admin_id" db:"admin_id"`
	Action       string          `json:"action" db:"action"`
	TargetUserID *int64          `json:"target_user_id,omitempty" db:"target_user_id"`
	Details      json.RawMessage `json:"details,omitempty" db:"details"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Admin action constants
const (
	AdminActionSetBalance        = "set_balance"
	AdminActionVerifyUser        = "verify_user"
	AdminActionUpdateTransaction = "update_transaction"
	AdminActionDeposit           = "admin_deposit"
	AdminActionCreateBot         = "create_bot"
	AdminActionDeleteBot         = "delete_bot"
	AdminActionSetDepositAddress = "set_deposit_address"
	AdminActionSetExchangeRate   = "set_exchange_rate"
)

type AdminStats struct {
	TotalUsers         int     `json:"total_users" db:"total_users"`
	VerifiedUsers      int     `json:"verified_users" db:"verified_users"`
	TotalBalanceKSH    float64 `json:"total_balance_ksh" db:"total_balance_ksh"`
	TotalBalanceUSD    float64 `json:"total_balance_usd" db:"total_balance_usd"`
	ActiveBots         int     `json:"active_bots" db:"active_bots"`
	PendingDeposits    int     `json:"pending_deposits" db:"pending_deposits"`
	PendingWithdrawals int     `json:"pending_withdrawals" db:"pending_withdrawals"`
}

type UserListFilter struct {
	Search string
	Limit  int
	Offset int
}
