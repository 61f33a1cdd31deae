package model

import "time"

type BotStatus string

const (
	BotStatusActive    BotStatus = "active"
	BotStatusCompleted BotStatus = "completed"
)

const (
	BotCycleDays       = 30
	BotProgressStep    = 10
	DefaultBotImageURL = "https://images.unsplash.com/photo-1639762681485-074b7f938ba0"
)

// TradingBot is a per-user investment. Profit figures are stored in KSH.
type TradingBot struct {
	ID             int64      `json:"id" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	Name           string     `json:"name" db:"name"`
	Investment     float64    `json:"investment" db:"investment"`
	InvestmentKSH  float64    `json:"investment_ksh" db:"investment_ksh"`
	Multiplier     float64    `json:"multiplier" db:"multiplier"`
	DailyProfit    float64    `json:"daily_profit" db:"daily_profit"`
	TotalProfit    float64    `json:"total_profit" db:"total_profit"`
	Progress       int        `json:"progress" db:"progress"`
	Status         BotStatus  `json:"status" db:"status"`
	ImageURL       string     `json:"image_url" db:"image_url"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	NextMiningTime time.Time  `json:"next_mining_time" db:"next_mining_time"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// BotWithOwner is used by the admin bot listing.
type BotWithOwner struct {
	TradingBot
	UserName  string `json:"user_name" db:"user_name"`
	UserEmail string `json:"user_email" db:"user_email"`
}

type BotTemplate struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Price       float64 `json:"price" db:"price"`
	Description *string `json:"description,omitempty" db:"description"`
	ImageURL    *string `json:"image_url,omitempty" db:"image_url"`
	IsActive    bool    `json:"is_active" db:"is_active"`
}

// BotProgressResult reports the outcome of a progress update.
type BotProgressResult struct {
	Bot       *TradingBot `json:"bot"`
	Progress  int         `json:"progress"`
	Completed bool        `json:"completed"`
	Credited  float64     `json:"credited"`
}

// BotStep describes a progress update: Set moves to an absolute value,
// otherwise Delta is added to the current progress.
type BotStep struct {
	Set   *int
	Delta int
}

// Apply returns the new progress, clamped to 0..100 and never below current.
func (s BotStep) Apply(current int) int {
	next := current + s.Delta
	if s.Set != nil {
		next = *s.Set
	}
	if next < current {
		next = current
	}
	if next > 100 {
		next = 100
	}
	return next
}
