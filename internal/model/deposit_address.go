package model

import "time"

var (
	DepositCoins    = []string{"USDT", "BTC", "ETH"}
	DepositNetworks = []string{"BSC", "ETH", "BTC"}
)

const (
	DefaultDepositCoin    = "USDT"
	DefaultDepositNetwork = "BSC"
)

type DepositAddress struct {
	Coin      string    `json:"coin" db:"coin"`
	Network   string    `json:"network" db:"network"`
	Address   string    `json:"address" db:"address"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
