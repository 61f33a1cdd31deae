package service

import (
	"github.com/shopspring/decimal"

	"github.com/forexpro/backend/internal/model"
)

type profitBracket struct {
	min        float64
	multiplier float64
}

// profitBrackets maps a KSH investment to its payout multiplier. The
// list is ordered by descending minimum; the first match wins.
var profitBrackets = []profitBracket{
	{100000, 2.5},
	{70000, 2.8},
	{50000, 2.25},
	{45000, 2.3},
	{40000, 2.3},
	{30000, 2.6},
	{20000, 2.5},
	{15000, 2.4},
	{10000, 2.3},
	{7000, 2.65},
	{2000, 2.33},
}

const defaultMultiplier = 2.2

// ProfitMultiplier returns the bracket multiplier for an investment in KSH.
func ProfitMultiplier(investmentKSH float64) float64 {
	for _, b := range profitBrackets {
		if investmentKSH >= b.min {
			return b.multiplier
		}
	}
	return defaultMultiplier
}

// Profit is the payout schedule fixed at purchase time.
type Profit struct {
	Multiplier  float64
	TotalProfit float64
	DailyProfit float64
}

// CalculateProfit computes total = investment * multiplier and
// daily = total / 30, both in KSH and rounded to cents.
func CalculateProfit(investmentKSH float64) Profit {
	m := ProfitMultiplier(investmentKSH)
	total := decimal.NewFromFloat(investmentKSH).Mul(decimal.NewFromFloat(m)).Round(2)
	daily := total.Div(decimal.NewFromInt(model.BotCycleDays)).Round(2)

	return Profit{
		Multiplier:  m,
		TotalProfit: total.InexactFloat64(),
		DailyProfit: daily.InexactFloat64(),
	}
}
