// Package currency holds the two platform currencies, the fixed-rate
// converter between them and the per-currency business constants.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	KSH Currency = "KSH"
	USD Currency = "USD"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Parse normalises s and rejects anything other than KSH or USD.
func Parse(s string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case KSH, USD:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
	}
}

// Other returns the counterpart display currency.
func (c Currency) Other() Currency {
	if c == USD {
		return KSH
	}
	return USD
}

func (c Currency) Valid() bool {
	return c == KSH || c == USD
}

// Converter converts between KSH and USD using a single USD->KSH rate,
// so KSH->USD->KSH round trips only lose cent rounding.
type Converter struct {
	usdToKSH decimal.Decimal
}

func NewConverter(usdToKSH float64) Converter {
	return Converter{usdToKSH: decimal.NewFromFloat(usdToKSH)}
}

// Rate returns the number of KSH per USD.
func (c Converter) Rate() float64 {
	return c.usdToKSH.InexactFloat64()
}

// Convert converts amount from one currency to another, rounding to cents.
func (c Converter) Convert(amount float64, from, to Currency) (float64, error) {
	if !from.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, from)
	}
	if !to.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, to)
	}
	return c.convert(decimal.NewFromFloat(amount), from, to).Round(2).InexactFloat64(), nil
}

func (c Converter) convert(amount decimal.Decimal, from, to Currency) decimal.Decimal {
	if from == to {
		return amount
	}
	usd := amount
	if from == KSH {
		usd = amount.Div(c.usdToKSH)
	}
	if to == KSH {
		return usd.Mul(c.usdToKSH)
	}
	return usd
}

// ToKSH converts amount into the canonical storage currency.
func (c Converter) ToKSH(amount float64, from Currency) (float64, error) {
	return c.Convert(amount, from, KSH)
}

// Format renders amount for display, e.g. "KSh 1,234.50" or "$12.00".
func Format(amount float64, cur Currency) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if cur == USD {
		return sign + "$" + b.String() + frac
	}
	return sign + "KSh " + b.String() + frac
}

// Amounts is a per-currency constant.
type Amounts struct {
	KSH float64
	USD float64
}

func (a Amounts) In(c Currency) float64 {
	if c == USD {
		return a.USD
	}
	return a.KSH
}

var (
	SignupBonus        = Amounts{KSH: 200, USD: 1.5}
	ReferralBonus      = Amounts{KSH: 300, USD: 2.3}
	ReferralMinDeposit = Amounts{KSH: 10000, USD: 66.67}
	MinWithdrawal      = Amounts{KSH: 1200, USD: 9.25}
	BonusPerReferral   = Amounts{KSH: 200, USD: 1.33}
	DemoBalance        = Amounts{KSH: 1297600, USD: 10000}
)
