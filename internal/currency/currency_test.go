package currency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse(" ksh ")
	require.NoError(t, err)
	assert.Equal(t, KSH, c)

	c, err = Parse("USD")
	require.NoError(t, err)
	assert.Equal(t, USD, c)

	_, err = Parse("EUR")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestConvert(t *testing.T) {
	conv := NewConverter(129.76)

	tests := []struct {
		name     string
		amount   float64
		from, to Currency
		want     float64
	}{
		{"same currency", 500, KSH, KSH, 500},
		{"usd to ksh", 10, USD, KSH, 1297.6},
		{"ksh to usd", 1297.6, KSH, USD, 10},
		{"rounds to cents", 1000, KSH, USD, 7.71},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.Convert(tt.amount, tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvertUnsupported(t *testing.T) {
	conv := NewConverter(129.76)

	_, err := conv.Convert(10, "EUR", KSH)
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	_, err = conv.Convert(10, KSH, "GBP")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestConvertRoundTrip(t *testing.T) {
	conv := NewConverter(129.76)
	// One cent of USD rounding is worth at most half a rate in KSH cents.
	tolerance := conv.Rate()*0.005 + 0.01

	for _, amount := range []float64{0, 1, 200, 999.99, 5000, 10000, 123456.78} {
		usd, err := conv.Convert(amount, KSH, USD)
		require.NoError(t, err)
		back, err := conv.Convert(usd, USD, KSH)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(back-amount), tolerance, "amount %v", amount)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "KSh 1,234.50", Format(1234.5, KSH))
	assert.Equal(t, "KSh 200.00", Format(200, KSH))
	assert.Equal(t, "$1,234,567.89", Format(1234567.891, USD))
	assert.Equal(t, "$0.00", Format(0, USD))
	assert.Equal(t, "-$5.25", Format(-5.25, USD))
}

func TestAmountsIn(t *testing.T) {
	assert.Equal(t, 200.0, SignupBonus.In(KSH))
	assert.Equal(t, 1.5, SignupBonus.In(USD))
	assert.Equal(t, 10000.0, ReferralMinDeposit.In(KSH))
	assert.Equal(t, KSH, USD.Other())
	assert.Equal(t, USD, KSH.Other())
}
