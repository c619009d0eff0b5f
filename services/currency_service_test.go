package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquintero/muebleria_backend/models"
)

func testRates() models.RateMap {
	return models.RateMap{
		models.CurrencyUSD: {Currency: models.CurrencyUSD, Rate: 40, EffectiveDate: time.Now()},
		models.CurrencyEUR: {Currency: models.CurrencyEUR, Rate: 44.5, EffectiveDate: time.Now()},
	}
}

func TestToBaseIdentity(t *testing.T) {
	rates := testRates()
	for _, amount := range []float64{0, 1, 123.45, 1e9, -50} {
		got, warn := ToBase(amount, models.CurrencyBs, rates)
		assert.Equal(t, amount, got)
		assert.Nil(t, warn)
	}

	// Identity holds with no rates at all.
	got, warn := ToBase(99.9, models.CurrencyBs, models.RateMap{})
	assert.Equal(t, 99.9, got)
	assert.Nil(t, warn)
}

func TestToBaseConversion(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency models.Currency
		want     float64
	}{
		{"usd", 500, models.CurrencyUSD, 20000},
		{"eur", 10, models.CurrencyEUR, 445},
		{"zero amount", 0, models.CurrencyUSD, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warn := ToBase(tt.amount, tt.currency, testRates())
			assert.Equal(t, tt.want, got)
			assert.Nil(t, warn)
		})
	}
}

func TestToBaseMissingRate(t *testing.T) {
	got, warn := ToBase(500, models.CurrencyUSD, models.RateMap{})
	assert.Equal(t, 500.0, got)
	require.NotNil(t, warn)
	assert.Equal(t, WarnMissingRate, warn.Code)
}

func TestToBaseNonPositiveRate(t *testing.T) {
	rates := models.RateMap{
		models.CurrencyUSD: {Currency: models.CurrencyUSD, Rate: 0},
		models.CurrencyEUR: {Currency: models.CurrencyEUR, Rate: -3},
	}

	got, warn := ToBase(100, models.CurrencyUSD, rates)
	assert.Equal(t, 100.0, got)
	require.NotNil(t, warn)
	assert.Equal(t, WarnMissingRate, warn.Code)

	got, warn = ToBase(100, models.CurrencyEUR, rates)
	assert.Equal(t, 100.0, got)
	require.NotNil(t, warn)
}
