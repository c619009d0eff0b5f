package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Currency identifies one of the supported currencies. All internal
// computation normalizes to Bs; USD and EUR amounts are converted using the
// active exchange-rate snapshot.
type Currency string

const (
	CurrencyBs  Currency = "Bs"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// IsBase reports whether the currency is the canonical one (Bs).
func (c Currency) IsBase() bool {
	return c == CurrencyBs || c == ""
}

// IsValid reports whether the currency is one of the supported values.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyBs, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// ExchangeRate stores how many Bs one unit of a foreign currency is worth
// at a given moment. Rates are written by the exchange-rate admin endpoints
// and read-only everywhere else.
type ExchangeRate struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Currency      Currency           `json:"currency" bson:"currency"`
	Rate          float64            `json:"rate" bson:"rate"`
	EffectiveDate time.Time          `json:"effectiveDate" bson:"effectiveDate"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// RateMap is the prefetched snapshot of active rates keyed by currency,
// as consumed by the pricing engine. The base currency never appears in it.
type RateMap map[Currency]ExchangeRate
