package services

import (
	"github.com/dquintero/muebleria_backend/models"
)

// ToBase converts an amount in any supported currency to Bs using the
// supplied rate snapshot. Amounts already in Bs pass through unchanged.
//
// A missing or non-positive rate is a recoverable condition: the amount is
// returned unconverted together with a MissingRate warning so composition
// is never blocked, and the caller decides how loudly to surface it.
func ToBase(amount float64, currency models.Currency, rates models.RateMap) (float64, *Warning) {
	if currency.IsBase() {
		return amount, nil
	}
	rate, ok := rates[currency]
	if !ok || rate.Rate <= 0 {
		w := newWarning(WarnMissingRate, "no active exchange rate for %s, amount %g used as Bs", currency, amount)
		return amount, &w
	}
	return amount * rate.Rate, nil
}
