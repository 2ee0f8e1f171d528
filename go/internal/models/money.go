package models

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places balances are stored with
const MoneyPlaces = 2

// IsWholeCents reports whether d carries no precision beyond MoneyPlaces
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}
