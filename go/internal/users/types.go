package users

import "github.com/shopspring/decimal"

// CreateUserRequest represents the data needed to create a new user
type CreateUserRequest struct {
	Username       string          `json:"username"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// DepositRequest credits funds to a user's balance
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Limits bounds the money a single request can bring into the system
type Limits struct {
	MaxDeposit decimal.Decimal
	// MaxBalance stays inside the NUMERIC(18,2) balance column.
	MaxBalance decimal.Decimal
}

func DefaultLimits() Limits {
	return Limits{
		MaxDeposit: decimal.NewFromInt(1_000_000),
		MaxBalance: decimal.RequireFromString("9999999999999999.99"),
	}
}

const (
	defaultLedgerLimit = 50
	maxLedgerLimit     = 500
)
