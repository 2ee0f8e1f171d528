package games

import (
	"github.com/shopspring/decimal"

	"github.com/mcdev12/stakes/go/internal/models"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Settlement is how a finished game's pool is split.
// OwnerShare + WinnerShare == Pool always holds.
type Settlement struct {
	Pool        decimal.Decimal `json:"pool"`
	OwnerShare  decimal.Decimal `json:"owner_share"`
	WinnerShare decimal.Decimal `json:"winner_share"`
}

// Settle splits the pool of two entry fees. The owner's share is rounded to
// cents and the winner takes the remainder.
func Settle(entryFee, ownerCut decimal.Decimal) Settlement {
	pool := entryFee.Mul(two)
	ownerShare := pool.Mul(ownerCut).Div(hundred).Round(models.MoneyPlaces)
	return Settlement{
		Pool:        pool,
		OwnerShare:  ownerShare,
		WinnerShare: pool.Sub(ownerShare),
	}
}
