package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerKind classifies a balance movement
type LedgerKind string

const (
	LedgerKindDeposit  LedgerKind = "deposit"
	LedgerKindEntryFee LedgerKind = "entry_fee"
	LedgerKindRefund   LedgerKind = "refund"
	LedgerKindPayout   LedgerKind = "payout"
	LedgerKindOwnerCut LedgerKind = "owner_cut"
)

// LedgerEntry records one balance movement. Amount is signed: debits are negative.
type LedgerEntry struct {
	ID        uuid.UUID       `json:"id"`
	GameID    *uuid.UUID      `json:"game_id,omitempty"`
	UserID    uuid.UUID       `json:"user_id"`
	Kind      LedgerKind      `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
