package games

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/stakes/go/internal/models"
)

// CreateGameRequest opens a game. OwnerID defaults to Player1ID.
type CreateGameRequest struct {
	Player1ID uuid.UUID       `json:"player1_id"`
	OwnerID   *uuid.UUID      `json:"owner_id,omitempty"`
	EntryFee  decimal.Decimal `json:"entry_fee"`
	OwnerCut  decimal.Decimal `json:"owner_cut"`
}

// JoinGameRequest seats the second player
type JoinGameRequest struct {
	Player2ID uuid.UUID `json:"player2_id"`
}

// EndGameRequest reports the winner of an active game
type EndGameRequest struct {
	WinnerID uuid.UUID `json:"winner_id"`
}

// CancelGameRequest carries an optional reason for cancelling
type CancelGameRequest struct {
	Reason string `json:"reason"`
}

// ListGamesFilter narrows ListGames
type ListGamesFilter struct {
	Status *models.GameStatus
	Limit  int32
}

// Rules bound what a game may be created with and how long it may wait for players
type Rules struct {
	MinEntryFee decimal.Decimal
	MaxEntryFee decimal.Decimal
	MaxOwnerCut decimal.Decimal
	WaitingTTL  time.Duration
}

// DefaultRules returns permissive defaults
func DefaultRules() Rules {
	return Rules{
		MinEntryFee: decimal.RequireFromString("0.01"),
		MaxEntryFee: decimal.NewFromInt(10000),
		MaxOwnerCut: decimal.NewFromInt(100),
		WaitingTTL:  30 * time.Minute,
	}
}

const (
	CancelReasonRequested = "requested"
	CancelReasonExpired   = "expired"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	staleBatchSize   = 100
)
