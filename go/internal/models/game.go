package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GameStatus is the lifecycle state of a game
type GameStatus string

const (
	GameStatusWaiting   GameStatus = "waiting"
	GameStatusReady     GameStatus = "ready"
	GameStatusActive    GameStatus = "active"
	GameStatusFinished  GameStatus = "finished"
	GameStatusCancelled GameStatus = "cancelled"
)

// ParseGameStatus returns the status named by s, or false if s is not a known status
func ParseGameStatus(s string) (GameStatus, bool) {
	switch st := GameStatus(s); st {
	case GameStatusWaiting, GameStatusReady, GameStatusActive, GameStatusFinished, GameStatusCancelled:
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no further transitions are possible
func (s GameStatus) IsTerminal() bool {
	return s == GameStatusFinished || s == GameStatusCancelled
}

// Game is a two-player wager. OwnerCut is a percentage of the pool.
type Game struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Player1ID uuid.UUID       `json:"player1_id"`
	Player2ID *uuid.UUID      `json:"player2_id"`
	WinnerID  *uuid.UUID      `json:"winner_id"`
	EntryFee  decimal.Decimal `json:"entry_fee"`
	OwnerCut  decimal.Decimal `json:"owner_cut"`
	Status    GameStatus      `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	StartedAt *time.Time      `json:"started_at,omitempty"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
}

// IsPlayer reports whether id is seated in the game
func (g *Game) IsPlayer(id uuid.UUID) bool {
	if g.Player1ID == id {
		return true
	}
	return g.Player2ID != nil && *g.Player2ID == id
}

// Players returns the seated players in seat order
func (g *Game) Players() []uuid.UUID {
	players := []uuid.UUID{g.Player1ID}
	if g.Player2ID != nil {
		players = append(players, *g.Player2ID)
	}
	return players
}
