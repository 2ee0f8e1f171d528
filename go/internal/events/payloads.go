package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event payload types that are shared between the games and gateway packages

// Type names a game event. It doubles as the last token of the NATS subject.
type Type string

const (
	TypeGameCreated   Type = "GameCreated"
	TypePlayerJoined  Type = "PlayerJoined"
	TypeGameStarted   Type = "GameStarted"
	TypeGameEnded     Type = "GameEnded"
	TypeGameCancelled Type = "GameCancelled"
)

// ParseType returns the event type named by s, or false if it is unknown
func ParseType(s string) (Type, bool) {
	switch t := Type(s); t {
	case TypeGameCreated, TypePlayerJoined, TypeGameStarted, TypeGameEnded, TypeGameCancelled:
		return t, true
	}
	return "", false
}

// GameCreatedPayload is the payload for a GameCreated event
type GameCreatedPayload struct {
	GameID    string          `json:"game_id"`
	OwnerID   string          `json:"owner_id"`
	Player1ID string          `json:"player1_id"`
	EntryFee  decimal.Decimal `json:"entry_fee"`
	OwnerCut  decimal.Decimal `json:"owner_cut"`
	CreatedAt time.Time       `json:"created_at"`
}

// PlayerJoinedPayload is the payload for a PlayerJoined event
type PlayerJoinedPayload struct {
	GameID    string    `json:"game_id"`
	Player2ID string    `json:"player2_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// GameStartedPayload is the payload for a GameStarted event
type GameStartedPayload struct {
	GameID    string    `json:"game_id"`
	StartedAt time.Time `json:"started_at"`
}

// GameEndedPayload is the payload for a GameEnded event
type GameEndedPayload struct {
	GameID      string          `json:"game_id"`
	WinnerID    string          `json:"winner_id"`
	OwnerID     string          `json:"owner_id"`
	Pool        decimal.Decimal `json:"pool"`
	WinnerShare decimal.Decimal `json:"winner_share"`
	OwnerShare  decimal.Decimal `json:"owner_share"`
	EndedAt     time.Time       `json:"ended_at"`
}

// GameCancelledPayload is the payload for a GameCancelled event
type GameCancelledPayload struct {
	GameID      string          `json:"game_id"`
	Reason      string          `json:"reason"`
	Refunded    decimal.Decimal `json:"refunded"`
	CancelledAt time.Time       `json:"cancelled_at"`
}
