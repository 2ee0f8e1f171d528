package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is a pending game event read from the outbox table
type OutboxEvent struct {
	ID        uuid.UUID       `json:"id"`
	GameID    uuid.UUID       `json:"game_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Publisher delivers an outbox event to the message bus
type Publisher interface {
	Publish(ctx context.Context, event OutboxEvent) error
}

// Store is the outbox table as seen by the relay
type Store interface {
	FetchOutboxByID(ctx context.Context, id uuid.UUID) (*OutboxEvent, error)
	FetchUnsentOutbox(ctx context.Context, limit int32) ([]OutboxEvent, error)
	MarkOutboxSent(ctx context.Context, id uuid.UUID) error
	CountUnsentOutbox(ctx context.Context) (int64, error)
	// OldestUnsentOutbox returns the creation time of the oldest pending
	// event, or the zero time when nothing is pending.
	OldestUnsentOutbox(ctx context.Context) (time.Time, error)
}
