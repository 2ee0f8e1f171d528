package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/stakes/go/internal/events"
	"github.com/mcdev12/stakes/go/internal/models"
)

// GameEvent is what WebSocket clients receive
type GameEvent struct {
	ID        string          `json:"id"`      // Event UUID
	GameID    string          `json:"game_id"` // Game UUID
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType is the type of a WebSocket event
type EventType string

const (
	EventTypeGameCreated   EventType = EventType(events.TypeGameCreated)
	EventTypePlayerJoined  EventType = EventType(events.TypePlayerJoined)
	EventTypeGameStarted   EventType = EventType(events.TypeGameStarted)
	EventTypeGameEnded     EventType = EventType(events.TypeGameEnded)
	EventTypeGameCancelled EventType = EventType(events.TypeGameCancelled)

	// EventTypeGameSnapshot carries the current game to a client that just subscribed
	EventTypeGameSnapshot EventType = "GameSnapshot"
)

// eventFromEnvelope converts a bus envelope into the event sent to clients
func eventFromEnvelope(env events.Envelope) (*GameEvent, uuid.UUID, error) {
	t, ok := events.ParseType(env.EventType)
	if !ok {
		return nil, uuid.Nil, fmt.Errorf("unknown event type: %s", env.EventType)
	}

	gameID, err := uuid.Parse(env.GameID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("parse game ID: %w", err)
	}

	return &GameEvent{
		ID:        env.EventID,
		GameID:    gameID.String(),
		Type:      EventType(t),
		Timestamp: env.Timestamp,
		Data:      env.Payload,
	}, gameID, nil
}

func snapshotEvent(game *models.Game, at time.Time) (*GameEvent, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("marshal game snapshot: %w", err)
	}
	return &GameEvent{
		ID:        uuid.NewString(),
		GameID:    game.ID.String(),
		Type:      EventTypeGameSnapshot,
		Timestamp: at,
		Data:      data,
	}, nil
}

// ParseEventPayload decodes event data into the payload struct for its type.
// The consumer uses it to reject events whose payload does not match their type.
func ParseEventPayload(event *GameEvent) (interface{}, error) {
	switch event.Type {
	case EventTypeGameCreated:
		var payload events.GameCreatedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypePlayerJoined:
		var payload events.PlayerJoinedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGameStarted:
		var payload events.GameStartedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGameEnded:
		var payload events.GameEndedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGameCancelled:
		var payload events.GameCancelledPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGameSnapshot:
		var game models.Game
		if err := json.Unmarshal(event.Data, &game); err != nil {
			return nil, err
		}
		return game, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}
