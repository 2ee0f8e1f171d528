package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultSubjectPrefix is the NATS subject prefix game events are published under
const DefaultSubjectPrefix = "game.events"

// Envelope is the wire format of a game event on the message bus
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	GameID    string          `json:"gameId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Subject returns the subject an event of type t is published on
func Subject(prefix string, t string) string {
	return fmt.Sprintf("%s.%s", prefix, t)
}
