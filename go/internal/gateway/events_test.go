package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/stakes/go/internal/events"
	"github.com/mcdev12/stakes/go/internal/models"
)

func TestEventFromEnvelope(t *testing.T) {
	gameID := uuid.New()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	payload, err := json.Marshal(events.GameEndedPayload{
		GameID:      gameID.String(),
		WinnerID:    uuid.NewString(),
		Pool:        decimal.NewFromInt(20),
		WinnerShare: decimal.NewFromInt(18),
		OwnerShare:  decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	event, parsedID, err := eventFromEnvelope(events.Envelope{
		EventID:   "evt-1",
		EventType: "GameEnded",
		GameID:    gameID.String(),
		Timestamp: at,
		Payload:   payload,
	})
	require.NoError(t, err)
	assert.Equal(t, gameID, parsedID)
	assert.Equal(t, EventTypeGameEnded, event.Type)
	assert.Equal(t, at, event.Timestamp)

	parsed, err := ParseEventPayload(event)
	require.NoError(t, err)
	ended, ok := parsed.(events.GameEndedPayload)
	require.True(t, ok)
	assert.True(t, ended.WinnerShare.Equal(decimal.NewFromInt(18)))
}

func TestParseEventPayloadRejectsUnknownType(t *testing.T) {
	_, err := ParseEventPayload(&GameEvent{Type: "DraftPick", Data: json.RawMessage(`{}`)})
	assert.Error(t, err)
}

func TestEventFromEnvelopeRejects(t *testing.T) {
	_, _, err := eventFromEnvelope(events.Envelope{EventType: "PickMade", GameID: uuid.NewString()})
	assert.Error(t, err)

	_, _, err = eventFromEnvelope(events.Envelope{EventType: "GameStarted", GameID: "nope"})
	assert.Error(t, err)
}

func TestSnapshotEvent(t *testing.T) {
	game := &models.Game{ID: uuid.New(), Status: models.GameStatusReady, EntryFee: decimal.NewFromInt(5)}

	event, err := snapshotEvent(game, time.Now())
	require.NoError(t, err)
	assert.Equal(t, EventTypeGameSnapshot, event.Type)
	assert.Equal(t, game.ID.String(), event.GameID)

	parsed, err := ParseEventPayload(event)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusReady, parsed.(models.Game).Status)
}
