package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/stakes/go/internal/games"
	"github.com/mcdev12/stakes/go/internal/httpx"
	"github.com/mcdev12/stakes/go/internal/models"
)

// StateProvider looks up the current state of a game for newly connected
// clients. Unknown games are reported as games.ErrGameNotFound.
type StateProvider interface {
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
}

// WebSocketHandler handles WebSocket upgrade requests
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	stateProvider     StateProvider
}

// NewWebSocketHandler creates a handler. provider may be nil, in which case
// clients get no snapshot on connect.
func NewWebSocketHandler(cm *ConnectionManager, provider StateProvider) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		stateProvider:     provider,
	}
}

// HandleGameConnection subscribes the client to ?game_id=, or to every game when omitted
func (h *WebSocketHandler) HandleGameConnection(w http.ResponseWriter, r *http.Request) {
	gameID := LobbyID
	if raw := r.URL.Query().Get("game_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil || id == LobbyID {
			httpx.WriteError(w, http.StatusBadRequest, "invalid game_id format")
			return
		}
		gameID = id
	}

	var initial *GameEvent
	if gameID != LobbyID && h.stateProvider != nil {
		game, err := h.stateProvider.GetGame(r.Context(), gameID)
		switch {
		case err == nil:
			initial, err = snapshotEvent(game, time.Now().UTC())
			if err != nil {
				log.Error().Err(err).Str("game_id", gameID.String()).Msg("failed to build game snapshot")
			}
		case errors.Is(err, games.ErrGameNotFound):
			httpx.WriteError(w, http.StatusNotFound, "game not found")
			return
		default:
			log.Error().Err(err).Str("game_id", gameID.String()).Msg("failed to load game state")
		}
	}

	// On failure the upgrader has already replied to the client.
	if err := h.connectionManager.UpgradeConnection(w, r, gameID, initial); err != nil {
		log.Error().
			Err(err).
			Str("game_id", gameID.String()).
			Msg("failed to upgrade WebSocket connection")
	}
}

// HandleConnectionStats reports active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.connectionManager.Stats())
}

// RegisterRoutes mounts the WebSocket routes on r
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/game", h.HandleGameConnection)
	r.Get("/ws/stats", h.HandleConnectionStats)
}
