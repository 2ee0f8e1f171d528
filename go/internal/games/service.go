package games

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/stakes/go/internal/httpx"
	"github.com/mcdev12/stakes/go/internal/models"
)

// GamesApp defines what the service layer needs from the games application
type GamesApp interface {
	CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error)
	JoinGame(ctx context.Context, id uuid.UUID, req JoinGameRequest) (*models.Game, error)
	StartGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	EndGame(ctx context.Context, id uuid.UUID, req EndGameRequest) (*models.Game, error)
	CancelGame(ctx context.Context, id uuid.UUID, req CancelGameRequest) (*models.Game, error)
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	ListGames(ctx context.Context, filter ListGamesFilter) ([]*models.Game, error)
}

// Service exposes the games app over JSON HTTP
type Service struct {
	app GamesApp
}

// NewService creates a new games HTTP service
func NewService(app GamesApp) *Service {
	return &Service{
		app: app,
	}
}

// Routes mounts the games endpoints on r
func (s *Service) Routes(r chi.Router) {
	r.Post("/", s.CreateGame)
	r.Get("/", s.ListGames)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", s.GetGame)
		r.Post("/join", s.JoinGame)
		r.Post("/start", s.StartGame)
		r.Post("/end", s.EndGame)
		r.Post("/cancel", s.CancelGame)
	})
}

// CreateGame opens a new game
func (s *Service) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	game, err := s.app.CreateGame(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, game)
}

// ListGames lists recent games, optionally filtered by ?status=
func (s *Service) ListGames(w http.ResponseWriter, r *http.Request) {
	var filter ListGamesFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := models.ParseGameStatus(raw)
		if !ok {
			httpx.WriteError(w, http.StatusBadRequest, "unknown status: "+raw)
			return
		}
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || limit <= 0 {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = int32(limit)
	}

	games, err := s.app.ListGames(r.Context(), filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if games == nil {
		games = []*models.Game{}
	}

	httpx.WriteJSON(w, http.StatusOK, games)
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	game, err := s.app.GetGame(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, game)
}

// JoinGame seats player 2
func (s *Service) JoinGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req JoinGameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	game, err := s.app.JoinGame(r.Context(), id, req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, game)
}

// StartGame starts a game once both players are seated. No body.
func (s *Service) StartGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	game, err := s.app.StartGame(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, game)
}

// EndGame settles an active game
func (s *Service) EndGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req EndGameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	game, err := s.app.EndGame(r.Context(), id, req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, game)
}

// CancelGame cancels an unstarted game. The body is optional.
func (s *Service) CancelGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req CancelGameRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	game, err := s.app.CancelGame(r.Context(), id, req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, game)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid game id")
		return uuid.Nil, false
	}
	return id, true
}

func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrGameNotFound), errors.Is(err, ErrPlayerNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		httpx.WriteError(w, http.StatusPaymentRequired, err.Error())
	default:
		log.Error().Err(err).Msg("games request failed")
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
