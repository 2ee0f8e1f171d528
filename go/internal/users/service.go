package users

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

// UsersApp defines what the service layer needs from the users application
type UsersApp interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	Deposit(ctx context.Context, id uuid.UUID, req DepositRequest) (*models.User, error)
	ListLedger(ctx context.Context, id uuid.UUID, limit int32) ([]models.LedgerEntry, error)
}

// Service exposes the users app over JSON HTTP
type Service struct {
	app UsersApp
}

// NewService creates a new users HTTP service
func NewService(app UsersApp) *Service {
	return &Service{
		app: app,
	}
}

// Routes mounts the users endpoints on r
func (s *Service) Routes(r chi.Router) {
	r.Post("/", s.CreateUser)
	r.Get("/{id}", s.GetUser)
	r.Post("/{id}/deposit", s.Deposit)
	r.Get("/{id}/ledger", s.ListLedger)
}

// CreateUser creates a new user
func (s *Service) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.app.CreateUser(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, user)
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	user, err := s.app.GetUser(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, user)
}

// Deposit credits funds to a user
func (s *Service) Deposit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req DepositRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.app.Deposit(r.Context(), id, req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, user)
}

// ListLedger returns the user's balance movements, newest first
func (s *Service) ListLedger(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n <= 0 {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = int32(n)
	}

	entries, err := s.app.ListLedger(r.Context(), id, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}

	httpx.WriteJSON(w, http.StatusOK, entries)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}
	return id, true
}

func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUsernameTaken):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("users request failed")
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
