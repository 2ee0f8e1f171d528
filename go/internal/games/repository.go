package games

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/stakes/go/internal/events"
	"github.com/mcdev12/stakes/go/internal/games/db"
	"github.com/mcdev12/stakes/go/internal/models"
	"github.com/mcdev12/stakes/go/internal/sqlutil"
)

// Repository implements game data access on Postgres
type Repository struct {
	db      *sql.DB
	queries *db.Queries
}

// NewRepository creates a new games repository
func NewRepository(queries *db.Queries, database *sql.DB) *Repository {
	return &Repository{
		db:      database,
		queries: queries,
	}
}

// InTx runs fn against a transaction-bound view of the repository
func (r *Repository) InTx(ctx context.Context, fn func(tx GamesTx) error) error {
	return sqlutil.Run(ctx, r.db, r.queries.WithTx, func(q *db.Queries) error {
		return fn(&txRepository{queries: q})
	})
}

// GetGame retrieves a game by ID
func (r *Repository) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	game, err := r.queries.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return dbGameToModel(game), nil
}

// ListGames lists the most recent games
func (r *Repository) ListGames(ctx context.Context, filter ListGamesFilter) ([]*models.Game, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	rows, err := r.queries.ListGames(ctx, db.ListGamesParams{
		Limit:  filter.Limit,
		Status: sqlutil.ToSqlString(status),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	games := make([]*models.Game, len(rows))
	for i, row := range rows {
		games[i] = dbGameToModel(row)
	}
	return games, nil
}

// ListStaleGames returns ids of unstarted games created before createdBefore, oldest first
func (r *Repository) ListStaleGames(ctx context.Context, createdBefore time.Time, limit int32) ([]uuid.UUID, error) {
	ids, err := r.queries.ListStaleGames(ctx, db.ListStaleGamesParams{
		CreatedAt: createdBefore,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list stale games: %w", err)
	}
	return ids, nil
}

type txRepository struct {
	queries *db.Queries
}

func (t *txRepository) LockGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	game, err := t.queries.LockGame(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to lock game: %w", err)
	}
	return dbGameToModel(game), nil
}

func (t *txRepository) InsertGame(ctx context.Context, game *models.Game) error {
	err := t.queries.InsertGame(ctx, db.InsertGameParams{
		ID:        game.ID,
		OwnerID:   game.OwnerID,
		Player1ID: game.Player1ID,
		EntryFee:  game.EntryFee,
		OwnerCut:  game.OwnerCut,
		Status:    string(game.Status),
		CreatedAt: game.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

func (t *txRepository) UpdateGame(ctx context.Context, game *models.Game) error {
	err := t.queries.UpdateGame(ctx, db.UpdateGameParams{
		ID:        game.ID,
		Player2ID: sqlutil.ToNullUUID(game.Player2ID),
		WinnerID:  sqlutil.ToNullUUID(game.WinnerID),
		Status:    string(game.Status),
		StartedAt: sqlutil.ToSqlTime(game.StartedAt),
		EndedAt:   sqlutil.ToSqlTime(game.EndedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

func (t *txRepository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := t.queries.UserExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return exists, nil
}

func (t *txRepository) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	n, err := t.queries.DebitUser(ctx, db.DebitUserParams{ID: userID, Balance: amount})
	if err != nil {
		return fmt.Errorf("failed to debit user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s cannot cover %s", ErrInsufficientFunds, userID, amount.StringFixed(2))
	}
	return nil
}

func (t *txRepository) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	n, err := t.queries.CreditUser(ctx, db.CreditUserParams{ID: userID, Balance: amount})
	if err != nil {
		return fmt.Errorf("failed to credit user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}
	return nil
}

func (t *txRepository) RecordLedger(ctx context.Context, entry models.LedgerEntry) error {
	err := t.queries.InsertLedgerEntry(ctx, db.InsertLedgerEntryParams{
		ID:        entry.ID,
		GameID:    sqlutil.ToNullUUID(entry.GameID),
		UserID:    entry.UserID,
		Kind:      string(entry.Kind),
		Amount:    entry.Amount,
		Details:   sqlutil.ToNullRawMessage(entry.Details),
		CreatedAt: entry.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return nil
}

func (t *txRepository) EnqueueEvent(ctx context.Context, gameID uuid.UUID, eventType events.Type, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	err = t.queries.InsertOutboxEvent(ctx, db.InsertOutboxEventParams{
		ID:        uuid.New(),
		GameID:    gameID,
		EventType: string(eventType),
		Payload:   data,
	})
	if err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", eventType, err)
	}
	return nil
}

// dbGameToModel converts a database game to domain model
func dbGameToModel(g db.Game) *models.Game {
	return &models.Game{
		ID:        g.ID,
		OwnerID:   g.OwnerID,
		Player1ID: g.Player1ID,
		Player2ID: sqlutil.FromNullUUID(g.Player2ID),
		WinnerID:  sqlutil.FromNullUUID(g.WinnerID),
		EntryFee:  g.EntryFee,
		OwnerCut:  g.OwnerCut,
		Status:    models.GameStatus(g.Status),
		CreatedAt: g.CreatedAt,
		StartedAt: sqlutil.FromSqlTime(g.StartedAt),
		EndedAt:   sqlutil.FromSqlTime(g.EndedAt),
	}
}
