package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/stakes/go/internal/models"
	"github.com/mcdev12/stakes/go/internal/sqlutil"
	"github.com/mcdev12/stakes/go/internal/users/db"
)

const uniqueViolation = "23505"

// Repository implements user data access operations
type Repository struct {
	db      *sql.DB
	queries *db.Queries
}

// NewRepository creates a new users repository
func NewRepository(queries *db.Queries, database *sql.DB) *Repository {
	return &Repository{
		db:      database,
		queries: queries,
	}
}

// InTx runs fn against a transaction-bound view of the repository
func (r *Repository) InTx(ctx context.Context, fn func(tx UsersTx) error) error {
	return sqlutil.Run(ctx, r.db, r.queries.WithTx, func(q *db.Queries) error {
		return fn(&txRepository{queries: q})
	})
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := r.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return dbUserToModel(user), nil
}

// GetUserByUsername retrieves a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := r.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return dbUserToModel(user), nil
}

// ListLedgerEntries returns a user's most recent balance movements
func (r *Repository) ListLedgerEntries(ctx context.Context, userID uuid.UUID, limit int32) ([]models.LedgerEntry, error) {
	rows, err := r.queries.ListLedgerEntries(ctx, db.ListLedgerEntriesParams{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	entries := make([]models.LedgerEntry, len(rows))
	for i, row := range rows {
		entries[i] = models.LedgerEntry{
			ID:        row.ID,
			GameID:    sqlutil.FromNullUUID(row.GameID),
			UserID:    row.UserID,
			Kind:      models.LedgerKind(row.Kind),
			Amount:    row.Amount,
			Details:   sqlutil.FromNullRawMessage(row.Details),
			CreatedAt: row.CreatedAt,
		}
	}
	return entries, nil
}

type txRepository struct {
	queries *db.Queries
}

func (t *txRepository) InsertUser(ctx context.Context, username string, balance decimal.Decimal) (*models.User, error) {
	user, err := t.queries.CreateUser(ctx, db.CreateUserParams{
		ID:       uuid.New(),
		Username: username,
		Balance:  balance,
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return dbUserToModel(user), nil
}

func (t *txRepository) LockUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := t.queries.LockUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	return dbUserToModel(user), nil
}

func (t *txRepository) Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.User, error) {
	user, err := t.queries.CreditUser(ctx, db.CreditUserParams{ID: id, Balance: amount})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to credit user: %w", err)
	}
	return dbUserToModel(user), nil
}

func (t *txRepository) RecordDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	err := t.queries.InsertDepositEntry(ctx, db.InsertDepositEntryParams{
		ID:     uuid.New(),
		UserID: userID,
		Amount: amount,
	})
	if err != nil {
		return fmt.Errorf("failed to record deposit: %w", err)
	}
	return nil
}

// dbUserToModel converts a database user to domain model
func dbUserToModel(dbUser db.User) *models.User {
	return &models.User{
		ID:        dbUser.ID,
		Username:  dbUser.Username,
		Balance:   dbUser.Balance,
		CreatedAt: dbUser.CreatedAt,
	}
}
