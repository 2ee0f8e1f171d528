package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/stakes/go/internal/models"
)

const maxUsernameLength = 32

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	InTx(ctx context.Context, fn func(tx UsersTx) error) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListLedgerEntries(ctx context.Context, userID uuid.UUID, limit int32) ([]models.LedgerEntry, error)
}

// UsersTx is the set of writes that commit together with a balance change
type UsersTx interface {
	InsertUser(ctx context.Context, username string, balance decimal.Decimal) (*models.User, error)
	LockUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.User, error)
	RecordDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error
}

// App handles users business logic. Every balance that enters the system
// is matched by a deposit ledger entry.
type App struct {
	repo   UsersRepository
	limits Limits
}

// NewApp creates a new users App
func NewApp(repo UsersRepository, limits Limits) *App {
	return &App{
		repo:   repo,
		limits: limits,
	}
}

// CreateUser creates a new user with validation
func (a *App) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := a.validateCreateUserRequest(req); err != nil {
		return nil, err
	}

	// Check if user with same username already exists
	existing, err := a.repo.GetUserByUsername(ctx, req.Username)
	if err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	var user *models.User
	err = a.repo.InTx(ctx, func(tx UsersTx) error {
		u, err := tx.InsertUser(ctx, req.Username, req.InitialBalance)
		if err != nil {
			return err
		}
		if req.InitialBalance.IsPositive() {
			if err := tx.RecordDeposit(ctx, u.ID, req.InitialBalance); err != nil {
				return err
			}
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Str("balance", user.Balance.StringFixed(2)).
		Msg("created user")
	return user, nil
}

// GetUser retrieves a user by ID
func (a *App) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return a.repo.GetUser(ctx, id)
}

// Deposit adds funds to a user's balance
func (a *App) Deposit(ctx context.Context, id uuid.UUID, req DepositRequest) (*models.User, error) {
	if err := a.validateAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	}

	var user *models.User
	err := a.repo.InTx(ctx, func(tx UsersTx) error {
		current, err := tx.LockUser(ctx, id)
		if err != nil {
			return err
		}
		if current.Balance.Add(req.Amount).GreaterThan(a.limits.MaxBalance) {
			return fmt.Errorf("%w: balance cannot exceed %s", ErrInvalidInput, a.limits.MaxBalance.StringFixed(2))
		}

		u, err := tx.Credit(ctx, id, req.Amount)
		if err != nil {
			return err
		}
		if err := tx.RecordDeposit(ctx, id, req.Amount); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", id.String()).
		Str("amount", req.Amount.StringFixed(2)).
		Str("balance", user.Balance.StringFixed(2)).
		Msg("deposit credited")
	return user, nil
}

// ListLedger returns the user's most recent ledger entries, newest first
func (a *App) ListLedger(ctx context.Context, id uuid.UUID, limit int32) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	if limit > maxLedgerLimit {
		limit = maxLedgerLimit
	}

	if _, err := a.repo.GetUser(ctx, id); err != nil {
		return nil, err
	}
	return a.repo.ListLedgerEntries(ctx, id, limit)
}

func (a *App) validateCreateUserRequest(req CreateUserRequest) error {
	if req.Username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(req.Username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be at most %d characters", ErrInvalidInput, maxUsernameLength)
	}
	return a.validateAmount("initial balance", req.InitialBalance)
}

func (a *App) validateAmount(name string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, name)
	}
	if !models.IsWholeCents(amount) {
		return fmt.Errorf("%w: %s supports at most 2 decimal places", ErrInvalidInput, name)
	}
	if amount.GreaterThan(a.limits.MaxDeposit) {
		return fmt.Errorf("%w: %s cannot exceed %s", ErrInvalidInput, name, a.limits.MaxDeposit.StringFixed(2))
	}
	return nil
}
