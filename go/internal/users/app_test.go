package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/stakes/go/internal/models"
)

type memRepo struct {
	users  map[uuid.UUID]*models.User
	ledger []models.LedgerEntry
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[uuid.UUID]*models.User)}
}

// InTx applies fn to a copy of the state and keeps it only when fn succeeds.
func (m *memRepo) InTx(_ context.Context, fn func(tx UsersTx) error) error {
	tx := &memTx{users: make(map[uuid.UUID]*models.User, len(m.users))}
	for id, u := range m.users {
		c := *u
		tx.users[id] = &c
	}
	tx.ledger = append([]models.LedgerEntry(nil), m.ledger...)

	if err := fn(tx); err != nil {
		return err
	}
	m.users = tx.users
	m.ledger = tx.ledger
	return nil
}

func (m *memRepo) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (m *memRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) ListLedgerEntries(_ context.Context, userID uuid.UUID, limit int32) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for i := len(m.ledger) - 1; i >= 0 && int32(len(out)) < limit; i-- {
		if m.ledger[i].UserID == userID {
			out = append(out, m.ledger[i])
		}
	}
	return out, nil
}

// depositTotal sums the deposit entries recorded for a user
func (m *memRepo) depositTotal(userID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, e := range m.ledger {
		if e.UserID == userID && e.Kind == models.LedgerKindDeposit {
			total = total.Add(e.Amount)
		}
	}
	return total
}

type memTx struct {
	users  map[uuid.UUID]*models.User
	ledger []models.LedgerEntry
}

func (t *memTx) InsertUser(_ context.Context, username string, balance decimal.Decimal) (*models.User, error) {
	for _, u := range t.users {
		if u.Username == username {
			return nil, ErrUsernameTaken
		}
	}
	u := &models.User{ID: uuid.New(), Username: username, Balance: balance, CreatedAt: time.Now()}
	t.users[u.ID] = u
	c := *u
	return &c, nil
}

func (t *memTx) LockUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := t.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (t *memTx) Credit(_ context.Context, id uuid.UUID, amount decimal.Decimal) (*models.User, error) {
	u, ok := t.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Balance = u.Balance.Add(amount)
	c := *u
	return &c, nil
}

func (t *memTx) RecordDeposit(_ context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	t.ledger = append(t.ledger, models.LedgerEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      models.LedgerKindDeposit,
		Amount:    amount,
		CreatedAt: time.Now(),
	})
	return nil
}

func newTestApp(repo *memRepo) *App {
	return NewApp(repo, DefaultLimits())
}

func TestCreateUser(t *testing.T) {
	app := newTestApp(newMemRepo())
	ctx := context.Background()

	user, err := app.CreateUser(ctx, CreateUserRequest{Username: "  alice ", InitialBalance: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(50)))

	_, err = app.CreateUser(ctx, CreateUserRequest{Username: "alice"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreateUserValidation(t *testing.T) {
	app := newTestApp(newMemRepo())
	ctx := context.Background()

	cases := []CreateUserRequest{
		{Username: ""},
		{Username: "   "},
		{Username: "bob", InitialBalance: decimal.NewFromInt(-1)},
		{Username: "bob", InitialBalance: decimal.RequireFromString("1.001")},
		{Username: "a-very-long-username-that-keeps-going"},
	}
	for _, req := range cases {
		_, err := app.CreateUser(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput, "request %+v", req)
	}
}

func TestDeposit(t *testing.T) {
	repo := newMemRepo()
	app := newTestApp(repo)
	ctx := context.Background()

	user, err := app.CreateUser(ctx, CreateUserRequest{Username: "carol"})
	require.NoError(t, err)

	updated, err := app.Deposit(ctx, user.ID, DepositRequest{Amount: decimal.RequireFromString("12.50")})
	require.NoError(t, err)
	assert.Equal(t, "12.50", updated.Balance.StringFixed(2))
	assert.Equal(t, "12.50", repo.depositTotal(user.ID).StringFixed(2))

	_, err = app.Deposit(ctx, user.ID, DepositRequest{Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = app.Deposit(ctx, uuid.New(), DepositRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateUserRecordsOpeningDeposit(t *testing.T) {
	repo := newMemRepo()
	app := newTestApp(repo)
	ctx := context.Background()

	funded, err := app.CreateUser(ctx, CreateUserRequest{Username: "erin", InitialBalance: decimal.RequireFromString("75.25")})
	require.NoError(t, err)
	assert.True(t, repo.depositTotal(funded.ID).Equal(funded.Balance))

	_, err = app.Deposit(ctx, funded.ID, DepositRequest{Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	stored, err := app.GetUser(ctx, funded.ID)
	require.NoError(t, err)
	assert.True(t, repo.depositTotal(funded.ID).Equal(stored.Balance), "balance must be reconcilable from the ledger")

	empty, err := app.CreateUser(ctx, CreateUserRequest{Username: "frank"})
	require.NoError(t, err)
	entries, err := app.ListLedger(ctx, empty.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAmountLimits(t *testing.T) {
	repo := newMemRepo()
	app := NewApp(repo, Limits{
		MaxDeposit: decimal.NewFromInt(100),
		MaxBalance: decimal.NewFromInt(150),
	})
	ctx := context.Background()

	_, err := app.CreateUser(ctx, CreateUserRequest{Username: "gina", InitialBalance: decimal.RequireFromString("100.01")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	user, err := app.CreateUser(ctx, CreateUserRequest{Username: "gina", InitialBalance: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = app.Deposit(ctx, user.ID, DepositRequest{Amount: decimal.NewFromInt(101)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = app.Deposit(ctx, user.ID, DepositRequest{Amount: decimal.NewFromInt(51)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := app.Deposit(ctx, user.ID, DepositRequest{Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.Equal(t, "150.00", updated.Balance.StringFixed(2))
	assert.Equal(t, "150.00", repo.depositTotal(user.ID).StringFixed(2))
}

func TestListLedger(t *testing.T) {
	repo := newMemRepo()
	app := newTestApp(repo)
	ctx := context.Background()

	user, err := app.CreateUser(ctx, CreateUserRequest{Username: "hank", InitialBalance: decimal.NewFromInt(5)})
	require.NoError(t, err)
	for _, amount := range []string{"1.00", "2.00", "3.00"} {
		_, err := app.Deposit(ctx, user.ID, DepositRequest{Amount: decimal.RequireFromString(amount)})
		require.NoError(t, err)
	}

	entries, err := app.ListLedger(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "3.00", entries[0].Amount.StringFixed(2))
	assert.Equal(t, models.LedgerKindDeposit, entries[0].Kind)

	_, err = app.ListLedger(ctx, uuid.New(), 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
