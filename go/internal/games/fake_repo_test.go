package games

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/stakes/go/internal/events"
	"github.com/mcdev12/stakes/go/internal/models"
)

type enqueuedEvent struct {
	GameID  uuid.UUID
	Type    events.Type
	Payload json.RawMessage
}

type memState struct {
	games    map[uuid.UUID]*models.Game
	balances map[uuid.UUID]decimal.Decimal
	ledger   []models.LedgerEntry
	events   []enqueuedEvent
}

func (s *memState) clone() *memState {
	c := &memState{
		games:    make(map[uuid.UUID]*models.Game, len(s.games)),
		balances: make(map[uuid.UUID]decimal.Decimal, len(s.balances)),
		ledger:   append([]models.LedgerEntry(nil), s.ledger...),
		events:   append([]enqueuedEvent(nil), s.events...),
	}
	for id, g := range s.games {
		cp := *g
		c.games[id] = &cp
	}
	for id, b := range s.balances {
		c.balances[id] = b
	}
	return c
}

// memRepo is a transactional in-memory GamesRepository. A transaction works
// on a copy of the state that replaces the committed state only on success.
type memRepo struct {
	mu    sync.Mutex
	state *memState
}

func newMemRepo() *memRepo {
	return &memRepo{state: &memState{
		games:    make(map[uuid.UUID]*models.Game),
		balances: make(map[uuid.UUID]decimal.Decimal),
	}}
}

func (m *memRepo) addUser(balance string) uuid.UUID {
	id := uuid.New()
	m.state.balances[id] = decimal.RequireFromString(balance)
	return id
}

func (m *memRepo) balance(id uuid.UUID) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.balances[id]
}

func (m *memRepo) ledgerFor(gameID uuid.UUID) []models.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LedgerEntry
	for _, e := range m.state.ledger {
		if e.GameID != nil && *e.GameID == gameID {
			out = append(out, e)
		}
	}
	return out
}

func (m *memRepo) eventTypes(gameID uuid.UUID) []events.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []events.Type
	for _, e := range m.state.events {
		if e.GameID == gameID {
			out = append(out, e.Type)
		}
	}
	return out
}

func (m *memRepo) setCreatedAt(id uuid.UUID, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.games[id].CreatedAt = at
}

func (m *memRepo) InTx(_ context.Context, fn func(tx GamesTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(&memTx{state: work}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memRepo) GetGame(_ context.Context, id uuid.UUID) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.state.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memRepo) ListGames(_ context.Context, filter ListGamesFilter) ([]*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Game
	for _, g := range m.state.games {
		if filter.Status != nil && g.Status != *filter.Status {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int32(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memRepo) ListStaleGames(_ context.Context, createdBefore time.Time, limit int32) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stale []*models.Game
	for _, g := range m.state.games {
		if g.Status.IsTerminal() || g.Status == models.GameStatusActive {
			continue
		}
		if g.CreatedAt.Before(createdBefore) {
			stale = append(stale, g)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })

	var ids []uuid.UUID
	for _, g := range stale {
		if int32(len(ids)) == limit {
			break
		}
		ids = append(ids, g.ID)
	}
	return ids, nil
}

type memTx struct {
	state *memState
}

func (t *memTx) LockGame(_ context.Context, id uuid.UUID) (*models.Game, error) {
	g, ok := t.state.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	cp := *g
	return &cp, nil
}

func (t *memTx) InsertGame(_ context.Context, game *models.Game) error {
	cp := *game
	t.state.games[game.ID] = &cp
	return nil
}

func (t *memTx) UpdateGame(_ context.Context, game *models.Game) error {
	if _, ok := t.state.games[game.ID]; !ok {
		return ErrGameNotFound
	}
	cp := *game
	t.state.games[game.ID] = &cp
	return nil
}

func (t *memTx) UserExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := t.state.balances[id]
	return ok, nil
}

func (t *memTx) Debit(_ context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	b, ok := t.state.balances[userID]
	if !ok || b.LessThan(amount) {
		return fmt.Errorf("%w: %s", ErrInsufficientFunds, userID)
	}
	t.state.balances[userID] = b.Sub(amount)
	return nil
}

func (t *memTx) Credit(_ context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	b, ok := t.state.balances[userID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}
	t.state.balances[userID] = b.Add(amount)
	return nil
}

func (t *memTx) RecordLedger(_ context.Context, entry models.LedgerEntry) error {
	t.state.ledger = append(t.state.ledger, entry)
	return nil
}

func (t *memTx) EnqueueEvent(_ context.Context, gameID uuid.UUID, eventType events.Type, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	t.state.events = append(t.state.events, enqueuedEvent{GameID: gameID, Type: eventType, Payload: data})
	return nil
}
