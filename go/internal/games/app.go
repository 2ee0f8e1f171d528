package games

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/stakes/go/internal/events"
	"github.com/mcdev12/stakes/go/internal/models"
)

// GamesRepository defines what the app layer needs from the repository
type GamesRepository interface {
	InTx(ctx context.Context, fn func(tx GamesTx) error) error
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	ListGames(ctx context.Context, filter ListGamesFilter) ([]*models.Game, error)
	ListStaleGames(ctx context.Context, createdBefore time.Time, limit int32) ([]uuid.UUID, error)
}

// GamesTx is the set of writes that must commit together with a state change
type GamesTx interface {
	LockGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	InsertGame(ctx context.Context, game *models.Game) error
	UpdateGame(ctx context.Context, game *models.Game) error
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	// Debit fails with ErrInsufficientFunds rather than letting a balance go negative.
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error
	Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error
	RecordLedger(ctx context.Context, entry models.LedgerEntry) error
	EnqueueEvent(ctx context.Context, gameID uuid.UUID, eventType events.Type, payload interface{}) error
}

// App handles the game lifecycle: escrow on create/join, settlement on end,
// refunds on cancel. Every operation runs in a single transaction.
type App struct {
	repo  GamesRepository
	rules Rules
	clock clockwork.Clock
}

// NewApp creates a new games App
func NewApp(repo GamesRepository, rules Rules, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		rules: rules,
		clock: clock,
	}
}

// CreateGame opens a game and escrows player 1's entry fee
func (a *App) CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error) {
	if err := a.validateCreateGameRequest(req); err != nil {
		return nil, err
	}

	ownerID := req.Player1ID
	if req.OwnerID != nil && *req.OwnerID != uuid.Nil {
		ownerID = *req.OwnerID
	}

	now := a.now()
	game := &models.Game{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Player1ID: req.Player1ID,
		EntryFee:  req.EntryFee,
		OwnerCut:  req.OwnerCut,
		Status:    models.GameStatusWaiting,
		CreatedAt: now,
	}

	err := a.repo.InTx(ctx, func(tx GamesTx) error {
		if err := requireUser(ctx, tx, game.Player1ID); err != nil {
			return err
		}
		if ownerID != game.Player1ID {
			if err := requireUser(ctx, tx, ownerID); err != nil {
				return fmt.Errorf("owner: %w", err)
			}
		}
		if err := tx.InsertGame(ctx, game); err != nil {
			return err
		}
		if err := a.escrow(ctx, tx, game, game.Player1ID); err != nil {
			return err
		}
		return tx.EnqueueEvent(ctx, game.ID, events.TypeGameCreated, events.GameCreatedPayload{
			GameID:    game.ID.String(),
			OwnerID:   game.OwnerID.String(),
			Player1ID: game.Player1ID.String(),
			EntryFee:  game.EntryFee,
			OwnerCut:  game.OwnerCut,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", game.ID.String()).
		Str("player1_id", game.Player1ID.String()).
		Str("entry_fee", game.EntryFee.StringFixed(2)).
		Str("owner_cut", game.OwnerCut.String()).
		Msg("game created")
	return game, nil
}

// JoinGame seats player 2 and escrows their entry fee
func (a *App) JoinGame(ctx context.Context, id uuid.UUID, req JoinGameRequest) (*models.Game, error) {
	if req.Player2ID == uuid.Nil {
		return nil, fmt.Errorf("%w: player2_id is required", ErrInvalidInput)
	}

	var game *models.Game
	err := a.repo.InTx(ctx, func(tx GamesTx) error {
		g, err := tx.LockGame(ctx, id)
		if err != nil {
			return err
		}
		if g.Status != models.GameStatusWaiting || g.Player2ID != nil {
			return fmt.Errorf("%w: game is not open for joining (status %s)", ErrInvalidTransition, g.Status)
		}
		if req.Player2ID == g.Player1ID {
			return fmt.Errorf("%w: a player cannot join their own game", ErrInvalidInput)
		}
		if err := requireUser(ctx, tx, req.Player2ID); err != nil {
			return err
		}

		player2 := req.Player2ID
		g.Player2ID = &player2
		g.Status = models.GameStatusReady
		if err := tx.UpdateGame(ctx, g); err != nil {
			return err
		}
		if err := a.escrow(ctx, tx, g, player2); err != nil {
			return err
		}
		game = g
		return tx.EnqueueEvent(ctx, g.ID, events.TypePlayerJoined, events.PlayerJoinedPayload{
			GameID:    g.ID.String(),
			Player2ID: player2.String(),
			JoinedAt:  a.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", game.ID.String()).
		Str("player2_id", req.Player2ID.String()).
		Msg("player joined game")
	return game, nil
}

// StartGame moves a game with both players seated to active
func (a *App) StartGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var game *models.Game
	err := a.repo.InTx(ctx, func(tx GamesTx) error {
		g, err := tx.LockGame(ctx, id)
		if err != nil {
			return err
		}
		if g.Status != models.GameStatusReady {
			return fmt.Errorf("%w: game cannot start from status %s", ErrInvalidTransition, g.Status)
		}

		now := a.now()
		g.Status = models.GameStatusActive
		g.StartedAt = &now
		if err := tx.UpdateGame(ctx, g); err != nil {
			return err
		}
		game = g
		return tx.EnqueueEvent(ctx, g.ID, events.TypeGameStarted, events.GameStartedPayload{
			GameID:    g.ID.String(),
			StartedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("game_id", game.ID.String()).Msg("game started")
	return game, nil
}

// EndGame records the winner and pays out the pool
func (a *App) EndGame(ctx context.Context, id uuid.UUID, req EndGameRequest) (*models.Game, error) {
	if req.WinnerID == uuid.Nil {
		return nil, fmt.Errorf("%w: winner_id is required", ErrInvalidInput)
	}

	var (
		game       *models.Game
		settlement Settlement
	)
	err := a.repo.InTx(ctx, func(tx GamesTx) error {
		g, err := tx.LockGame(ctx, id)
		if err != nil {
			return err
		}
		if g.Status.IsTerminal() {
			return fmt.Errorf("%w: game is already %s", ErrInvalidTransition, g.Status)
		}
		if g.Status != models.GameStatusActive {
			return fmt.Errorf("%w: game cannot end from status %s", ErrInvalidTransition, g.Status)
		}
		if !g.IsPlayer(req.WinnerID) {
			return fmt.Errorf("%w: winner must be a player in the game", ErrInvalidInput)
		}

		now := a.now()
		settlement = Settle(g.EntryFee, g.OwnerCut)
		if err := a.credit(ctx, tx, g, req.WinnerID, settlement.WinnerShare, models.LedgerKindPayout, settlement); err != nil {
			return err
		}
		if err := a.credit(ctx, tx, g, g.OwnerID, settlement.OwnerShare, models.LedgerKindOwnerCut, settlement); err != nil {
			return err
		}

		winner := req.WinnerID
		g.WinnerID = &winner
		g.Status = models.GameStatusFinished
		g.EndedAt = &now
		if err := tx.UpdateGame(ctx, g); err != nil {
			return err
		}
		game = g
		return tx.EnqueueEvent(ctx, g.ID, events.TypeGameEnded, events.GameEndedPayload{
			GameID:      g.ID.String(),
			WinnerID:    winner.String(),
			OwnerID:     g.OwnerID.String(),
			Pool:        settlement.Pool,
			WinnerShare: settlement.WinnerShare,
			OwnerShare:  settlement.OwnerShare,
			EndedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", game.ID.String()).
		Str("winner_id", req.WinnerID.String()).
		Str("pool", settlement.Pool.StringFixed(2)).
		Str("winner_share", settlement.WinnerShare.StringFixed(2)).
		Str("owner_share", settlement.OwnerShare.StringFixed(2)).
		Msg("game ended")
	return game, nil
}

// CancelGame refunds every escrowed entry fee of a game that has not started
func (a *App) CancelGame(ctx context.Context, id uuid.UUID, req CancelGameRequest) (*models.Game, error) {
	reason := req.Reason
	if reason == "" {
		reason = CancelReasonRequested
	}

	var (
		game     *models.Game
		refunded decimal.Decimal
	)
	err := a.repo.InTx(ctx, func(tx GamesTx) error {
		g, err := tx.LockGame(ctx, id)
		if err != nil {
			return err
		}
		if g.Status.IsTerminal() {
			return fmt.Errorf("%w: game is already %s", ErrInvalidTransition, g.Status)
		}
		if g.Status == models.GameStatusActive {
			return fmt.Errorf("%w: an active game must be ended, not cancelled", ErrInvalidTransition)
		}

		refunded = decimal.Zero
		for _, player := range g.Players() {
			if err := a.credit(ctx, tx, g, player, g.EntryFee, models.LedgerKindRefund, refundDetails{Reason: reason}); err != nil {
				return err
			}
			refunded = refunded.Add(g.EntryFee)
		}

		now := a.now()
		g.Status = models.GameStatusCancelled
		g.EndedAt = &now
		if err := tx.UpdateGame(ctx, g); err != nil {
			return err
		}
		game = g
		return tx.EnqueueEvent(ctx, g.ID, events.TypeGameCancelled, events.GameCancelledPayload{
			GameID:      g.ID.String(),
			Reason:      reason,
			Refunded:    refunded,
			CancelledAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", game.ID.String()).
		Str("reason", reason).
		Str("refunded", refunded.StringFixed(2)).
		Msg("game cancelled")
	return game, nil
}

// GetGame retrieves a game by ID
func (a *App) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	return a.repo.GetGame(ctx, id)
}

// ListGames returns the most recent games, optionally filtered by status
func (a *App) ListGames(ctx context.Context, filter ListGamesFilter) ([]*models.Game, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return a.repo.ListGames(ctx, filter)
}

// ExpireStaleGames cancels games still waiting for players that were created before cutoff
func (a *App) ExpireStaleGames(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := a.repo.ListStaleGames(ctx, cutoff, staleBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale games: %w", err)
	}

	expired := 0
	for _, id := range ids {
		_, err := a.CancelGame(ctx, id, CancelGameRequest{Reason: CancelReasonExpired})
		if err != nil {
			// Started or cancelled between the listing and the lock.
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			log.Error().Err(err).Str("game_id", id.String()).Msg("failed to expire game")
			continue
		}
		expired++
	}
	return expired, nil
}

// escrow takes a player's entry fee into the game
func (a *App) escrow(ctx context.Context, tx GamesTx, game *models.Game, userID uuid.UUID) error {
	if err := tx.Debit(ctx, userID, game.EntryFee); err != nil {
		return err
	}
	return tx.RecordLedger(ctx, a.ledgerEntry(game, userID, models.LedgerKindEntryFee, game.EntryFee.Neg(), nil))
}

type refundDetails struct {
	Reason string `json:"reason"`
}

// credit pays amount to userID out of the game. Zero amounts are skipped.
func (a *App) credit(ctx context.Context, tx GamesTx, game *models.Game, userID uuid.UUID, amount decimal.Decimal, kind models.LedgerKind, details interface{}) error {
	if amount.IsZero() {
		return nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger details: %w", err)
	}
	if err := tx.Credit(ctx, userID, amount); err != nil {
		return err
	}
	return tx.RecordLedger(ctx, a.ledgerEntry(game, userID, kind, amount, raw))
}

func (a *App) ledgerEntry(game *models.Game, userID uuid.UUID, kind models.LedgerKind, amount decimal.Decimal, details json.RawMessage) models.LedgerEntry {
	gameID := game.ID
	return models.LedgerEntry{
		ID:        uuid.New(),
		GameID:    &gameID,
		UserID:    userID,
		Kind:      kind,
		Amount:    amount,
		Details:   details,
		CreatedAt: a.now(),
	}
}

func (a *App) now() time.Time {
	return a.clock.Now().UTC()
}

func (a *App) validateCreateGameRequest(req CreateGameRequest) error {
	if req.Player1ID == uuid.Nil {
		return fmt.Errorf("%w: player1_id is required", ErrInvalidInput)
	}
	if !req.EntryFee.IsPositive() {
		return fmt.Errorf("%w: entry fee must be greater than 0", ErrInvalidInput)
	}
	if !models.IsWholeCents(req.EntryFee) {
		return fmt.Errorf("%w: entry fee supports at most 2 decimal places", ErrInvalidInput)
	}
	if req.EntryFee.LessThan(a.rules.MinEntryFee) || req.EntryFee.GreaterThan(a.rules.MaxEntryFee) {
		return fmt.Errorf("%w: entry fee must be between %s and %s",
			ErrInvalidInput, a.rules.MinEntryFee.StringFixed(2), a.rules.MaxEntryFee.StringFixed(2))
	}
	if req.OwnerCut.IsNegative() || req.OwnerCut.GreaterThan(a.rules.MaxOwnerCut) {
		return fmt.Errorf("%w: owner cut must be between 0 and %s percent", ErrInvalidInput, a.rules.MaxOwnerCut.String())
	}
	if !models.IsWholeCents(req.OwnerCut) {
		return fmt.Errorf("%w: owner cut supports at most 2 decimal places", ErrInvalidInput)
	}
	return nil
}

func requireUser(ctx context.Context, tx GamesTx, id uuid.UUID) error {
	exists, err := tx.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return nil
}
