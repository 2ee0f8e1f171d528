package games

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/stakes/go/internal/models"
)

type recordingExpirer struct {
	mu      sync.Mutex
	cutoffs []time.Time
	calls   chan struct{}
}

func (r *recordingExpirer) ExpireStaleGames(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	r.cutoffs = append(r.cutoffs, cutoff)
	r.mu.Unlock()
	r.calls <- struct{}{}
	return 0, nil
}

func TestSweeperUsesTTLCutoff(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	expirer := &recordingExpirer{calls: make(chan struct{}, 4)}
	sweeper := NewSweeper(expirer, clock, SweeperConfig{Interval: time.Minute, WaitingTTL: 10 * time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)

	select {
	case <-expirer.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not run on tick")
	}

	cancel()
	require.NoError(t, <-done)

	expirer.mu.Lock()
	defer expirer.mu.Unlock()
	require.Len(t, expirer.cutoffs, 1)
	assert.Equal(t, epoch.Add(time.Minute).Add(-10*time.Minute), expirer.cutoffs[0])
}

func TestSweeperExpiresGames(t *testing.T) {
	f := newFixture(t)
	game := f.createGame(t, "10", "0")

	sweeper := NewSweeper(f.app, f.clock, SweeperConfig{Interval: time.Minute, WaitingTTL: 5 * time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sweeper.Run(ctx) }()

	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	f.clock.Advance(10 * time.Minute)

	assert.Eventually(t, func() bool {
		g, err := f.app.GetGame(context.Background(), game.ID)
		return err == nil && g.Status == models.GameStatusCancelled
	}, 2*time.Second, 10*time.Millisecond)
	assertMoney(t, "100", f.repo.balance(f.alice))
}
