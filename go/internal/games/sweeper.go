package games

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Expirer cancels games that waited too long for players
type Expirer interface {
	ExpireStaleGames(ctx context.Context, cutoff time.Time) (int, error)
}

// SweeperConfig controls how often stale games are looked for and how old they must be
type SweeperConfig struct {
	Interval   time.Duration
	WaitingTTL time.Duration
}

// DefaultSweeperConfig returns the default sweep cadence
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:   time.Minute,
		WaitingTTL: DefaultRules().WaitingTTL,
	}
}

// Sweeper periodically expires games that never started
type Sweeper struct {
	expirer Expirer
	clock   clockwork.Clock
	cfg     SweeperConfig
}

// NewSweeper creates a new Sweeper
func NewSweeper(expirer Expirer, clock clockwork.Clock, cfg SweeperConfig) *Sweeper {
	return &Sweeper{
		expirer: expirer,
		clock:   clock,
		cfg:     cfg,
	}
}

// Run sweeps every Interval until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) error {
	log.Info().
		Dur("interval", s.cfg.Interval).
		Dur("waiting_ttl", s.cfg.WaitingTTL).
		Msg("game sweeper started")

	ticker := s.clock.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("game sweeper shutting down")
			return nil
		case <-ticker.Chan():
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := s.clock.Now().UTC().Add(-s.cfg.WaitingTTL)

	expired, err := s.expirer.ExpireStaleGames(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to expire stale games")
		return
	}
	if expired > 0 {
		log.Info().
			Int("expired", expired).
			Time("cutoff", cutoff).
			Msg("expired stale games")
	}
}
