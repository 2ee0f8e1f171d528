package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/stakes/go/internal/games"
	"github.com/mcdev12/stakes/go/internal/users"
)

type Config struct {
	Games struct {
		MinEntryFee   string        `yaml:"min_entry_fee"`
		MaxEntryFee   string        `yaml:"max_entry_fee"`
		MaxOwnerCut   string        `yaml:"max_owner_cut"`
		WaitingTTL    time.Duration `yaml:"waiting_ttl"`
		SweepInterval time.Duration `yaml:"sweep_interval"`
	} `yaml:"games"`
	Users struct {
		MaxDeposit string `yaml:"max_deposit"`
	} `yaml:"users"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig reads the YAML config at path. A missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", path).Msg("config file not found, using defaults")
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// Rules overlays the configured game rules on the defaults
func (c *Config) Rules() (games.Rules, error) {
	rules := games.DefaultRules()

	for _, field := range []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"min_entry_fee", c.Games.MinEntryFee, &rules.MinEntryFee},
		{"max_entry_fee", c.Games.MaxEntryFee, &rules.MaxEntryFee},
		{"max_owner_cut", c.Games.MaxOwnerCut, &rules.MaxOwnerCut},
	} {
		if field.value == "" {
			continue
		}
		d, err := decimal.NewFromString(field.value)
		if err != nil {
			return games.Rules{}, fmt.Errorf("games.%s: %w", field.name, err)
		}
		*field.dst = d
	}
	if c.Games.WaitingTTL > 0 {
		rules.WaitingTTL = c.Games.WaitingTTL
	}

	if !rules.MinEntryFee.IsPositive() || rules.MaxEntryFee.LessThan(rules.MinEntryFee) {
		return games.Rules{}, fmt.Errorf("games: entry fee bounds must satisfy 0 < min <= max")
	}
	if rules.MaxOwnerCut.IsNegative() || rules.MaxOwnerCut.GreaterThan(decimal.NewFromInt(100)) {
		return games.Rules{}, fmt.Errorf("games.max_owner_cut must be between 0 and 100")
	}
	return rules, nil
}

// SweeperConfig returns how often and how aggressively stale games are expired
func (c *Config) SweeperConfig(rules games.Rules) games.SweeperConfig {
	cfg := games.DefaultSweeperConfig()
	cfg.WaitingTTL = rules.WaitingTTL
	if c.Games.SweepInterval > 0 {
		cfg.Interval = c.Games.SweepInterval
	}
	return cfg
}

// UserLimits overlays the configured deposit cap on the defaults
func (c *Config) UserLimits() (users.Limits, error) {
	limits := users.DefaultLimits()
	if c.Users.MaxDeposit == "" {
		return limits, nil
	}

	d, err := decimal.NewFromString(c.Users.MaxDeposit)
	if err != nil {
		return users.Limits{}, fmt.Errorf("users.max_deposit: %w", err)
	}
	if !d.IsPositive() || d.GreaterThan(limits.MaxBalance) {
		return users.Limits{}, fmt.Errorf("users.max_deposit must be positive and at most %s", limits.MaxBalance.StringFixed(2))
	}
	limits.MaxDeposit = d
	return limits, nil
}
