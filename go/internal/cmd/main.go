package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/stakes/go/internal/gateway"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	rules, err := config.Rules()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid game rules")
	}
	limits, err := config.UserLimits()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid user limits")
	}

	database, err := setupDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup database")
	}
	defer database.Close()

	clock := clockwork.NewRealClock()
	services := setupServices(database, limits, rules, config.SweeperConfig(rules), clock)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gw *gateway.Service
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		gwCfg := gateway.DefaultConfig()
		gwCfg.JetStreamConfig.URL = natsURL
		gw, err = gateway.NewService(gwCfg, services.GameApp)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create game gateway")
		}
		go func() {
			if err := gw.Start(ctx); err != nil {
				log.Error().Err(err).Msg("game gateway failed")
			}
		}()
	} else {
		log.Warn().Msg("NATS_URL not set, WebSocket events are disabled")
	}

	go func() {
		if err := services.Sweeper.Run(ctx); err != nil {
			log.Error().Err(err).Msg("game sweeper failed")
		}
	}()

	server := setupServer(services, database, gw)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
