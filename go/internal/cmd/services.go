package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/stakes/go/internal/games"
	gamesdb "github.com/mcdev12/stakes/go/internal/games/db"
	"github.com/mcdev12/stakes/go/internal/users"
	usersdb "github.com/mcdev12/stakes/go/internal/users/db"
)

type Services struct {
	Users   *users.Service
	Games   *games.Service
	GameApp *games.App
	Sweeper *games.Sweeper
}

func setupServices(database *sql.DB, limits users.Limits, rules games.Rules, sweeperCfg games.SweeperConfig, clock clockwork.Clock) *Services {
	// Database layer → Repository layer → App layer → Service layer

	// Users
	userQueries := usersdb.New(database)
	userRepo := users.NewRepository(userQueries, database)
	userApp := users.NewApp(userRepo, limits)
	userService := users.NewService(userApp)

	// Games
	gameQueries := gamesdb.New(database)
	gameRepo := games.NewRepository(gameQueries, database)
	gameApp := games.NewApp(gameRepo, rules, clock)
	gameService := games.NewService(gameApp)

	return &Services{
		Users:   userService,
		Games:   gameService,
		GameApp: gameApp,
		Sweeper: games.NewSweeper(gameApp, clock, sweeperCfg),
	}
}
