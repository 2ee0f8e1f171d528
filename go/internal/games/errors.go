package games

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid game state")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
