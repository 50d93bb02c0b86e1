package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotBot         = errors.New("player is not a bot")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Game errors
	ErrGameNotFound        = errors.New("game not found")
	ErrNotPlayerTurn       = errors.New("not this player's turn")
	ErrNotHost             = errors.New("player is not the host")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")
	ErrTooManyPlayers      = errors.New("too many players for one game")
	ErrGameComplete        = errors.New("game is already complete")
	ErrGameAbandoned       = errors.New("game has been abandoned")
	ErrNoGameInProgress    = errors.New("no game in progress")
	ErrGameInProgress      = errors.New("game is still in progress")
	ErrSummaryNotFound     = errors.New("game summary not found")

	// Score table errors
	ErrInvalidRow        = errors.New("invalid score table row")
	ErrInvalidDie        = errors.New("invalid die index")
	ErrCellCommitted     = errors.New("cell is already committed")
	ErrCellNotAssignable = errors.New("cell is not assignable")
)
