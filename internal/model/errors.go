package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrUsernameTaken  = errors.New("username already taken")

	// Game lifecycle errors
	ErrGameNotFound    = errors.New("game not found")
	ErrGameNotJoinable = errors.New("game is not open for joining")
	ErrSelfJoin        = errors.New("cannot join your own game")
	ErrGameNotActive   = errors.New("game is not active")
	ErrNotYourTurn     = errors.New("not this player's turn")
	ErrNotParticipant  = errors.New("player is not part of this game")

	// Move errors
	ErrOutOfBounds      = errors.New("coordinate is outside the board")
	ErrCellAlreadyFired = errors.New("cell has already been fired upon")

	// Fleet errors
	ErrFleetDoesNotFit = errors.New("fleet cannot be placed on the board")
	ErrShipOverlap     = errors.New("ships occupy a common cell")
	ErrShipNotFound    = errors.New("ship not found")
)
