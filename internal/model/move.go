package model

import "time"

// Move is an immutable record of a single fired shot.
// Moves are append-only; never mutated or deleted.
type Move struct {
	GameID   GameID
	PlayerID PlayerID
	Target   Coordinate

	Hit    bool
	ShipID ShipID // set only when Hit
	Sunk   bool   // true if this shot destroyed the ship

	// Seq orders moves within a game, starting at 1
	Seq      int
	PlayedAt time.Time
}
