package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the current phase of a game.
// Transitions are monotonic: waiting -> active -> completed.
type GameStatus string

const (
	GameStatusWaiting   GameStatus = "waiting"   // Created, awaiting a second player
	GameStatusActive    GameStatus = "active"    // Both players present, turns alternate
	GameStatusCompleted GameStatus = "completed" // Terminal, winner recorded
)

// Game represents a single two-player battleship session
type Game struct {
	ID   GameID
	Name string

	// Player slots: the creator always occupies the first slot,
	// OpponentID is empty while the game is waiting for a joiner.
	CreatorID  PlayerID
	OpponentID PlayerID

	Status GameStatus

	// CurrentTurn is meaningful only while Status is active
	CurrentTurn PlayerID

	// WinnerID is set if and only if Status is completed
	WinnerID PlayerID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen returns true if the game is waiting and has a free slot
func (g *Game) IsOpen() bool {
	return g.Status == GameStatusWaiting && g.OpponentID == ""
}

// HasPlayer returns true if the given player occupies either slot
func (g *Game) HasPlayer(id PlayerID) bool {
	return id != "" && (g.CreatorID == id || g.OpponentID == id)
}

// OpponentOf returns the other player's id, or empty if the given
// player is not in the game or the second slot is unfilled
func (g *Game) OpponentOf(id PlayerID) PlayerID {
	switch id {
	case g.CreatorID:
		return g.OpponentID
	case g.OpponentID:
		return g.CreatorID
	default:
		return ""
	}
}
