package storage

import (
	"context"

	"github.com/mcoot/battleship-go/internal/model"
)

// Storage defines the interface for data persistence.
//
// Writes that span entities are composite operations: each backend
// commits them atomically, so a storage failure never leaves a partial
// state behind.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)

	// Registered player operations. CreateRegisteredPlayer claims the
	// username atomically and fails with model.ErrUsernameTaken if it
	// is already held.
	CreateRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Game operations. SaveGameWithFleet persists a game state together
	// with one player's fleet (creation and joining both land a fleet
	// and a game transition as one unit); ships may be empty.
	SaveGameWithFleet(ctx context.Context, game *model.Game, ships []*model.Ship) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)

	// Ship operations
	GetShips(ctx context.Context, gameID model.GameID, playerID model.PlayerID) ([]*model.Ship, error)

	// Move operations (append-only). ApplyMove commits the move record,
	// the damaged ship (nil on a miss), and the game transition as one
	// unit.
	ApplyMove(ctx context.Context, move *model.Move, ship *model.Ship, game *model.Game) error
	GetMoves(ctx context.Context, gameID model.GameID) ([]*model.Move, error)
}
