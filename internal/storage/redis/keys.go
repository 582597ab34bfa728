package redis

import (
	"fmt"

	"github.com/mcoot/battleship-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "bship"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of all game ids
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// fleetKey returns the Redis key for a player's fleet within a game
func fleetKey(gameID model.GameID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:fleet:%s:%s", keyPrefix, gameID, playerID)
}

// movesKey returns the Redis key for the LIST of moves within a game
func movesKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:moves:%s", keyPrefix, gameID)
}
