package memory

import (
	"context"
	"sync"

	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	games             map[model.GameID]*model.Game
	ships             map[fleetKey][]*model.Ship
	moves             map[model.GameID][]*model.Move
}

type fleetKey struct {
	gameID   model.GameID
	playerID model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		games:             make(map[model.GameID]*model.Game),
		ships:             make(map[fleetKey][]*model.Ship),
		moves:             make(map[model.GameID][]*model.Move),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

// Registered player operations

func (s *Storage) CreateRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usernameIndex[rp.Username]; ok {
		return model.ErrUsernameTaken
	}
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Game operations

func (s *Storage) SaveGameWithFleet(ctx context.Context, game *model.Game, ships []*model.Ship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ships) > 0 {
		key := fleetKey{gameID: ships[0].GameID, playerID: ships[0].PlayerID}
		stored := make([]*model.Ship, len(ships))
		for i, ship := range ships {
			copied := *ship
			stored[i] = &copied
		}
		s.ships[key] = stored
	}
	copied := *game
	s.games[game.ID] = &copied
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.Game, 0, len(s.games))
	for _, game := range s.games {
		copied := *game
		games = append(games, &copied)
	}
	return games, nil
}

// Ship operations

func (s *Storage) GetShips(ctx context.Context, gameID model.GameID, playerID model.PlayerID) ([]*model.Ship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.ships[fleetKey{gameID: gameID, playerID: playerID}]
	ships := make([]*model.Ship, len(stored))
	for i, ship := range stored {
		copied := *ship
		ships[i] = &copied
	}
	return ships, nil
}

// Move operations

// ApplyMove commits the move, the updated ship, and the game state in
// a single critical section; a failed ship lookup leaves nothing
// written.
func (s *Storage) ApplyMove(ctx context.Context, move *model.Move, ship *model.Ship, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ship != nil {
		key := fleetKey{gameID: ship.GameID, playerID: ship.PlayerID}
		replaced := false
		for i, existing := range s.ships[key] {
			if existing.ID == ship.ID {
				copied := *ship
				s.ships[key][i] = &copied
				replaced = true
				break
			}
		}
		if !replaced {
			return model.ErrShipNotFound
		}
	}

	copiedMove := *move
	s.moves[move.GameID] = append(s.moves[move.GameID], &copiedMove)
	copiedGame := *game
	s.games[game.ID] = &copiedGame
	return nil
}

func (s *Storage) GetMoves(ctx context.Context, gameID model.GameID) ([]*model.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.moves[gameID]
	moves := make([]*model.Move, len(stored))
	for i, move := range stored {
		copied := *move
		moves[i] = &copied
	}
	return moves, nil
}
