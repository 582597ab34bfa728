package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.ID), data, 0).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// Registered player operations

func (s *Storage) CreateRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// SETNX claims the username; a lost race is the duplicate case
	claimed, err := s.client.SetNX(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrUsernameTaken
	}

	return s.client.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0).Err()
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	playerID, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerID))
}

// Game operations

func (s *Storage) SaveGameWithFleet(ctx context.Context, game *model.Game, ships []*model.Ship) error {
	gameData, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), gameData, 0)
	pipe.SAdd(ctx, gamesIndexKey(), string(game.ID))
	if len(ships) > 0 {
		fleetData, err := json.Marshal(ships)
		if err != nil {
			return err
		}
		pipe.Set(ctx, fleetKey(ships[0].GameID, ships[0].PlayerID), fleetData, 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	ids, err := s.client.SMembers(ctx, gamesIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(ids))
	for _, id := range ids {
		game, err := s.GetGame(ctx, model.GameID(id))
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) {
				// Expired game still in the index; drop it lazily
				s.client.SRem(ctx, gamesIndexKey(), id)
				continue
			}
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

// Ship operations
//
// A player's fleet is stored as a single JSON value so the whole set is
// read and written together.

func (s *Storage) GetShips(ctx context.Context, gameID model.GameID, playerID model.PlayerID) ([]*model.Ship, error) {
	data, err := s.client.Get(ctx, fleetKey(gameID, playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*model.Ship{}, nil
		}
		return nil, err
	}

	var ships []*model.Ship
	if err := json.Unmarshal(data, &ships); err != nil {
		return nil, err
	}
	return ships, nil
}

// Move operations

// ApplyMove commits the move record, the updated fleet, and the game
// state in one transactional pipeline. The fleet read-modify-write is
// safe because the caller serializes writers per game.
func (s *Storage) ApplyMove(ctx context.Context, move *model.Move, ship *model.Ship, game *model.Game) error {
	var fleetData []byte
	if ship != nil {
		ships, err := s.GetShips(ctx, ship.GameID, ship.PlayerID)
		if err != nil {
			return err
		}
		replaced := false
		for i, existing := range ships {
			if existing.ID == ship.ID {
				ships[i] = ship
				replaced = true
				break
			}
		}
		if !replaced {
			return model.ErrShipNotFound
		}
		if fleetData, err = json.Marshal(ships); err != nil {
			return err
		}
	}

	moveData, err := json.Marshal(move)
	if err != nil {
		return err
	}
	gameData, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	if fleetData != nil {
		pipe.Set(ctx, fleetKey(ship.GameID, ship.PlayerID), fleetData, 0)
	}
	pipe.RPush(ctx, movesKey(move.GameID), moveData)
	pipe.Set(ctx, gameKey(game.ID), gameData, 0)
	pipe.SAdd(ctx, gamesIndexKey(), string(game.ID))

	// Once a game is finished its record, both fleets, and the move log
	// all expire together
	if game.Status == model.GameStatusCompleted && s.cfg.CompletedGameTTL > 0 {
		ttl := s.cfg.CompletedGameTTL
		pipe.Expire(ctx, gameKey(game.ID), ttl)
		pipe.Expire(ctx, fleetKey(game.ID, game.CreatorID), ttl)
		pipe.Expire(ctx, fleetKey(game.ID, game.OpponentID), ttl)
		pipe.Expire(ctx, movesKey(game.ID), ttl)
	}

	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMoves(ctx context.Context, gameID model.GameID) ([]*model.Move, error) {
	entries, err := s.client.LRange(ctx, movesKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	moves := make([]*model.Move, 0, len(entries))
	for _, entry := range entries {
		var move model.Move
		if err := json.Unmarshal([]byte(entry), &move); err != nil {
			return nil, err
		}
		moves = append(moves, &move)
	}
	return moves, nil
}
