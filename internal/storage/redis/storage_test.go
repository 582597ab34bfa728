package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battleship-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.CompletedGameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		CreatedAt:   time.Now().UTC(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *StorageSuite) TestCreateAndGetRegisteredPlayer() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now().UTC(),
	}

	err := s.storage.CreateRegisteredPlayer(s.ctx, rp)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRegisteredPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(rp.Username, retrieved.Username)
}

func (s *StorageSuite) TestCreateRegisteredPlayerDuplicateUsername() {
	rp := &model.RegisteredPlayer{PlayerID: "player-1", Username: "alice", PasswordHash: "hash123"}
	s.Require().NoError(s.storage.CreateRegisteredPlayer(s.ctx, rp))

	dup := &model.RegisteredPlayer{PlayerID: "player-2", Username: "alice", PasswordHash: "hash456"}
	err := s.storage.CreateRegisteredPlayer(s.ctx, dup)
	s.ErrorIs(err, model.ErrUsernameTaken)

	// The username still resolves to the first claimant
	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.PlayerID)
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
	}
	_ = s.storage.CreateRegisteredPlayer(s.ctx, rp)

	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("player-1", string(retrieved.PlayerID))
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsernameNotFound() {
	_, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{
		ID:        "game-1",
		Name:      "Alpha",
		CreatorID: "player-1",
		Status:    model.GameStatusWaiting,
	}

	err := s.storage.SaveGameWithFleet(s.ctx, game, nil)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(game.Status, retrieved.Status)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveGameWithFleetStoresShips() {
	game := &model.Game{ID: "game-1", CreatorID: "player-1", Status: model.GameStatusWaiting}
	err := s.storage.SaveGameWithFleet(s.ctx, game, s.testShips("player-1"))
	s.Require().NoError(err)

	ships, err := s.storage.GetShips(s.ctx, "game-1", "player-1")
	s.Require().NoError(err)
	s.Require().Len(ships, 2)
	s.Equal(model.ShipID("ship-1"), ships[0].ID)
	s.Equal(model.Coordinate{X: 0, Y: 5}, ships[1].Anchor)
}

func (s *StorageSuite) TestListGames() {
	_ = s.storage.SaveGameWithFleet(s.ctx, &model.Game{ID: "game-1", Status: model.GameStatusWaiting}, nil)
	_ = s.storage.SaveGameWithFleet(s.ctx, &model.Game{ID: "game-2", Status: model.GameStatusActive}, nil)

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 2)
}

func (s *StorageSuite) TestActiveGameHasNoTTL() {
	game := &model.Game{ID: "game-1", Status: model.GameStatusActive}
	_ = s.storage.SaveGameWithFleet(s.ctx, game, nil)

	ttl := s.mini.TTL(gameKey(game.ID))
	s.Equal(time.Duration(0), ttl, "Active game should not have TTL")
}

func (s *StorageSuite) TestCompletedGameExpiresAllKeys() {
	game := &model.Game{
		ID:          "game-1",
		CreatorID:   "player-1",
		OpponentID:  "player-2",
		Status:      model.GameStatusActive,
		CurrentTurn: "player-2",
	}
	s.Require().NoError(s.storage.SaveGameWithFleet(s.ctx, game, s.testShips("player-1")))
	s.Require().NoError(s.storage.SaveGameWithFleet(s.ctx, game, s.testShips("player-2")))

	finished := *game
	finished.Status = model.GameStatusCompleted
	finished.WinnerID = "player-2"
	move := &model.Move{GameID: "game-1", PlayerID: "player-2", Target: model.Coordinate{X: 0, Y: 0}, Hit: true, Seq: 1}
	s.Require().NoError(s.storage.ApplyMove(s.ctx, move, nil, &finished))

	// The game record, both fleets, and the move log all expire
	s.True(s.mini.TTL(gameKey("game-1")) > 0, "game key should have TTL")
	s.True(s.mini.TTL(fleetKey("game-1", "player-1")) > 0, "creator fleet should have TTL")
	s.True(s.mini.TTL(fleetKey("game-1", "player-2")) > 0, "opponent fleet should have TTL")
	s.True(s.mini.TTL(movesKey("game-1")) > 0, "move log should have TTL")
}

func (s *StorageSuite) TestListGamesDropsExpiredIndexEntries() {
	game := &model.Game{ID: "game-1", Status: model.GameStatusCompleted}
	_ = s.storage.SaveGameWithFleet(s.ctx, game, nil)

	// Expire the game value but leave the index entry behind
	s.mini.SetTTL(gameKey("game-1"), time.Hour)
	s.mini.FastForward(2 * time.Hour)

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

// Ship tests

func (s *StorageSuite) testShips(playerID model.PlayerID) []*model.Ship {
	return []*model.Ship{
		{
			ID:          "ship-1",
			GameID:      "game-1",
			PlayerID:    playerID,
			Type:        model.ShipCarrier,
			Anchor:      model.Coordinate{X: 0, Y: 0},
			Orientation: model.Horizontal,
			Health:      5,
		},
		{
			ID:          "ship-2",
			GameID:      "game-1",
			PlayerID:    playerID,
			Type:        model.ShipDestroyer,
			Anchor:      model.Coordinate{X: 0, Y: 5},
			Orientation: model.Vertical,
			Health:      2,
		},
	}
}

func (s *StorageSuite) saveTestFleet() *model.Game {
	game := &model.Game{ID: "game-1", CreatorID: "player-1", Status: model.GameStatusActive}
	s.Require().NoError(s.storage.SaveGameWithFleet(s.ctx, game, s.testShips("player-1")))
	return game
}

func (s *StorageSuite) TestGetShipsEmptyFleet() {
	ships, err := s.storage.GetShips(s.ctx, "game-1", "nonexistent")
	s.Require().NoError(err)
	s.Empty(ships)
}

// Move tests

func (s *StorageSuite) TestApplyMoveUpdatesShipHealth() {
	game := s.saveTestFleet()

	ship := s.testShips("player-1")[0]
	ship.Health = 3
	move := &model.Move{GameID: "game-1", PlayerID: "player-2", Target: model.Coordinate{X: 0, Y: 0}, Hit: true, ShipID: ship.ID, Seq: 1}
	s.Require().NoError(s.storage.ApplyMove(s.ctx, move, ship, game))

	ships, _ := s.storage.GetShips(s.ctx, "game-1", "player-1")
	s.Equal(3, ships[0].Health)
	s.Equal(2, ships[1].Health)
}

func (s *StorageSuite) TestApplyMoveUnknownShipWritesNothing() {
	game := s.saveTestFleet()

	ship := s.testShips("player-1")[0]
	ship.ID = "ship-99"
	move := &model.Move{GameID: "game-1", PlayerID: "player-2", Target: model.Coordinate{X: 0, Y: 0}, Seq: 1}
	err := s.storage.ApplyMove(s.ctx, move, ship, game)
	s.ErrorIs(err, model.ErrShipNotFound)

	moves, _ := s.storage.GetMoves(s.ctx, "game-1")
	s.Empty(moves)
}

func (s *StorageSuite) TestApplyMoveOrdering() {
	game := s.saveTestFleet()

	move1 := &model.Move{GameID: "game-1", PlayerID: "player-1", Target: model.Coordinate{X: 1, Y: 2}, Seq: 1}
	move2 := &model.Move{GameID: "game-1", PlayerID: "player-2", Target: model.Coordinate{X: 3, Y: 4}, Hit: true, ShipID: "ship-1", Seq: 2}

	s.Require().NoError(s.storage.ApplyMove(s.ctx, move1, nil, game))
	s.Require().NoError(s.storage.ApplyMove(s.ctx, move2, nil, game))

	moves, err := s.storage.GetMoves(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(moves, 2)
	s.Equal(1, moves[0].Seq)
	s.Equal(2, moves[1].Seq)
	s.True(moves[1].Hit)
	s.Equal(model.ShipID("ship-1"), moves[1].ShipID)
}

func (s *StorageSuite) TestGetMovesEmptyGame() {
	moves, err := s.storage.GetMoves(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Empty(moves)
}
