package game

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcoot/battleship-go/internal/dependencies/clock"
	"github.com/mcoot/battleship-go/internal/dependencies/random"
	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/board"
	"github.com/mcoot/battleship-go/internal/services/fleet"
	"github.com/mcoot/battleship-go/internal/services/shot"
	"github.com/mcoot/battleship-go/internal/storage"
)

const (
	// GameIDLength is the length of generated game ids
	GameIDLength = 12
	// GameIDAlphabet is the characters used in game ids
	GameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Controller owns the game session lifecycle: creation, joining, move
// resolution, and the game directory
type Controller struct {
	storage storage.Storage
	fleet   *fleet.Generator
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	locks   *sessionLocks
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	fleetGenerator *fleet.Generator,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		fleet:   fleetGenerator,
		clock:   clock,
		random:  random,
		logger:  logger,
		locks:   newSessionLocks(),
	}
}

// Create allocates a waiting game and generates the creator's fleet
func (c *Controller) Create(ctx context.Context, name string, creatorID model.PlayerID) (*model.Game, error) {
	now := c.clock.Now()
	gameID := model.GameID(c.random.String(GameIDLength, GameIDAlphabet))

	game := &model.Game{
		ID:        gameID,
		Name:      name,
		CreatorID: creatorID,
		Status:    model.GameStatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ships, err := c.fleet.Generate(gameID, creatorID)
	if err != nil {
		return nil, err
	}

	if err := c.storage.SaveGameWithFleet(ctx, game, ships); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.String("creator_id", string(creatorID)),
		slog.String("name", name),
	)

	return game, nil
}

// Join fills the second slot, generates the joiner's fleet, and
// activates the game. The joiner moves first.
func (c *Controller) Join(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	unlock := c.locks.acquire(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if !game.IsOpen() {
		return nil, model.ErrGameNotJoinable
	}
	if game.CreatorID == playerID {
		return nil, model.ErrSelfJoin
	}

	ships, err := c.fleet.Generate(gameID, playerID)
	if err != nil {
		return nil, err
	}
	game.OpponentID = playerID
	game.Status = model.GameStatusActive
	game.CurrentTurn = playerID
	game.UpdatedAt = c.clock.Now()

	// The joiner's fleet and the activation land together
	if err := c.storage.SaveGameWithFleet(ctx, game, ships); err != nil {
		return nil, err
	}

	c.logger.Info("game joined",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
	)

	return game, nil
}

// FireResult is the outcome of a Fire operation
type FireResult struct {
	Outcome       shot.Outcome
	ShipDestroyed bool
	GameOver      bool
	Game          *model.Game
}

// Fire validates and resolves a single shot by the current-turn player
// against the opponent's fleet
func (c *Controller) Fire(ctx context.Context, gameID model.GameID, playerID model.PlayerID, target model.Coordinate) (*FireResult, error) {
	unlock := c.locks.acquire(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if !target.InBounds() {
		return nil, model.ErrOutOfBounds
	}
	if game.Status != model.GameStatusActive {
		return nil, model.ErrGameNotActive
	}
	if game.CurrentTurn != playerID {
		return nil, model.ErrNotYourTurn
	}

	moves, err := c.storage.GetMoves(ctx, gameID)
	if err != nil {
		return nil, err
	}

	// A cell, once fired upon by a player, is not refireable
	for _, move := range moves {
		if move.PlayerID == playerID && move.Target == target {
			return nil, model.ErrCellAlreadyFired
		}
	}

	opponentID := game.OpponentOf(playerID)
	ships, err := c.storage.GetShips(ctx, gameID, opponentID)
	if err != nil {
		return nil, err
	}
	index, err := board.BuildIndex(ships)
	if err != nil {
		return nil, err
	}

	result := shot.Resolve(index, target)
	now := c.clock.Now()

	move := &model.Move{
		GameID:   gameID,
		PlayerID: playerID,
		Target:   target,
		Seq:      len(moves) + 1,
		PlayedAt: now,
	}
	if result.Ship != nil {
		move.Hit = true
		move.ShipID = result.Ship.ID
		move.Sunk = result.Outcome == shot.OutcomeSunk
	}

	if result.GameOver {
		game.Status = model.GameStatusCompleted
		game.WinnerID = playerID
	} else {
		game.CurrentTurn = opponentID
	}
	game.UpdatedAt = now

	// The move record, the ship damage, and the turn or completion
	// transition commit as one write; a storage failure leaves the game
	// exactly as it was before the shot
	if err := c.storage.ApplyMove(ctx, move, result.Ship, game); err != nil {
		return nil, err
	}

	if result.GameOver {
		c.logger.Info("game completed",
			slog.String("game_id", string(gameID)),
			slog.String("winner_id", string(playerID)),
			slog.Int("total_moves", move.Seq),
		)
	}

	return &FireResult{
		Outcome:       result.Outcome,
		ShipDestroyed: result.Outcome == shot.OutcomeSunk,
		GameOver:      result.GameOver,
		Game:          game,
	}, nil
}

// Role is a viewer's position within a game
type Role string

const (
	RoleCreator  Role = "creator"
	RoleOpponent Role = "opponent"
)

// View is a participant's picture of a game: their own fleet with
// health, plus the full move history. Opponent ship placement is never
// included; hits and sinks are visible only through the move records.
type View struct {
	Game     *model.Game
	Role     Role
	YourTurn bool
	Fleet    []*model.Ship
	Moves    []*model.Move
}

// Query returns the game state as visible to the given participant
func (c *Controller) Query(ctx context.Context, gameID model.GameID, viewerID model.PlayerID) (*View, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if !game.HasPlayer(viewerID) {
		return nil, model.ErrNotParticipant
	}

	ships, err := c.storage.GetShips(ctx, gameID, viewerID)
	if err != nil {
		return nil, err
	}
	moves, err := c.storage.GetMoves(ctx, gameID)
	if err != nil {
		return nil, err
	}

	role := RoleCreator
	if viewerID == game.OpponentID {
		role = RoleOpponent
	}

	return &View{
		Game:     game,
		Role:     role,
		YourTurn: game.Status == model.GameStatusActive && game.CurrentTurn == viewerID,
		Fleet:    ships,
		Moves:    moves,
	}, nil
}

// Listing is a directory entry for one game
type Listing struct {
	Game        *model.Game
	CreatorName string
	// OpponentName is empty while the second slot is open
	OpponentName string
}

// List returns the games visible to a player: those they occupy, plus
// open waiting games they could join. Completed games are excluded
// unless requested. Newest first.
func (c *Controller) List(ctx context.Context, playerID model.PlayerID, includeCompleted bool) ([]*Listing, error) {
	games, err := c.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*model.Game, 0, len(games))
	for _, game := range games {
		if !game.HasPlayer(playerID) && !game.IsOpen() {
			continue
		}
		if game.Status == model.GameStatusCompleted && !includeCompleted {
			continue
		}
		visible = append(visible, game)
	}

	sort.Slice(visible, func(i, j int) bool {
		if !visible[i].CreatedAt.Equal(visible[j].CreatedAt) {
			return visible[i].CreatedAt.After(visible[j].CreatedAt)
		}
		return visible[i].ID < visible[j].ID
	})

	names := make(map[model.PlayerID]string)
	listings := make([]*Listing, 0, len(visible))
	for _, game := range visible {
		listing := &Listing{Game: game}
		var err error
		if listing.CreatorName, err = c.playerName(ctx, names, game.CreatorID); err != nil {
			return nil, err
		}
		if listing.OpponentName, err = c.playerName(ctx, names, game.OpponentID); err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// playerName resolves a player's display name with a per-call cache
func (c *Controller) playerName(ctx context.Context, cache map[model.PlayerID]string, id model.PlayerID) (string, error) {
	if id == "" {
		return "", nil
	}
	if name, ok := cache[id]; ok {
		return name, nil
	}
	player, err := c.storage.GetPlayer(ctx, id)
	if err != nil {
		return "", err
	}
	cache[id] = player.DisplayName
	return player.DisplayName, nil
}
