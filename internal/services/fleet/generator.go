package fleet

import (
	"log/slog"

	"github.com/mcoot/battleship-go/internal/dependencies/random"
	"github.com/mcoot/battleship-go/internal/model"
)

const (
	// ShipIDLength is the length of generated ship ids
	ShipIDLength = 8
	// ShipIDAlphabet is the characters used in ship ids
	ShipIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxAttemptsPerShip bounds re-rolls on collision. The default
	// catalog fits a 10x10 board with enormous slack, so hitting this
	// limit means the catalog/board configuration is broken.
	maxAttemptsPerShip = 1000
)

// Generator produces random non-overlapping fleet placements
type Generator struct {
	random random.Random
	logger *slog.Logger
}

// New creates a new fleet Generator
func New(random random.Random, logger *slog.Logger) *Generator {
	return &Generator{
		random: random,
		logger: logger,
	}
}

// Generate produces one ship per catalog type for the given player,
// each in bounds and with no two ships sharing a cell. The caller is
// responsible for persisting the result.
func (g *Generator) Generate(gameID model.GameID, playerID model.PlayerID) ([]*model.Ship, error) {
	ships := make([]*model.Ship, 0, len(model.FleetCatalog))
	occupied := make(map[model.Coordinate]bool)

	for _, shipType := range model.FleetCatalog {
		ship, err := g.placeShip(gameID, playerID, shipType, occupied)
		if err != nil {
			return nil, err
		}

		for _, cell := range ship.Cells() {
			occupied[cell] = true
		}
		ships = append(ships, ship)
	}

	g.logger.Debug("fleet generated",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.Int("ship_count", len(ships)),
	)

	return ships, nil
}

// placeShip rolls placements for a single ship until one fits
func (g *Generator) placeShip(
	gameID model.GameID,
	playerID model.PlayerID,
	shipType model.ShipType,
	occupied map[model.Coordinate]bool,
) (*model.Ship, error) {
	length := shipType.Length()

	for attempt := 0; attempt < maxAttemptsPerShip; attempt++ {
		orientation := model.Horizontal
		if g.random.Intn(2) == 1 {
			orientation = model.Vertical
		}

		// Anchor range shrinks along the ship's axis so every cell
		// stays in bounds
		var anchor model.Coordinate
		if orientation == model.Horizontal {
			anchor = model.Coordinate{
				X: g.random.Intn(model.BoardSize - length + 1),
				Y: g.random.Intn(model.BoardSize),
			}
		} else {
			anchor = model.Coordinate{
				X: g.random.Intn(model.BoardSize),
				Y: g.random.Intn(model.BoardSize - length + 1),
			}
		}

		ship := &model.Ship{
			ID:          model.ShipID(g.random.String(ShipIDLength, ShipIDAlphabet)),
			GameID:      gameID,
			PlayerID:    playerID,
			Type:        shipType,
			Anchor:      anchor,
			Orientation: orientation,
			Health:      length,
		}

		if collides(ship, occupied) {
			continue
		}
		return ship, nil
	}

	return nil, model.ErrFleetDoesNotFit
}

// collides reports whether any of the ship's cells is already occupied
func collides(ship *model.Ship, occupied map[model.Coordinate]bool) bool {
	for _, cell := range ship.Cells() {
		if occupied[cell] {
			return true
		}
	}
	return false
}
