package board

import (
	"github.com/mcoot/battleship-go/internal/model"
)

// Index is a spatial lookup of ship occupancy for one player's fleet.
// It is built once per fleet load and reused across fire queries; ship
// placement never changes, only health mutates on the indexed ships.
type Index struct {
	ships []*model.Ship
	cells map[model.Coordinate]*model.Ship
}

// BuildIndex derives an Index from a fleet. It fails if two ships share
// a cell or a ship extends off the board, which would violate the
// placement invariants.
func BuildIndex(ships []*model.Ship) (*Index, error) {
	cells := make(map[model.Coordinate]*model.Ship)

	for _, ship := range ships {
		for _, cell := range ship.Cells() {
			if !cell.InBounds() {
				return nil, model.ErrOutOfBounds
			}
			if _, taken := cells[cell]; taken {
				return nil, model.ErrShipOverlap
			}
			cells[cell] = ship
		}
	}

	return &Index{
		ships: ships,
		cells: cells,
	}, nil
}

// At returns the ship occupying the given cell, if any
func (i *Index) At(c model.Coordinate) (*model.Ship, bool) {
	ship, ok := i.cells[c]
	return ship, ok
}

// Ships returns the indexed fleet
func (i *Index) Ships() []*model.Ship {
	return i.ships
}

// AllDestroyed returns true if every ship in the fleet has zero health
func (i *Index) AllDestroyed() bool {
	for _, ship := range i.ships {
		if !ship.IsDestroyed() {
			return false
		}
	}
	return len(i.ships) > 0
}
