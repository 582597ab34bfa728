package model

// BoardSize is the fixed grid dimension (classic 10x10 board)
const BoardSize = 10

// Coordinate identifies a cell on the grid.
// X is the column and Y is the row, both 0-indexed.
type Coordinate struct {
	X int
	Y int
}

// InBounds returns true if the coordinate lies on the board
func (c Coordinate) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

// Orientation is the axis a ship lies along
type Orientation string

const (
	Horizontal Orientation = "horizontal" // cells extend along +X
	Vertical   Orientation = "vertical"   // cells extend along +Y
)

// ShipID uniquely identifies a ship within a game
type ShipID string

// ShipType determines a ship's length
type ShipType string

const (
	ShipCarrier    ShipType = "carrier"
	ShipBattleship ShipType = "battleship"
	ShipCruiser    ShipType = "cruiser"
	ShipSubmarine  ShipType = "submarine"
	ShipDestroyer  ShipType = "destroyer"
)

// FleetCatalog is the classic fleet, one ship of each type per player
var FleetCatalog = []ShipType{
	ShipCarrier,
	ShipBattleship,
	ShipCruiser,
	ShipSubmarine,
	ShipDestroyer,
}

var shipLengths = map[ShipType]int{
	ShipCarrier:    5,
	ShipBattleship: 4,
	ShipCruiser:    3,
	ShipSubmarine:  3,
	ShipDestroyer:  2,
}

// Length returns the number of cells the ship type occupies
func (t ShipType) Length() int {
	return shipLengths[t]
}

// Ship belongs to exactly one (game, player) pair. Its placement is
// immutable after generation; only Health mutates.
type Ship struct {
	ID          ShipID
	GameID      GameID
	PlayerID    PlayerID
	Type        ShipType
	Anchor      Coordinate
	Orientation Orientation

	// Health starts at Type.Length() and floors at 0
	Health int
}

// Cells returns the ordered list of cells the ship occupies,
// derived from its anchor and orientation
func (s *Ship) Cells() []Coordinate {
	length := s.Type.Length()
	cells := make([]Coordinate, length)
	for i := 0; i < length; i++ {
		if s.Orientation == Horizontal {
			cells[i] = Coordinate{X: s.Anchor.X + i, Y: s.Anchor.Y}
		} else {
			cells[i] = Coordinate{X: s.Anchor.X, Y: s.Anchor.Y + i}
		}
	}
	return cells
}

// IsDestroyed returns true if the ship has no health remaining
func (s *Ship) IsDestroyed() bool {
	return s.Health <= 0
}
