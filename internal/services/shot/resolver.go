package shot

import (
	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/board"
)

// Outcome classifies a resolved shot
type Outcome string

const (
	OutcomeMiss Outcome = "miss"
	OutcomeHit  Outcome = "hit"
	OutcomeSunk Outcome = "sunk"
)

// Result is the outcome of resolving one shot against a fleet index
type Result struct {
	Outcome Outcome

	// Ship is the ship that was hit, nil on a miss. Its Health reflects
	// the decrement and is what the caller persists.
	Ship *model.Ship

	// GameOver is true if every ship in the target fleet is destroyed
	// after this shot
	GameOver bool
}

// Resolve applies a single shot at target against the opponent's fleet
// index. Purely deterministic: it mutates only the hit ship's health,
// decrementing by 1 and clamping at 0. A ship already at zero health
// cannot be decremented again, so repeat fire on a destroyed ship's
// cell registers as a hit without changing state.
func Resolve(index *board.Index, target model.Coordinate) Result {
	ship, ok := index.At(target)
	if !ok {
		return Result{Outcome: OutcomeMiss}
	}

	sunk := false
	if ship.Health > 0 {
		ship.Health--
		sunk = ship.Health == 0
	}

	outcome := OutcomeHit
	if sunk {
		outcome = OutcomeSunk
	}

	return Result{
		Outcome:  outcome,
		Ship:     ship,
		GameOver: index.AllDestroyed(),
	}
}
