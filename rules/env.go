package rules

import (
	"math/rand"

	"github.com/DrekFretson/Final-Battleship/model"
)

// TargetEnv is the targeting state visible to shot-selection rules.
// Pool holds every cell the bot has not fired at yet and Forbidden the
// cells around known wrecks. The firing rule writes its choice to Pick.
type TargetEnv struct {
	Hunting   bool
	LastHit   *model.Cell
	Attempts  int
	Pool      *model.CellPool
	Forbidden *model.CellSet
	Rng       *rand.Rand
	Pick      *model.Cell
}

func (e TargetEnv) HasLastHit() bool { return e.LastHit != nil }

// HuntCandidates returns the orthogonal neighbours of the last hit that
// are still available and not next to a wreck.
func (e TargetEnv) HuntCandidates() []model.Cell {
	if e.LastHit == nil || e.Pool == nil {
		return nil
	}
	var out []model.Cell
	for _, c := range e.LastHit.Orthogonal() {
		if e.Pool.Has(c) && !e.forbidden(c) {
			out = append(out, c)
		}
	}
	return out
}

// Available is the number of cells left to shoot at.
func (e TargetEnv) Available() int {
	if e.Pool == nil {
		return 0
	}
	return e.Pool.Len()
}

// Open counts available cells that are not forbidden.
func (e TargetEnv) Open() int {
	n := 0
	for i := 0; i < e.Available(); i++ {
		if !e.forbidden(e.Pool.At(i)) {
			n++
		}
	}
	return n
}

func (e TargetEnv) forbidden(c model.Cell) bool {
	return e.Forbidden != nil && e.Forbidden.Has(c)
}

func (e TargetEnv) choose(c model.Cell) bool {
	if e.Pick == nil {
		return false
	}
	*e.Pick = c
	return true
}

// ManeuverOutcome records what a maneuver rule tried for one ship.
type ManeuverOutcome struct {
	Attempted bool
	Maneuver  model.Maneuver
	Moved     bool
}

// ManeuverEnv describes one ship during self-repositioning. The rolls are
// drawn by the caller in [0,1): Roll decides whether the ship acts at all,
// KindRoll picks moving over turning and DirRoll the direction.
type ManeuverEnv struct {
	Ship     *model.Ship
	Others   []*model.Ship
	Roll     float64
	KindRoll float64
	DirRoll  float64
	Outcome  *ManeuverOutcome
}

// Eligible reports whether the ship is on the board and afloat.
func (e ManeuverEnv) Eligible() bool {
	return e.Ship != nil && e.Ship.IsPlaced() && !e.Ship.IsSunk()
}

func (e ManeuverEnv) Acted() bool {
	return e.Ship != nil && e.Ship.HasActedThisTurn()
}

func (e ManeuverEnv) Length() int {
	if e.Ship == nil {
		return 0
	}
	return e.Ship.Length()
}
