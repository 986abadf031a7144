package model

import (
	"fmt"
	"slices"
)

// separation is the Chebyshev radius that must stay clear between two
// ships of the same fleet. Touching corners count as adjacent.
const separation = 1

// rotateLeft and rotateRight give the nose shift for a quarter turn,
// indexed by the old orientation and scaled by length-1, so that one end
// of the body stays anchored while the other sweeps round.
var (
	rotateLeft  = [4][2]int{West: {0, 1}, South: {-1, 0}, East: {0, -1}, North: {1, 0}}
	rotateRight = [4][2]int{West: {0, -1}, South: {1, 0}, East: {0, 1}, North: {-1, 0}}
)

// Ship is a single vessel. Its occupied cells are never stored; they are
// derived from nose, orientation and length whenever they are needed.
type Ship struct {
	name        string
	length      int
	nose        Cell
	orientation Orientation
	gridSize    int
	owner       string

	health    int
	maxHealth int
	struck    []Cell

	placed   bool
	sunk     bool
	acted    bool // at most one move or rotation per turn
	moved    bool // ever moved, for presentation
	revealed bool

	onSink []func(*Ship)
}

// NewShip returns an unplaced ship at full health.
func NewShip(name string, length int) (*Ship, error) {
	if length < MinShipLength || length > MaxShipLength {
		return nil, fmt.Errorf("ship %q: length %d outside [%d,%d]", name, length, MinShipLength, MaxShipLength)
	}
	return &Ship{
		name:      name,
		length:    length,
		gridSize:  DefaultGridSize,
		health:    length,
		maxHealth: length,
	}, nil
}

func (s *Ship) Name() string             { return s.name }
func (s *Ship) Length() int              { return s.length }
func (s *Ship) Nose() Cell               { return s.nose }
func (s *Ship) Orientation() Orientation { return s.orientation }
func (s *Ship) Owner() string            { return s.owner }
func (s *Ship) Health() int              { return s.health }
func (s *Ship) MaxHealth() int           { return s.maxHealth }
func (s *Ship) IsPlaced() bool           { return s.placed }
func (s *Ship) IsSunk() bool             { return s.sunk }
func (s *Ship) HasActedThisTurn() bool   { return s.acted }
func (s *Ship) HasMoved() bool           { return s.moved }
func (s *Ship) IsRevealed() bool         { return s.revealed }

// IsDamaged reports whether the ship is down to half health or less.
func (s *Ship) IsDamaged() bool { return !s.sunk && s.health <= s.maxHealth/2 }

// StruckCells returns every cell this ship has been hit on, in hit order.
func (s *Ship) StruckCells() []Cell { return slices.Clone(s.struck) }

// OnSink registers fn to run once when the ship goes down.
func (s *Ship) OnSink(fn func(*Ship)) { s.onSink = append(s.onSink, fn) }

// OccupiedCells is a pure function of nose, orientation and length.
func (s *Ship) OccupiedCells() []Cell {
	return bodyCells(s.nose, s.orientation, s.length)
}

func bodyCells(nose Cell, o Orientation, length int) []Cell {
	dx, dy := o.Step()
	cells := make([]Cell, length)
	for i := 0; i < length; i++ {
		cells[i] = nose.Add(dx*i, dy*i)
	}
	return cells
}

// IsHit reports whether c is one of the ship's occupied cells.
func (s *Ship) IsHit(c Cell) bool {
	return slices.Contains(s.OccupiedCells(), c)
}

// SetPose moves the placement cursor of an unplaced ship.
func (s *Ship) SetPose(nose Cell, o Orientation) bool {
	if s.placed || !o.Valid() {
		return false
	}
	s.nose = nose
	s.orientation = o
	return true
}

// CycleOrientation turns an unplaced ship a quarter turn in place.
func (s *Ship) CycleOrientation() bool {
	if s.placed {
		return false
	}
	s.orientation = (s.orientation + 1) % 4
	return true
}

// ClampNose pulls a cursor cell back so the whole body fits the grid in
// the ship's current orientation.
func (s *Ship) ClampNose(c Cell) Cell {
	minX, minY := 0, 0
	maxX, maxY := s.gridSize-1, s.gridSize-1
	switch s.orientation {
	case West:
		minX = s.length - 1
	case South:
		minY = s.length - 1
	case East:
		maxX = s.gridSize - s.length
	case North:
		maxY = s.gridSize - s.length
	}
	return Cell{X: clampInt(c.X, minX, maxX), Y: clampInt(c.Y, minY, maxY)}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CanPlaceAt checks a hypothetical pose against the grid bounds and
// every other placed ship of the same owner. The ship is not modified.
func (s *Ship) CanPlaceAt(pos Cell, o Orientation, others []*Ship) bool {
	if !o.Valid() {
		return false
	}
	cells := bodyCells(pos, o, s.length)
	for _, c := range cells {
		if !c.InBounds(s.gridSize) {
			return false
		}
	}
	for _, other := range others {
		if !s.conflictsWith(other) {
			continue
		}
		for _, oc := range other.OccupiedCells() {
			for _, c := range cells {
				if c.Chebyshev(oc) <= separation {
					return false
				}
			}
		}
	}
	return true
}

// conflictsWith filters the ships placement rules apply against.
func (s *Ship) conflictsWith(other *Ship) bool {
	return other != nil && other != s && other.placed && other.owner == s.owner
}

// InvalidCells lists the cells of the current pose that break placement,
// for placement feedback.
func (s *Ship) InvalidCells(others []*Ship) []Cell {
	var bad []Cell
	for _, c := range s.OccupiedCells() {
		if !c.InBounds(s.gridSize) || s.crowds(c, others) {
			bad = append(bad, c)
		}
	}
	return bad
}

func (s *Ship) crowds(c Cell, others []*Ship) bool {
	for _, other := range others {
		if !s.conflictsWith(other) {
			continue
		}
		for _, oc := range other.OccupiedCells() {
			if c.Chebyshev(oc) <= separation {
				return true
			}
		}
	}
	return false
}

// PlaceShip commits the proposed pose if it is legal.
func (s *Ship) PlaceShip(others []*Ship) bool {
	if s.placed || !s.CanPlaceAt(s.nose, s.orientation, others) {
		return false
	}
	s.placed = true
	return true
}

func (s *Ship) MoveForward(others []*Ship) bool {
	dx, dy := s.orientation.Step()
	return s.tryPose(s.nose.Add(dx, dy), s.orientation, others)
}

func (s *Ship) MoveBackward(others []*Ship) bool {
	dx, dy := s.orientation.Step()
	return s.tryPose(s.nose.Add(-dx, -dy), s.orientation, others)
}

func (s *Ship) RotateLeft(others []*Ship) bool {
	d := rotateLeft[s.orientation]
	k := s.length - 1
	return s.tryPose(s.nose.Add(d[0]*k, d[1]*k), s.orientation.Left(), others)
}

func (s *Ship) RotateRight(others []*Ship) bool {
	d := rotateRight[s.orientation]
	k := s.length - 1
	return s.tryPose(s.nose.Add(d[0]*k, d[1]*k), s.orientation.Right(), others)
}

// tryPose applies a turn action atomically: the pose changes only when
// the ship may act and the new pose is legal.
func (s *Ship) tryPose(nose Cell, o Orientation, others []*Ship) bool {
	if !s.placed || s.sunk || s.health <= 0 || s.acted {
		return false
	}
	if !s.CanPlaceAt(nose, o, others) {
		return false
	}
	s.nose = nose
	s.orientation = o
	s.acted = true
	s.moved = true
	return true
}

// TakeDamage removes one point of health. A cell struck twice costs
// health twice. It returns true only on the hit that sinks the ship;
// a sunk ship ignores further damage.
func (s *Ship) TakeDamage(c Cell) bool {
	if s.sunk {
		return false
	}
	if !slices.Contains(s.struck, c) {
		s.struck = append(s.struck, c)
	}
	s.health--
	if s.health > 0 {
		return false
	}
	s.health = 0
	s.sunk = true
	for _, fn := range s.onSink {
		fn(s)
	}
	return true
}

// Reveal makes the ship visible to the opponent.
func (s *Ship) Reveal() { s.revealed = true }

// ResetTurn clears the per-turn action flag.
func (s *Ship) ResetTurn() { s.acted = false }

// ResetBattleState restores full health and forgets hits; placement is kept.
func (s *Ship) ResetBattleState() {
	s.health = s.maxHealth
	s.struck = nil
	s.sunk = false
	s.revealed = false
	s.acted = false
}
