package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNilGrid    = errors.New("fleet has no grid")
	ErrEmptyFleet = errors.New("fleet has no ships")
)

// ShipSpec names a ship class in a fleet composition.
type ShipSpec struct {
	Name   string `yaml:"name" json:"name"`
	Length int    `yaml:"length" json:"length"`
}

// DefaultComposition is one ship of every length from 5 down to 1.
func DefaultComposition() []ShipSpec {
	return []ShipSpec{
		{Name: "Carrier", Length: 5},
		{Name: "Battleship", Length: 4},
		{Name: "Cruiser", Length: 3},
		{Name: "Destroyer", Length: 2},
		{Name: "Patrol Boat", Length: 1},
	}
}

// Maneuver is one of the four turn actions a placed ship can take.
type Maneuver int

const (
	Forward Maneuver = iota
	Backward
	TurnLeft
	TurnRight
)

var maneuverNames = [...]string{"forward", "backward", "rotate_left", "rotate_right"}

func (m Maneuver) String() string {
	if m >= 0 && int(m) < len(maneuverNames) {
		return maneuverNames[m]
	}
	return fmt.Sprintf("maneuver(%d)", int(m))
}

func ParseManeuver(s string) (Maneuver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "w":
		return Forward, nil
	case "backward", "s":
		return Backward, nil
	case "rotate_left", "left", "a":
		return TurnLeft, nil
	case "rotate_right", "right", "d":
		return TurnRight, nil
	}
	return 0, fmt.Errorf("unknown maneuver %q", s)
}

// Fleet is every ship belonging to one side, bound to that side's grid.
type Fleet struct {
	owner string
	grid  *Grid
	ships []*Ship
}

// NewFleet takes ownership of ships. A ship can belong to one fleet only.
func NewFleet(owner string, grid *Grid, ships ...*Ship) (*Fleet, error) {
	if grid == nil {
		return nil, ErrNilGrid
	}
	if len(ships) == 0 {
		return nil, ErrEmptyFleet
	}
	seen := make(map[*Ship]bool, len(ships))
	for i, s := range ships {
		if s == nil {
			return nil, fmt.Errorf("fleet %q: ship %d is nil", owner, i)
		}
		if seen[s] {
			return nil, fmt.Errorf("fleet %q: ship %q listed twice", owner, s.name)
		}
		if s.owner != "" && s.owner != owner {
			return nil, fmt.Errorf("fleet %q: ship %q already belongs to %q", owner, s.name, s.owner)
		}
		seen[s] = true
	}
	for _, s := range ships {
		s.owner = owner
		s.gridSize = grid.Size()
	}
	return &Fleet{owner: owner, grid: grid, ships: ships}, nil
}

// NewFleetFromSpecs builds fresh ships for a composition.
func NewFleetFromSpecs(owner string, grid *Grid, specs []ShipSpec) (*Fleet, error) {
	ships := make([]*Ship, 0, len(specs))
	for _, spec := range specs {
		s, err := NewShip(spec.Name, spec.Length)
		if err != nil {
			return nil, fmt.Errorf("fleet %q: %w", owner, err)
		}
		ships = append(ships, s)
	}
	return NewFleet(owner, grid, ships...)
}

func (f *Fleet) Owner() string  { return f.owner }
func (f *Fleet) Grid() *Grid    { return f.grid }
func (f *Fleet) Ships() []*Ship { return f.ships }
func (f *Fleet) Len() int       { return len(f.ships) }

// Ship returns the i-th ship or nil.
func (f *Fleet) Ship(i int) *Ship {
	if i < 0 || i >= len(f.ships) {
		return nil
	}
	return f.ships[i]
}

// Others returns the placed ships of this fleet other than s.
func (f *Fleet) Others(s *Ship) []*Ship {
	out := make([]*Ship, 0, len(f.ships))
	for _, o := range f.ships {
		if o != s && o.placed {
			out = append(out, o)
		}
	}
	return out
}

// TakeHit resolves an incoming shot. Every ship covering the cell takes
// damage; a ship that goes down on this shot is reported and revealed to
// the opponent straight away.
func (f *Fleet) TakeHit(c Cell) (hit bool, sunk *Ship) {
	for _, s := range f.ships {
		if !s.IsHit(c) {
			continue
		}
		hit = true
		if s.TakeDamage(c) {
			sunk = s
		}
	}
	if sunk != nil {
		sunk.Reveal()
	}
	return hit, sunk
}

func (f *Fleet) AllSunk() bool {
	for _, s := range f.ships {
		if !s.sunk {
			return false
		}
	}
	return true
}

func (f *Fleet) AllPlaced() bool {
	for _, s := range f.ships {
		if !s.placed {
			return false
		}
	}
	return true
}

// ResetTurnFlags lets every ship act again. Called once per turn handed
// to this fleet.
func (f *Fleet) ResetTurnFlags() {
	for _, s := range f.ships {
		s.ResetTurn()
	}
}

// Afloat counts ships that are not sunk.
func (f *Fleet) Afloat() int {
	n := 0
	for _, s := range f.ships {
		if !s.sunk {
			n++
		}
	}
	return n
}

func (f *Fleet) SunkShips() []*Ship {
	var out []*Ship
	for _, s := range f.ships {
		if s.sunk {
			out = append(out, s)
		}
	}
	return out
}

// RevealAll shows the whole fleet, used when the match ends.
func (f *Fleet) RevealAll() {
	for _, s := range f.ships {
		s.Reveal()
	}
}

// NextUnplaced returns the index of the first ship still to be placed,
// or -1 when the fleet is deployed.
func (f *Fleet) NextUnplaced() int {
	for i, s := range f.ships {
		if !s.placed {
			return i
		}
	}
	return -1
}

// Place proposes a pose for ship i and commits it if legal.
func (f *Fleet) Place(i int, nose Cell, o Orientation) bool {
	s := f.Ship(i)
	if s == nil || s.placed {
		return false
	}
	prevNose, prevO := s.nose, s.orientation
	if !s.SetPose(nose, o) {
		return false
	}
	if !s.PlaceShip(f.Others(s)) {
		s.nose, s.orientation = prevNose, prevO
		return false
	}
	return true
}

// Maneuver applies a turn action to ship i against its fleet mates.
func (f *Fleet) Maneuver(i int, m Maneuver) bool {
	s := f.Ship(i)
	if s == nil {
		return false
	}
	return ApplyManeuver(s, m, f.Others(s))
}

// ApplyManeuver dispatches m to the matching Ship method.
func ApplyManeuver(s *Ship, m Maneuver, others []*Ship) bool {
	switch m {
	case Forward:
		return s.MoveForward(others)
	case Backward:
		return s.MoveBackward(others)
	case TurnLeft:
		return s.RotateLeft(others)
	case TurnRight:
		return s.RotateRight(others)
	}
	return false
}
