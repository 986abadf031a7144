package model

import (
	"fmt"
	"strings"
)

// Board and fleet limits.
const (
	DefaultGridSize = 10
	MinShipLength   = 1
	MaxShipLength   = 5
)

// Cell is a grid coordinate. X grows east, Y grows north.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Add returns c shifted by (dx, dy).
func (c Cell) Add(dx, dy int) Cell { return Cell{X: c.X + dx, Y: c.Y + dy} }

// InBounds reports whether c lies on a size x size grid.
func (c Cell) InBounds(size int) bool {
	return c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size
}

// Chebyshev returns the king-move distance between two cells.
func (c Cell) Chebyshev(o Cell) int {
	return max(abs(c.X-o.X), abs(c.Y-o.Y))
}

// Orthogonal returns the four edge neighbours of c, unclipped.
func (c Cell) Orthogonal() [4]Cell {
	return [4]Cell{c.Add(1, 0), c.Add(-1, 0), c.Add(0, 1), c.Add(0, -1)}
}

// Neighbors8 returns c and its eight surrounding cells clipped to the grid.
func (c Cell) Neighbors8(size int) []Cell {
	out := make([]Cell, 0, 9)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			n := c.Add(dx, dy)
			if n.InBounds(size) {
				out = append(out, n)
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Orientation is the facing of a ship's nose. The body extends from the
// nose along the axis the orientation names.
type Orientation byte

const (
	West  Orientation = 0
	South Orientation = 1
	East  Orientation = 2
	North Orientation = 3
)

var orientationNames = [...]string{"west", "south", "east", "north"}

func (o Orientation) String() string {
	if int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return fmt.Sprintf("orientation(%d)", o)
}

// Valid reports whether o is one of the four facings.
func (o Orientation) Valid() bool { return o <= North }

// Step is the unit vector a forward move shifts the nose by.
func (o Orientation) Step() (dx, dy int) {
	switch o {
	case West:
		return -1, 0
	case South:
		return 0, -1
	case East:
		return 1, 0
	case North:
		return 0, 1
	}
	return 0, 0
}

// Left is the facing after a quarter turn to the left.
func (o Orientation) Left() Orientation { return (o + 1) % 4 }

// Right is the facing after a quarter turn to the right.
func (o Orientation) Right() Orientation { return (o + 3) % 4 }

// ParseOrientation accepts the lowercase names and single-letter forms.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "west", "w":
		return West, nil
	case "south", "s":
		return South, nil
	case "east", "e":
		return East, nil
	case "north", "n":
		return North, nil
	}
	return 0, fmt.Errorf("unknown orientation %q", s)
}
