package model

import "sort"

// Grid is one side's battlefield together with the shots fired at it.
// Only two generations of shots are kept: the turn in progress and the
// turn before it. Older shots are forgotten here; ships remember their
// own hits independently.
type Grid struct {
	size     int
	current  *CellSet
	previous *CellSet
}

// NewGrid returns an empty size x size grid. A non-positive size falls
// back to DefaultGridSize.
func NewGrid(size int) *Grid {
	if size <= 0 {
		size = DefaultGridSize
	}
	return &Grid{
		size:     size,
		current:  NewCellSet(size * size),
		previous: NewCellSet(size * size),
	}
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) InBounds(c Cell) bool { return c.InBounds(g.size) }

// AddShot records a shot in the current turn and drops it from the
// previous generation. Bounds are the caller's concern.
func (g *Grid) AddShot(c Cell) {
	g.current.Add(c)
	g.previous.Delete(c)
}

// WasShotThisTurn is the only hard block on re-targeting a cell.
func (g *Grid) WasShotThisTurn(c Cell) bool { return g.current.Has(c) }

func (g *Grid) WasShotPreviousTurn(c Cell) bool { return g.previous.Has(c) }

// WasShot reports membership in either tracked generation.
func (g *Grid) WasShot(c Cell) bool {
	return g.current.Has(c) || g.previous.Has(c)
}

// CanTarget reports whether an attacker may fire at c right now.
func (g *Grid) CanTarget(c Cell) bool {
	return g.InBounds(c) && !g.WasShotThisTurn(c)
}

// NextTurn replaces the previous generation with the current one and
// starts an empty current generation.
func (g *Grid) NextTurn() {
	g.previous, g.current = g.current, g.previous
	g.current.Clear()
}

// Reset forgets every shot.
func (g *Grid) Reset() {
	g.current.Clear()
	g.previous.Clear()
}

// CurrentShots returns the current generation sorted row-major.
func (g *Grid) CurrentShots() []Cell { return g.current.Cells() }

// PreviousShots returns the previous generation sorted row-major.
func (g *Grid) PreviousShots() []Cell { return g.previous.Cells() }

// SortCells orders cells by Y then X.
func SortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
}
