package model

import (
	"slices"

	"github.com/dolthub/swiss"
)

// CellSet is an unordered set of cells.
type CellSet struct {
	m *swiss.Map[Cell, struct{}]
}

func NewCellSet(hint int) *CellSet {
	return &CellSet{m: swiss.NewMap[Cell, struct{}](uint32(max(hint, 1)))}
}

func (s *CellSet) Add(c Cell)         { s.m.Put(c, struct{}{}) }
func (s *CellSet) Has(c Cell) bool    { return s.m.Has(c) }
func (s *CellSet) Delete(c Cell) bool { return s.m.Delete(c) }
func (s *CellSet) Len() int           { return s.m.Count() }
func (s *CellSet) Clear()             { s.m.Clear() }

// Cells returns the members sorted row-major.
func (s *CellSet) Cells() []Cell {
	out := make([]Cell, 0, s.m.Count())
	s.m.Iter(func(c Cell, _ struct{}) bool {
		out = append(out, c)
		return false
	})
	SortCells(out)
	return out
}

// CellPool is a set of cells that also supports uniform sampling by
// index. Removal swaps the last element into the hole, so indices are
// not stable across removals.
type CellPool struct {
	cells []Cell
	index *swiss.Map[Cell, int]
}

func NewCellPool(hint int) *CellPool {
	return &CellPool{
		cells: make([]Cell, 0, hint),
		index: swiss.NewMap[Cell, int](uint32(max(hint, 1))),
	}
}

// FullPool holds every cell of a size x size grid.
func FullPool(size int) *CellPool {
	p := NewCellPool(size * size)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			p.Add(Cell{X: x, Y: y})
		}
	}
	return p
}

func (p *CellPool) Add(c Cell) {
	if p.index.Has(c) {
		return
	}
	p.index.Put(c, len(p.cells))
	p.cells = append(p.cells, c)
}

func (p *CellPool) Remove(c Cell) bool {
	i, ok := p.index.Get(c)
	if !ok {
		return false
	}
	last := len(p.cells) - 1
	if i != last {
		moved := p.cells[last]
		p.cells[i] = moved
		p.index.Put(moved, i)
	}
	p.cells = p.cells[:last]
	p.index.Delete(c)
	return true
}

func (p *CellPool) Has(c Cell) bool { return p.index.Has(c) }
func (p *CellPool) Len() int        { return len(p.cells) }
func (p *CellPool) At(i int) Cell   { return p.cells[i] }

// Cells returns a sorted copy of the pool.
func (p *CellPool) Cells() []Cell {
	out := slices.Clone(p.cells)
	SortCells(out)
	return out
}
