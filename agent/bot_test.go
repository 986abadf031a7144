package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DrekFretson/Final-Battleship/model"
)

func newBot(t *testing.T, seed int64) *Bot {
	t.Helper()
	b, err := NewBot(10, NewRand(seed))
	require.NoError(t, err)
	return b
}

// sunkFleet returns a fleet whose single ship of the given length sits
// at nose facing East and has been sunk.
func sunkFleet(t *testing.T, nose model.Cell, length int) *model.Fleet {
	t.Helper()
	f, err := model.NewFleetFromSpecs("side1", model.NewGrid(10), []model.ShipSpec{{Name: "wreck", Length: length}})
	require.NoError(t, err)
	require.True(t, f.Place(0, nose, model.East))
	for _, c := range f.Ship(0).OccupiedCells() {
		f.TakeHit(c)
	}
	require.True(t, f.Ship(0).IsSunk())
	return f
}

func requireSeparated(t *testing.T, f *model.Fleet) {
	t.Helper()
	ships := f.Ships()
	for i, a := range ships {
		for _, b := range ships[i+1:] {
			for _, ca := range a.OccupiedCells() {
				for _, cb := range b.OccupiedCells() {
					require.Greater(t, ca.Chebyshev(cb), 1, "%s at %s touches %s at %s", a.Name(), ca, b.Name(), cb)
				}
			}
		}
	}
}

func TestForbiddenCellsClippedAtBoundary(t *testing.T) {
	b := newBot(t, 1)
	f := sunkFleet(t, model.Cell{X: 0, Y: 0}, 2)

	got := b.ForbiddenCells(f).Cells()
	want := []model.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}}
	require.Equal(t, want, got)
}

func TestForbiddenCellsRecomputedEachCall(t *testing.T) {
	b := newBot(t, 1)
	f := sunkFleet(t, model.Cell{X: 5, Y: 5}, 1)
	require.Equal(t, 9, b.ForbiddenCells(f).Len())

	f.Ship(0).ResetBattleState()
	require.Zero(t, b.ForbiddenCells(f).Len())
	require.Zero(t, b.ForbiddenCells(nil).Len())
}

func TestSelectShotFallsBackToRandomWhenHuntBlocked(t *testing.T) {
	b := newBot(t, 3)
	for _, c := range []model.Cell{{X: 5, Y: 4}, {X: 3, Y: 4}, {X: 4, Y: 3}, {X: 4, Y: 4}} {
		require.True(t, b.available.Remove(c))
	}
	b.ProcessResult(model.Cell{X: 4, Y: 4}, true)
	require.True(t, b.Hunting())

	// A wreck at (4,6) forbids (4,5), the only remaining neighbour.
	opp := sunkFleet(t, model.Cell{X: 4, Y: 6}, 1)
	forbidden := b.ForbiddenCells(opp)
	require.True(t, forbidden.Has(model.Cell{X: 4, Y: 5}))
	require.True(t, b.available.Has(model.Cell{X: 4, Y: 5}))

	for iter := 0; iter < 20; iter++ {
		c, ok := b.SelectShot(opp)
		require.True(t, ok)
		require.NotEqual(t, model.Cell{X: 4, Y: 5}, c)
		require.False(t, forbidden.Has(c), "random mode picked forbidden %s", c)
	}
}

func TestSelectShotHuntsNeighbours(t *testing.T) {
	b := newBot(t, 5)
	b.ProcessResult(model.Cell{X: 4, Y: 4}, true)

	c, ok := b.SelectShot(nil)
	require.True(t, ok)
	require.Equal(t, 1, c.Chebyshev(model.Cell{X: 4, Y: 4}))
	require.True(t, c.X == 4 || c.Y == 4, "diagonal %s", c)
	require.False(t, b.available.Has(c))
}

func TestSelectShotUsesEveryCellOnce(t *testing.T) {
	b := newBot(t, 9)
	seen := make(map[model.Cell]bool)
	for iter := 0; iter < 100; iter++ {
		c, ok := b.SelectShot(nil)
		require.True(t, ok)
		require.True(t, c.InBounds(10))
		require.False(t, seen[c], "cell %s chosen twice", c)
		seen[c] = true
	}
	require.Zero(t, b.Remaining())
	_, ok := b.SelectShot(nil)
	require.False(t, ok)

	b.Reset()
	require.Equal(t, 100, b.Remaining())
}

func TestSelectShotIgnoresForbiddenWhenNothingElseLeft(t *testing.T) {
	b := newBot(t, 2)
	opp := sunkFleet(t, model.Cell{X: 5, Y: 5}, 1)
	forbidden := b.ForbiddenCells(opp)
	for _, c := range model.FullPool(10).Cells() {
		if !forbidden.Has(c) {
			b.available.Remove(c)
		}
	}
	require.Equal(t, 9, b.Remaining())

	c, ok := b.SelectShot(opp)
	require.True(t, ok)
	require.True(t, forbidden.Has(c))
}

func TestProcessResultMissKeepsAnchor(t *testing.T) {
	b := newBot(t, 1)
	_, ok := b.LastHit()
	require.False(t, ok)

	b.ProcessResult(model.Cell{X: 2, Y: 3}, true)
	b.ProcessResult(model.Cell{X: 2, Y: 4}, false)
	require.False(t, b.Hunting())
	last, ok := b.LastHit()
	require.True(t, ok)
	require.Equal(t, model.Cell{X: 2, Y: 3}, last)

	b.ProcessResult(model.Cell{X: 7, Y: 7}, true)
	last, _ = b.LastHit()
	require.Equal(t, model.Cell{X: 7, Y: 7}, last, "only the most recent hit is remembered")
}

func TestPlaceFleetProducesLegalFleet(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		b := newBot(t, seed)
		f, err := model.NewFleetFromSpecs("side2", model.NewGrid(10), model.DefaultComposition())
		require.NoError(t, err)
		require.NoError(t, b.PlaceFleet(f))
		require.True(t, f.AllPlaced())
		requireSeparated(t, f)
	}
}

func TestPlaceFleetFailsWhenNothingFits(t *testing.T) {
	b := newBot(t, 1)
	f, err := model.NewFleetFromSpecs("side2", model.NewGrid(3), []model.ShipSpec{{Name: "carrier", Length: 5}})
	require.NoError(t, err)
	require.ErrorIs(t, b.PlaceFleet(f), ErrPlacement)
}

func TestRepositionFleetKeepsSeparation(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		b := newBot(t, seed)
		f, err := model.NewFleetFromSpecs("side2", model.NewGrid(10), model.DefaultComposition())
		require.NoError(t, err)
		require.NoError(t, b.PlaceFleet(f))

		for turn := 0; turn < 5; turn++ {
			f.ResetTurnFlags()
			moved := b.RepositionFleet(f)
			acted := 0
			for _, s := range f.Ships() {
				if s.HasActedThisTurn() {
					acted++
				}
			}
			require.Equal(t, acted, moved)
			requireSeparated(t, f)
		}
	}
}

func TestRepositionFleetSkipsSunkShips(t *testing.T) {
	b := newBot(t, 4)
	f := sunkFleet(t, model.Cell{X: 5, Y: 5}, 2)
	nose := f.Ship(0).Nose()
	for iter := 0; iter < 10; iter++ {
		f.ResetTurnFlags()
		require.Zero(t, b.RepositionFleet(f))
	}
	require.Equal(t, nose, f.Ship(0).Nose())
}

func TestRefillKeepsHuntingMemory(t *testing.T) {
	b := newBot(t, 6)
	for iter := 0; iter < 100; iter++ {
		_, ok := b.SelectShot(nil)
		require.True(t, ok)
	}
	b.ProcessResult(model.Cell{X: 3, Y: 3}, true)
	b.Refill()
	require.Equal(t, 100, b.Remaining())
	require.True(t, b.Hunting())

	c, ok := b.SelectShot(nil)
	require.True(t, ok)
	require.Equal(t, 1, c.Chebyshev(model.Cell{X: 3, Y: 3}))
}
