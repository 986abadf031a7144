package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestFleet(t *testing.T, lengths ...int) *Fleet {
	t.Helper()
	specs := make([]ShipSpec, len(lengths))
	for i, l := range lengths {
		specs[i] = ShipSpec{Name: "ship", Length: l}
	}
	f, err := NewFleetFromSpecs("side1", NewGrid(10), specs)
	require.NoError(t, err)
	return f
}

func TestNewShipRejectsBadLength(t *testing.T) {
	_, err := NewShip("raft", 0)
	require.Error(t, err)
	_, err = NewShip("monster", 6)
	require.Error(t, err)

	s, err := NewShip("cruiser", 3)
	require.NoError(t, err)
	require.Equal(t, 3, s.Health())
	require.False(t, s.IsPlaced())
}

func TestOccupiedCellsPerOrientation(t *testing.T) {
	s, _ := NewShip("cruiser", 3)
	nose := Cell{X: 5, Y: 5}
	tests := []struct {
		o    Orientation
		want []Cell
	}{
		{West, []Cell{{5, 5}, {4, 5}, {3, 5}}},
		{South, []Cell{{5, 5}, {5, 4}, {5, 3}}},
		{East, []Cell{{5, 5}, {6, 5}, {7, 5}}},
		{North, []Cell{{5, 5}, {5, 6}, {5, 7}}},
	}
	for _, tc := range tests {
		require.True(t, s.SetPose(nose, tc.o))
		got := s.OccupiedCells()
		require.Len(t, got, s.Length())
		require.Equal(t, tc.want, got, "orientation %s", tc.o)
		require.Equal(t, got, s.OccupiedCells(), "deterministic")
	}
}

func TestCanPlaceAtRejectsAdjacentShip(t *testing.T) {
	f := newTestFleet(t, 3, 2)
	require.True(t, f.Place(0, Cell{X: 5, Y: 5}, East))

	second := f.Ship(1)
	require.False(t, second.CanPlaceAt(Cell{X: 6, Y: 6}, East, f.Others(second)))
	// diagonal corner contact counts as adjacent
	require.False(t, second.CanPlaceAt(Cell{X: 8, Y: 6}, East, f.Others(second)))
	// overlap
	require.False(t, second.CanPlaceAt(Cell{X: 6, Y: 5}, North, f.Others(second)))
	// two rows away is fine
	require.True(t, second.CanPlaceAt(Cell{X: 6, Y: 7}, East, f.Others(second)))
	require.False(t, second.IsPlaced(), "CanPlaceAt must not commit")
}

func TestCanPlaceAtRejectsOutOfBounds(t *testing.T) {
	f := newTestFleet(t, 3)
	s := f.Ship(0)
	require.False(t, s.CanPlaceAt(Cell{X: 8, Y: 0}, East, nil))
	require.False(t, s.CanPlaceAt(Cell{X: 1, Y: 0}, West, nil))
	require.False(t, s.CanPlaceAt(Cell{X: 0, Y: 1}, South, nil))
	require.True(t, s.CanPlaceAt(Cell{X: 7, Y: 0}, East, nil))
	require.True(t, s.CanPlaceAt(Cell{X: 0, Y: 2}, South, nil))
}

func TestCanPlaceAtIgnoresOtherOwners(t *testing.T) {
	mine := newTestFleet(t, 3)
	theirs, err := NewFleetFromSpecs("side2", NewGrid(10), []ShipSpec{{Name: "x", Length: 3}})
	require.NoError(t, err)
	require.True(t, theirs.Place(0, Cell{X: 5, Y: 5}, East))

	s := mine.Ship(0)
	require.True(t, s.CanPlaceAt(Cell{X: 5, Y: 5}, East, theirs.Ships()))
}

func TestCanPlaceAtLeavesPoseUntouched(t *testing.T) {
	f := newTestFleet(t, 2)
	s := f.Ship(0)
	s.SetPose(Cell{X: 1, Y: 1}, North)
	s.CanPlaceAt(Cell{X: 7, Y: 7}, West, nil)
	require.Equal(t, Cell{X: 1, Y: 1}, s.Nose())
	require.Equal(t, North, s.Orientation())
}

func TestPlaceShipCommitsProposedPose(t *testing.T) {
	f := newTestFleet(t, 2)
	s := f.Ship(0)
	require.True(t, s.SetPose(Cell{X: 9, Y: 9}, East))
	require.False(t, s.PlaceShip(nil))
	require.False(t, s.IsPlaced())

	require.True(t, s.SetPose(Cell{X: 8, Y: 9}, East))
	require.True(t, s.PlaceShip(nil))
	require.True(t, s.IsPlaced())
	require.False(t, s.SetPose(Cell{X: 0, Y: 0}, East), "placed ships ignore the cursor")
	require.False(t, s.PlaceShip(nil))
}

func TestClampNoseKeepsBodyOnGrid(t *testing.T) {
	f := newTestFleet(t, 4)
	s := f.Ship(0)
	tests := []struct {
		o    Orientation
		in   Cell
		want Cell
	}{
		{West, Cell{0, 5}, Cell{3, 5}},
		{South, Cell{5, 0}, Cell{5, 3}},
		{East, Cell{9, 5}, Cell{6, 5}},
		{North, Cell{5, 12}, Cell{5, 6}},
		{East, Cell{-3, -3}, Cell{0, 0}},
	}
	for _, tc := range tests {
		s.SetPose(Cell{}, tc.o)
		if got := s.ClampNose(tc.in); got != tc.want {
			t.Errorf("ClampNose(%v) facing %s = %v, want %v", tc.in, tc.o, got, tc.want)
		}
	}
}

func TestInvalidCellsReportsCrowdedCells(t *testing.T) {
	f := newTestFleet(t, 1, 3)
	require.True(t, f.Place(0, Cell{X: 5, Y: 5}, East))
	s := f.Ship(1)
	s.SetPose(Cell{X: 4, Y: 7}, South)
	// body (4,7),(4,6),(4,5): the last two touch (5,5)
	require.Equal(t, []Cell{{4, 6}, {4, 5}}, s.InvalidCells(f.Others(s)))

	s.SetPose(Cell{X: 8, Y: 0}, East)
	require.Equal(t, []Cell{{10, 0}}, s.InvalidCells(f.Others(s)))
}

func TestCycleOrientationOnlyBeforePlacement(t *testing.T) {
	f := newTestFleet(t, 2)
	s := f.Ship(0)
	s.SetPose(Cell{X: 4, Y: 4}, North)
	require.True(t, s.CycleOrientation())
	require.Equal(t, West, s.Orientation())
	require.True(t, s.PlaceShip(nil))
	require.False(t, s.CycleOrientation())
}

func TestMoveForwardAndBackward(t *testing.T) {
	f := newTestFleet(t, 3)
	require.True(t, f.Place(0, Cell{X: 2, Y: 2}, East))
	s := f.Ship(0)

	require.True(t, s.MoveForward(nil))
	require.Equal(t, Cell{X: 3, Y: 2}, s.Nose())
	require.True(t, s.HasActedThisTurn())
	require.True(t, s.HasMoved())

	require.False(t, s.MoveBackward(nil), "one action per turn")
	require.Equal(t, Cell{X: 3, Y: 2}, s.Nose())

	s.ResetTurn()
	require.True(t, s.MoveBackward(nil))
	require.Equal(t, Cell{X: 2, Y: 2}, s.Nose())
}

func TestMoveRevertsWhenIllegal(t *testing.T) {
	f := newTestFleet(t, 3)
	require.True(t, f.Place(0, Cell{X: 7, Y: 0}, East))
	s := f.Ship(0)
	require.False(t, s.MoveForward(nil))
	require.Equal(t, Cell{X: 7, Y: 0}, s.Nose())
	require.False(t, s.HasActedThisTurn())
}

func TestMoveRejectedForUnplacedOrSunk(t *testing.T) {
	f := newTestFleet(t, 1)
	s := f.Ship(0)
	s.SetPose(Cell{X: 4, Y: 4}, East)
	require.False(t, s.MoveForward(nil))

	require.True(t, s.PlaceShip(nil))
	s.TakeDamage(Cell{X: 4, Y: 4})
	require.True(t, s.IsSunk())
	require.False(t, s.MoveForward(nil))
	require.False(t, s.RotateLeft(nil))
}

func TestRotateKeepsOneEndAnchored(t *testing.T) {
	f := newTestFleet(t, 3)
	require.True(t, f.Place(0, Cell{X: 5, Y: 5}, East))
	s := f.Ship(0)

	require.True(t, s.RotateLeft(nil))
	require.Equal(t, North, s.Orientation())
	require.Equal(t, []Cell{{5, 3}, {5, 4}, {5, 5}}, s.OccupiedCells())

	// turning right from North pivots on the nose end
	s.ResetTurn()
	require.True(t, s.RotateRight(nil))
	require.Equal(t, East, s.Orientation())
	require.Equal(t, []Cell{{3, 3}, {4, 3}, {5, 3}}, s.OccupiedCells())

	g := newTestFleet(t, 3)
	require.True(t, g.Place(0, Cell{X: 5, Y: 5}, East))
	r := g.Ship(0)
	require.True(t, r.RotateRight(nil))
	require.Equal(t, South, r.Orientation())
	require.Equal(t, []Cell{{5, 7}, {5, 6}, {5, 5}}, r.OccupiedCells())
}

func TestRotateRevertsAtomically(t *testing.T) {
	f := newTestFleet(t, 4, 1)
	require.True(t, f.Place(0, Cell{X: 0, Y: 0}, East))
	s := f.Ship(0)

	// rotating left from East would need the nose at y=-3
	require.False(t, s.RotateLeft(f.Others(s)))
	require.Equal(t, Cell{X: 0, Y: 0}, s.Nose())
	require.Equal(t, East, s.Orientation())
	require.False(t, s.HasActedThisTurn())

	require.True(t, f.Place(1, Cell{X: 0, Y: 4}, East))
	// rotating right from East lands the body on (0,3)..(0,0), touching (0,4)
	require.False(t, s.RotateRight(f.Others(s)))
	require.Equal(t, East, s.Orientation())
}

func TestTakeDamageSinksSingleCellShipOnce(t *testing.T) {
	f := newTestFleet(t, 1)
	require.True(t, f.Place(0, Cell{X: 3, Y: 3}, North))
	s := f.Ship(0)

	sinks := 0
	s.OnSink(func(*Ship) { sinks++ })

	require.True(t, s.TakeDamage(Cell{X: 3, Y: 3}))
	require.True(t, s.IsSunk())
	require.Equal(t, 0, s.Health())
	require.False(t, s.TakeDamage(Cell{X: 3, Y: 3}))
	require.Equal(t, 1, sinks)
}

func TestTakeDamageCountsRepeatedCell(t *testing.T) {
	f := newTestFleet(t, 3)
	require.True(t, f.Place(0, Cell{X: 3, Y: 3}, East))
	s := f.Ship(0)
	c := Cell{X: 4, Y: 3}

	require.False(t, s.TakeDamage(c))
	require.Equal(t, 2, s.Health())
	require.False(t, s.TakeDamage(c))
	require.Equal(t, 1, s.Health())
	require.True(t, s.IsDamaged())
	require.Equal(t, []Cell{c}, s.StruckCells())
}

func TestResetBattleState(t *testing.T) {
	f := newTestFleet(t, 2)
	require.True(t, f.Place(0, Cell{X: 3, Y: 3}, East))
	s := f.Ship(0)
	s.TakeDamage(Cell{X: 3, Y: 3})
	s.TakeDamage(Cell{X: 4, Y: 3})
	s.Reveal()
	s.ResetBattleState()
	require.False(t, s.IsSunk())
	require.False(t, s.IsRevealed())
	require.Equal(t, 2, s.Health())
	require.Empty(t, s.StruckCells())
	require.True(t, s.IsPlaced())
}

func TestRandomPlacementsKeepSeparation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		f := newTestFleet(t, 5, 4, 3, 2, 1)
		for i := range f.Ships() {
			for attempt := 0; attempt < 200 && !f.Ship(i).IsPlaced(); attempt++ {
				f.Place(i, Cell{X: rng.Intn(10), Y: rng.Intn(10)}, Orientation(rng.Intn(4)))
			}
		}
		// shuffle the fleet around a few turns as well
		for turn := 0; turn < 5; turn++ {
			f.ResetTurnFlags()
			for i := range f.Ships() {
				f.Maneuver(i, Maneuver(rng.Intn(4)))
			}
		}
		assertSeparated(t, f)
	}
}

func assertSeparated(t *testing.T, f *Fleet) {
	t.Helper()
	ships := f.Ships()
	for i, a := range ships {
		if !a.IsPlaced() {
			continue
		}
		for _, c := range a.OccupiedCells() {
			require.True(t, c.InBounds(f.Grid().Size()))
		}
		for j, b := range ships {
			if i == j || !b.IsPlaced() {
				continue
			}
			for _, ca := range a.OccupiedCells() {
				for _, cb := range b.OccupiedCells() {
					require.Greater(t, ca.Chebyshev(cb), 1, "ships %d and %d touch at %v/%v", i, j, ca, cb)
				}
			}
		}
	}
}
