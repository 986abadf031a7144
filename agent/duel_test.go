package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DrekFretson/Final-Battleship/config"
)

func TestDuelFinishesWithWinner(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		res, err := Duel(config.Default(), seed, 0)
		require.NoError(t, err, "seed %d", seed)
		require.True(t, res.Winner.Valid())
		require.NotEmpty(t, res.Match)

		total := 0
		for _, s := range config.Default().Fleet {
			total += s.Length
		}
		require.Equal(t, 5, res.Sunk[res.Winner], "winner sank the whole fleet")
		require.GreaterOrEqual(t, res.Hits[res.Winner], total)
		require.Positive(t, res.Turns)
	}
}

func TestDuelIsDeterministicPerSeed(t *testing.T) {
	a, err := Duel(config.Default(), 77, 0)
	require.NoError(t, err)
	b, err := Duel(config.Default(), 77, 0)
	require.NoError(t, err)
	a.Match, b.Match = "", ""
	require.Equal(t, a, b)
}

func TestDuelStallsAtTurnLimit(t *testing.T) {
	res, err := Duel(config.Default(), 3, 1)
	require.ErrorIs(t, err, ErrStalled)
	require.Equal(t, 2, res.Turns, "one turn played, the second only entered")
}
