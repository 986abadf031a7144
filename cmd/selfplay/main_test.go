package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DrekFretson/Final-Battleship/agent"
	"github.com/DrekFretson/Final-Battleship/config"
)

func TestRunBatchAccountsForEveryDuel(t *testing.T) {
	s, err := runBatch(config.Default(), 12, 4, 99, 0)
	require.NoError(t, err)
	require.Equal(t, 12, s.Runs)
	require.Equal(t, 12, s.Wins[0]+s.Wins[1]+s.Stalled)
	require.InDelta(t, 1.0, s.WinRate[0]+s.WinRate[1]+float64(s.Stalled)/12, 1e-9)
	for i := 0; i < 2; i++ {
		require.GreaterOrEqual(t, s.Accuracy[i], 0.0)
		require.LessOrEqual(t, s.Accuracy[i], 1.0)
	}
	require.Positive(t, s.AvgTurns)
}

func TestRunBatchCountsStalls(t *testing.T) {
	s, err := runBatch(config.Default(), 3, 2, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 3, s.Stalled)
	require.Zero(t, s.Wins[0]+s.Wins[1])
}

func TestRunBatchReportsBrokenConfig(t *testing.T) {
	m := config.Default()
	m.GridSize = 3
	_, err := runBatch(m, 2, 1, 1, 0)
	require.Error(t, err)
}

func TestTotalsEmpty(t *testing.T) {
	var st totals
	require.Equal(t, summary{}, st.summary())
	st.add(agent.DuelResult{Winner: 1, Turns: 4, Shots: [2]int{2, 0}, Hits: [2]int{1, 0}}, nil)
	s := st.summary()
	require.Equal(t, 1.0, s.WinRate[1])
	require.Equal(t, 0.5, s.Accuracy[0])
}
