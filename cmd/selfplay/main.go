package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/DrekFretson/Final-Battleship/agent"
	"github.com/DrekFretson/Final-Battleship/config"
)

// summary aggregates a batch of bot-versus-bot duels.
type summary struct {
	Runs     int        `json:"runs"`
	Stalled  int        `json:"stalled"`
	Wins     [2]int     `json:"wins"`
	WinRate  [2]float64 `json:"win_rate"`
	AvgTurns float64    `json:"avg_turns"`
	AvgShots [2]float64 `json:"avg_shots"`
	Accuracy [2]float64 `json:"accuracy"`
	AvgMoves [2]float64 `json:"avg_moves"`
}

type totals struct {
	runs, stalled int
	wins          [2]int
	turns         int
	shots, hits   [2]int
	moves         [2]int
}

func (t *totals) add(res agent.DuelResult, err error) {
	t.runs++
	if errors.Is(err, agent.ErrStalled) {
		t.stalled++
	} else {
		t.wins[res.Winner]++
	}
	t.turns += res.Turns
	for i := 0; i < 2; i++ {
		t.shots[i] += res.Shots[i]
		t.hits[i] += res.Hits[i]
		t.moves[i] += res.Moves[i]
	}
}

func (t *totals) summary() summary {
	s := summary{Runs: t.runs, Stalled: t.stalled, Wins: t.wins}
	if t.runs == 0 {
		return s
	}
	n := float64(t.runs)
	s.AvgTurns = float64(t.turns) / n
	for i := 0; i < 2; i++ {
		s.WinRate[i] = float64(t.wins[i]) / n
		s.AvgShots[i] = float64(t.shots[i]) / n
		s.AvgMoves[i] = float64(t.moves[i]) / n
		if t.shots[i] > 0 {
			s.Accuracy[i] = float64(t.hits[i]) / float64(t.shots[i])
		}
	}
	return s
}

// runBatch plays n duels of m across workers goroutines. Duel i uses a
// seed derived from seed, the worker and i, so a batch is reproducible
// for a fixed worker count.
func runBatch(m config.Match, n, workers int, seed int64, maxTurns int) (summary, error) {
	if workers <= 0 {
		workers = 1
	}
	var (
		mu       sync.Mutex
		st       totals
		firstErr error
	)
	wg := sync.WaitGroup{}
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				res, err := agent.Duel(m, seed+int64(workerID)*7919+int64(i), maxTurns)

				mu.Lock()
				if err != nil && !errors.Is(err, agent.ErrStalled) {
					if firstErr == nil {
						firstErr = fmt.Errorf("duel %d: %w", i, err)
					}
				} else {
					st.add(res, err)
				}
				mu.Unlock()
			}
		}(w)
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return st.summary(), firstErr
}

func main() {
	var cfgPath, out string
	var seed int64
	var n, workers, maxTurns int
	var debug bool
	flag.StringVar(&cfgPath, "config", "", "match config (YAML); defaults when empty")
	flag.StringVar(&out, "out", "selfplay.json", "summary file")
	flag.Int64Var(&seed, "seed", 12345, "seed")
	flag.IntVar(&n, "n", 100, "number of duels")
	flag.IntVar(&workers, "workers", 8, "parallel workers")
	flag.IntVar(&maxTurns, "max-turns", 0, "turn limit per duel (0 = twenty per cell)")
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	m := config.Default()
	if cfgPath != "" {
		var err error
		if m, err = config.Load(cfgPath); err != nil {
			slog.Error("failed to load config", "path", cfgPath, "error", err)
			os.Exit(1)
		}
	}

	s, err := runBatch(m, n, workers, seed, maxTurns)
	if err != nil {
		slog.Error("batch failed", "error", err)
		os.Exit(1)
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		slog.Error("failed to encode summary", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, b, 0644); err != nil {
		slog.Error("failed to write summary", "path", out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Batch %d done (side1 %.0f%%, side2 %.0f%%, stalled %d) -> %s\n",
		n, 100*s.WinRate[0], 100*s.WinRate[1], s.Stalled, filepath.Base(out))
}
