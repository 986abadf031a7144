package agent

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/DrekFretson/Final-Battleship/config"
	"github.com/DrekFretson/Final-Battleship/game"
)

// ErrStalled is returned when a duel hits its turn limit without a winner.
var ErrStalled = errors.New("duel stalled")

// DuelResult summarizes a bot-versus-bot match.
type DuelResult struct {
	Match  string    `json:"match"`
	Winner game.Side `json:"winner"`
	Turns  int       `json:"turns"`
	Shots  [2]int    `json:"shots"`
	Hits   [2]int    `json:"hits"`
	Sunk   [2]int    `json:"sunk"`
	Moves  [2]int    `json:"moves"`
}

// Duel plays m to completion with a bot on each side and no pacing.
// maxTurns bounds the number of turns played; zero means twenty per cell.
func Duel(m config.Match, seed int64, maxTurns int) (DuelResult, error) {
	if maxTurns <= 0 {
		maxTurns = 20 * m.GridSize * m.GridSize
	}
	f1, f2, err := m.BuildFleets()
	if err != nil {
		return DuelResult{}, err
	}

	var res DuelResult
	e, err := game.NewEngine(f1, f2, game.WithListener(func(ev game.Event) {
		switch ev.Kind {
		case game.EventTurnChanged:
			res.Turns++
		case game.EventShipSunk:
			res.Sunk[ev.Side.Other()]++
		}
	}))
	if err != nil {
		return DuelResult{}, err
	}
	res.Match = e.ID()

	rng := NewRand(seed)
	var bots [2]*Bot
	for side := range bots {
		if bots[side], err = NewBot(m.GridSize, rng); err != nil {
			return DuelResult{}, err
		}
	}

	for turns := 0; ; {
		phase := e.Phase()
		switch phase.Kind {
		case game.GameOver:
			res.Winner = phase.Side
			slog.Debug("duel finished", "match", res.Match, "winner", res.Winner, "turns", res.Turns)
			return res, nil
		case game.Transition:
			err = e.Continue()
		case game.Setup:
			err = e.Deploy(phase.Side, bots[phase.Side].PlaceFleet)
		case game.Turn:
			if turns >= maxTurns {
				return res, fmt.Errorf("%w after %d turns", ErrStalled, turns)
			}
			turns++
			err = duelTurn(e, bots[phase.Side], phase.Side, &res)
		}
		if err != nil {
			return res, err
		}
	}
}

// duelTurn repositions the attacker's fleet and fires until the turn
// passes or the match ends.
func duelTurn(e *game.Engine, b *Bot, side game.Side, res *DuelResult) error {
	res.Moves[side] += b.RepositionFleet(e.Fleet(side))
	opponent := e.Fleet(side.Other())
	for e.CanAct(side) {
		c, ok := b.SelectShot(opponent)
		if !ok {
			b.Refill()
			continue
		}
		shot, err := e.Fire(side, c)
		if errors.Is(err, game.ErrAlreadyShot) {
			continue
		}
		if err != nil {
			return err
		}
		b.ProcessResult(c, shot.Hit)
		res.Shots[side]++
		if shot.Hit {
			res.Hits[side]++
		}
	}
	return nil
}
