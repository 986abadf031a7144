package agent

import (
	"github.com/DrekFretson/Final-Battleship/game"
	"github.com/DrekFretson/Final-Battleship/ipc"
	"github.com/DrekFretson/Final-Battleship/model"
)

// viewerLocked is the side whose ships are shown in full.
func (a *Agent) viewerLocked() game.Side {
	switch {
	case a.viewer != nil:
		return *a.viewer
	case a.hasBot:
		return a.botSide.Other()
	default:
		return a.engine.ActiveSide()
	}
}

func (a *Agent) snapshotLocked() ipc.SnapshotMessage {
	e := a.engine
	viewer := a.viewerLocked()
	snap := ipc.SnapshotMessage{
		Match:  e.ID(),
		Phase:  e.Phase().String(),
		Epoch:  e.Epoch(),
		Active: e.ActiveSide().String(),
		Viewer: viewer.String(),
		Size:   e.Grid(game.Side1).Size(),
	}
	if w, ok := e.Winner(); ok {
		snap.Winner = w.String()
	}
	for _, side := range []game.Side{game.Side1, game.Side2} {
		f := e.Fleet(side)
		view := ipc.SideView{
			Side:          side.String(),
			Afloat:        f.Afloat(),
			CurrentShots:  f.Grid().CurrentShots(),
			PreviousShots: f.Grid().PreviousShots(),
		}
		for i, s := range f.Ships() {
			view.Ships = append(view.Ships, shipView(i, s, side == viewer || s.IsRevealed()))
		}
		snap.Sides = append(snap.Sides, view)
	}
	return snap
}

func shipView(i int, s *model.Ship, visible bool) ipc.ShipView {
	v := ipc.ShipView{
		Index:     i,
		Name:      s.Name(),
		Length:    s.Length(),
		Health:    s.Health(),
		MaxHealth: s.MaxHealth(),
		Placed:    s.IsPlaced(),
		Sunk:      s.IsSunk(),
	}
	if !visible {
		v.Hidden = true
		v.Health = 0
		v.Sunk = false
		return v
	}
	nose := s.Nose()
	v.Nose = &nose
	v.Orientation = s.Orientation().String()
	if s.IsPlaced() {
		v.Cells = s.OccupiedCells()
	}
	v.Struck = s.StruckCells()
	v.Damaged = s.IsDamaged()
	v.Acted = s.HasActedThisTurn()
	return v
}
