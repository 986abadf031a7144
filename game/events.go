package game

import "github.com/DrekFretson/Final-Battleship/model"

// EventKind identifies something a presentation layer may want to show.
type EventKind string

const (
	EventPhaseChanged EventKind = "phase_changed"
	EventTurnChanged  EventKind = "turn_changed"
	EventShotResolved EventKind = "shot_resolved"
	EventShipSunk     EventKind = "ship_sunk"
	EventGameOver     EventKind = "game_over"
)

// Event is delivered synchronously to every listener, in the order the
// engine produced it. Side is the side the event is about: the new
// active side for turn changes, the firing side for shots, the owner
// of a sunk ship and the winner at game over.
type Event struct {
	Kind  EventKind  `json:"kind"`
	Epoch uint64     `json:"epoch"`
	Side  Side       `json:"side"`
	Phase Phase      `json:"phase"`
	Cell  model.Cell `json:"cell"`
	Hit   bool       `json:"hit,omitempty"`
	Ship  string     `json:"ship,omitempty"`

	// Sunk is the ship for EventShipSunk.
	Sunk *model.Ship `json:"-"`
}

// Listener receives engine events. It must not block.
type Listener func(Event)

// Shot is the outcome of a Fire command.
type Shot struct {
	Cell     model.Cell `json:"cell"`
	Hit      bool       `json:"hit"`
	Sunk     string     `json:"sunk,omitempty"`
	GameOver bool       `json:"game_over,omitempty"`
}
