package ipc

import "github.com/DrekFretson/Final-Battleship/model"

// Message types. Client to server: hello plus the command types in
// commands.go. Server to client: ack, snapshot and event.
const (
	TypeHello    = "hello"
	TypeAck      = "ack"
	TypeSnapshot = "snapshot"
	TypeEvent    = "event"
)

type HelloMessage struct {
	Client string `json:"client"`
	// Viewer fixes whose ships are shown in snapshots. Empty means the
	// human side against a bot, or the active side in hot-seat play.
	Viewer string `json:"viewer,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`
}

// SnapshotMessage is the full visible state of a match.
type SnapshotMessage struct {
	Match  string     `json:"match"`
	Phase  string     `json:"phase"`
	Epoch  uint64     `json:"epoch"`
	Active string     `json:"active"`
	Winner string     `json:"winner,omitempty"`
	Viewer string     `json:"viewer"`
	Size   int        `json:"size"`
	Sides  []SideView `json:"sides"`
}

// SideView is one battlefield: the ships defending it and the shots
// fired at it.
type SideView struct {
	Side          string       `json:"side"`
	Afloat        int          `json:"afloat"`
	Ships         []ShipView   `json:"ships"`
	CurrentShots  []model.Cell `json:"current_shots"`
	PreviousShots []model.Cell `json:"previous_shots"`
}

// ShipView is a ship as the viewer may see it. Hidden ships only carry
// their index and name.
type ShipView struct {
	Index       int          `json:"index"`
	Name        string       `json:"name"`
	Length      int          `json:"length"`
	Hidden      bool         `json:"hidden,omitempty"`
	Nose        *model.Cell  `json:"nose,omitempty"`
	Orientation string       `json:"orientation,omitempty"`
	Cells       []model.Cell `json:"cells,omitempty"`
	Struck      []model.Cell `json:"struck,omitempty"`
	Health      int          `json:"health"`
	MaxHealth   int          `json:"max_health"`
	Placed      bool         `json:"placed"`
	Sunk        bool         `json:"sunk"`
	Damaged     bool         `json:"damaged,omitempty"`
	Acted       bool         `json:"acted,omitempty"`
}
