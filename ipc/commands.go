package ipc

// Command types sent by the presentation client. Cells are already
// resolved by the client; sides are "side1" or "side2".
const (
	TypePlace    = "place"
	TypeManeuver = "maneuver"
	TypeFire     = "fire"
	TypeEndTurn  = "end_turn"
	TypeContinue = "continue"
)

type PlaceCommand struct {
	Side        string `json:"side"`
	Ship        int    `json:"ship"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
}

type ManeuverCommand struct {
	Side   string `json:"side"`
	Ship   int    `json:"ship"`
	Action string `json:"action"`
}

type FireCommand struct {
	Side string `json:"side"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type EndTurnCommand struct {
	Side string `json:"side"`
}
