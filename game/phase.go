package game

import (
	"fmt"
	"strings"
)

// Side identifies one of the two players.
type Side int

const (
	Side1 Side = iota
	Side2
)

func (s Side) Other() Side { return 1 - s }

func (s Side) Valid() bool { return s == Side1 || s == Side2 }

func (s Side) String() string {
	switch s {
	case Side1:
		return "side1"
	case Side2:
		return "side2"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "side1", "1", "p1":
		return Side1, nil
	case "side2", "2", "p2":
		return Side2, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

type PhaseKind int

const (
	Setup PhaseKind = iota
	Turn
	Transition
	GameOver
)

var phaseNames = [...]string{"setup", "turn", "transition", "game_over"}

func (k PhaseKind) String() string {
	if k >= 0 && int(k) < len(phaseNames) {
		return phaseNames[k]
	}
	return fmt.Sprintf("phase(%d)", int(k))
}

// Phase is the match state. A Transition holds the phase it leads to in
// Next/NextSide; GameOver holds the winner in Side.
type Phase struct {
	Kind     PhaseKind
	Side     Side
	Next     PhaseKind
	NextSide Side
}

func SetupPhase(s Side) Phase    { return Phase{Kind: Setup, Side: s} }
func TurnPhase(s Side) Phase     { return Phase{Kind: Turn, Side: s} }
func GameOverPhase(w Side) Phase { return Phase{Kind: GameOver, Side: w} }

// TransitionTo wraps the phase that follows a pause.
func TransitionTo(next Phase) Phase {
	return Phase{Kind: Transition, Next: next.Kind, NextSide: next.Side}
}

// Target returns the phase a Transition leads to, or p itself.
func (p Phase) Target() Phase {
	if p.Kind != Transition {
		return p
	}
	return Phase{Kind: p.Next, Side: p.NextSide}
}

func (p Phase) String() string {
	if p.Kind == Transition {
		return fmt.Sprintf("transition(%s)", p.Target())
	}
	return fmt.Sprintf("%s(%s)", p.Kind, p.Side)
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
