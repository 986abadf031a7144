package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DrekFretson/Final-Battleship/model"
)

var (
	ErrConfig      = errors.New("invalid match configuration")
	ErrWrongPhase  = errors.New("command not allowed in this phase")
	ErrNotYourTurn = errors.New("not this side's turn")
	ErrOutOfBounds = errors.New("cell outside the grid")
	ErrAlreadyShot = errors.New("cell already fired upon this turn")
	ErrGameOver    = errors.New("match is over")
	ErrNoSuchShip  = errors.New("no such ship")
	ErrBadSide     = errors.New("unknown side")
)

// Engine runs one match. It owns who may act: fleets and grids carry the
// rules, the engine decides which side is allowed to invoke them.
//
// An Engine is not safe for concurrent use; callers serialize commands.
type Engine struct {
	id        string
	log       *slog.Logger
	fleets    [2]*model.Fleet
	phase     Phase
	epoch     uint64
	listeners []Listener
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithListener subscribes fn to every event.
func WithListener(fn Listener) Option {
	return func(e *Engine) {
		if fn != nil {
			e.listeners = append(e.listeners, fn)
		}
	}
}

// WithID overrides the generated match ID.
func WithID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.id = id
		}
	}
}

// NewEngine validates the two fleets and starts the match in Setup(Side1).
func NewEngine(f1, f2 *model.Fleet, opts ...Option) (*Engine, error) {
	if err := checkFleets(f1, f2); err != nil {
		return nil, err
	}
	e := &Engine{
		id:     uuid.NewString(),
		log:    slog.Default(),
		fleets: [2]*model.Fleet{f1, f2},
		phase:  SetupPhase(Side1),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("match", e.id)
	for side, f := range e.fleets {
		for _, s := range f.Ships() {
			s.OnSink(e.sinkHook(Side(side)))
		}
	}
	return e, nil
}

func checkFleets(f1, f2 *model.Fleet) error {
	switch {
	case f1 == nil || f2 == nil:
		return fmt.Errorf("%w: missing fleet", ErrConfig)
	case f1 == f2:
		return fmt.Errorf("%w: both sides share one fleet", ErrConfig)
	case f1.Grid() == nil || f2.Grid() == nil:
		return fmt.Errorf("%w: fleet without grid", ErrConfig)
	case f1.Grid() == f2.Grid():
		return fmt.Errorf("%w: both sides share one grid", ErrConfig)
	case f1.Len() == 0 || f2.Len() == 0:
		return fmt.Errorf("%w: empty fleet", ErrConfig)
	case f1.Grid().Size() != f2.Grid().Size():
		return fmt.Errorf("%w: grid sizes differ (%d vs %d)", ErrConfig, f1.Grid().Size(), f2.Grid().Size())
	}
	for _, s := range f1.Ships() {
		for _, o := range f2.Ships() {
			if s == o {
				return fmt.Errorf("%w: ship %q in both fleets", ErrConfig, s.Name())
			}
		}
	}
	return nil
}

func (e *Engine) sinkHook(owner Side) func(*model.Ship) {
	return func(s *model.Ship) {
		e.log.Info("ship sunk", "side", owner, "ship", s.Name())
		e.emit(Event{Kind: EventShipSunk, Side: owner, Ship: s.Name(), Sunk: s, Cell: s.Nose()})
	}
}

func (e *Engine) ID() string    { return e.id }
func (e *Engine) Phase() Phase  { return e.phase }
func (e *Engine) Epoch() uint64 { return e.epoch }

// Subscribe adds a listener after construction.
func (e *Engine) Subscribe(fn Listener) {
	if fn != nil {
		e.listeners = append(e.listeners, fn)
	}
}

// ActiveSide is the side that owns the current phase or, during a
// transition, the side that will own the next one. At game over it is
// the winner.
func (e *Engine) ActiveSide() Side {
	if e.phase.Kind == Transition {
		return e.phase.NextSide
	}
	return e.phase.Side
}

// Fleet returns the fleet defended by side.
func (e *Engine) Fleet(side Side) *model.Fleet {
	if !side.Valid() {
		return nil
	}
	return e.fleets[side]
}

// Grid returns the battlefield side defends, i.e. the one its opponent
// fires at.
func (e *Engine) Grid(side Side) *model.Grid {
	if !side.Valid() {
		return nil
	}
	return e.fleets[side].Grid()
}

// Winner reports the winning side once the match is over.
func (e *Engine) Winner() (Side, bool) {
	if e.phase.Kind != GameOver {
		return 0, false
	}
	return e.phase.Side, true
}

// CanAct reports whether side may move ships and fire right now.
func (e *Engine) CanAct(side Side) bool {
	return e.phase.Kind == Turn && e.phase.Side == side
}

// PlaceShip places ship i of side's fleet during that side's setup.
// Once the whole fleet is down the match pauses before the next phase.
func (e *Engine) PlaceShip(side Side, i int, nose model.Cell, o model.Orientation) (bool, error) {
	if err := e.gate(side, Setup); err != nil {
		return false, err
	}
	f := e.fleets[side]
	if f.Ship(i) == nil {
		return false, fmt.Errorf("%w: %d", ErrNoSuchShip, i)
	}
	if !f.Place(i, nose, o) {
		e.log.Debug("placement rejected", "side", side, "ship", i, "cell", nose, "orientation", o)
		return false, nil
	}
	e.afterPlacement(side)
	return true, nil
}

// Deploy lets place arrange side's whole fleet in one go, for automatic
// placement. The phase advances if the fleet ends up fully placed.
func (e *Engine) Deploy(side Side, place func(*model.Fleet) error) error {
	if err := e.gate(side, Setup); err != nil {
		return err
	}
	if err := place(e.fleets[side]); err != nil {
		return fmt.Errorf("deploy %s: %w", side, err)
	}
	e.afterPlacement(side)
	return nil
}

func (e *Engine) afterPlacement(side Side) {
	if !e.fleets[side].AllPlaced() {
		return
	}
	e.log.Info("fleet deployed", "side", side)
	if side == Side1 {
		e.setPhase(TransitionTo(SetupPhase(Side2)))
		return
	}
	e.setPhase(TransitionTo(TurnPhase(Side1)))
}

// Continue leaves a Transition for the phase it holds.
func (e *Engine) Continue() error {
	switch e.phase.Kind {
	case GameOver:
		return ErrGameOver
	case Transition:
	default:
		return fmt.Errorf("%w: %s", ErrWrongPhase, e.phase)
	}
	next := e.phase.Target()
	if next.Kind == Turn {
		e.fleets[next.Side].ResetTurnFlags()
	}
	e.setPhase(next)
	if next.Kind == Turn {
		e.emit(Event{Kind: EventTurnChanged, Side: next.Side})
	}
	return nil
}

// Maneuver moves or turns one of side's ships. A false result means the
// ship may not act or the new pose is illegal; nothing changed.
func (e *Engine) Maneuver(side Side, i int, m model.Maneuver) (bool, error) {
	if err := e.gate(side, Turn); err != nil {
		return false, err
	}
	f := e.fleets[side]
	if f.Ship(i) == nil {
		return false, fmt.Errorf("%w: %d", ErrNoSuchShip, i)
	}
	ok := f.Maneuver(i, m)
	e.log.Debug("maneuver", "side", side, "ship", i, "action", m, "ok", ok)
	return ok, nil
}

// Fire shoots side's opponent at c, resolves hits and sinks, and then
// settles the turn through ProcessShot.
func (e *Engine) Fire(side Side, c model.Cell) (Shot, error) {
	if err := e.gate(side, Turn); err != nil {
		return Shot{}, err
	}
	defender := e.fleets[side.Other()]
	g := defender.Grid()
	if !g.InBounds(c) {
		return Shot{}, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if g.WasShotThisTurn(c) {
		return Shot{}, fmt.Errorf("%w: %s", ErrAlreadyShot, c)
	}

	g.AddShot(c)
	hit, sunk := defender.TakeHit(c)
	shot := Shot{Cell: c, Hit: hit}
	if sunk != nil {
		shot.Sunk = sunk.Name()
	}
	e.log.Debug("shot", "side", side, "cell", c, "hit", hit)
	e.emit(Event{Kind: EventShotResolved, Side: side, Cell: c, Hit: hit, Ship: shot.Sunk})

	if err := e.ProcessShot(hit); err != nil {
		return shot, err
	}
	shot.GameOver = e.phase.Kind == GameOver
	return shot, nil
}

// ProcessShot settles the active turn after a shot: the match ends when
// a fleet is gone, a hit keeps the turn, a miss hands it over.
func (e *Engine) ProcessShot(hit bool) error {
	if e.phase.Kind == GameOver {
		return ErrGameOver
	}
	if e.phase.Kind != Turn {
		return fmt.Errorf("%w: %s", ErrWrongPhase, e.phase)
	}
	if e.checkGameOver() || hit {
		return nil
	}
	e.switchSides()
	return nil
}

// EndTurn passes the rest of side's turn to the opponent.
func (e *Engine) EndTurn(side Side) error {
	if err := e.gate(side, Turn); err != nil {
		return err
	}
	if e.checkGameOver() {
		return nil
	}
	e.switchSides()
	return nil
}

func (e *Engine) switchSides() {
	attacker := e.phase.Side
	e.fleets[attacker.Other()].Grid().NextTurn()
	e.setPhase(TransitionTo(TurnPhase(attacker.Other())))
}

func (e *Engine) checkGameOver() bool {
	var winner Side
	switch {
	case e.fleets[Side1].AllSunk():
		winner = Side2
	case e.fleets[Side2].AllSunk():
		winner = Side1
	default:
		return false
	}
	for _, f := range e.fleets {
		f.RevealAll()
	}
	e.setPhase(GameOverPhase(winner))
	e.log.Info("game over", "winner", winner)
	e.emit(Event{Kind: EventGameOver, Side: winner})
	return true
}

// gate checks that side is valid and owns a phase of the given kind.
func (e *Engine) gate(side Side, kind PhaseKind) error {
	if !side.Valid() {
		return fmt.Errorf("%w: %d", ErrBadSide, int(side))
	}
	if e.phase.Kind == GameOver {
		return ErrGameOver
	}
	if e.phase.Kind != kind {
		return fmt.Errorf("%w: %s", ErrWrongPhase, e.phase)
	}
	if e.phase.Side != side {
		return fmt.Errorf("%w: %s during %s", ErrNotYourTurn, side, e.phase)
	}
	return nil
}

func (e *Engine) setPhase(p Phase) {
	prev := e.phase
	e.phase = p
	e.epoch++
	e.log.Info("phase changed", "from", prev, "to", p, "epoch", e.epoch)
	e.emit(Event{Kind: EventPhaseChanged, Side: e.ActiveSide()})
}

func (e *Engine) emit(ev Event) {
	ev.Epoch = e.epoch
	ev.Phase = e.phase
	for _, fn := range e.listeners {
		fn(ev)
	}
}
