package agent

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DrekFretson/Final-Battleship/config"
	"github.com/DrekFretson/Final-Battleship/game"
	"github.com/DrekFretson/Final-Battleship/ipc"
	"github.com/DrekFretson/Final-Battleship/model"
)

var ErrBotControlled = errors.New("side is played by the computer")

// Sender pushes a message to the presentation client.
type Sender interface {
	Send(msgType string, data any) error
}

// Agent drives one match for a single presentation client: it applies
// client commands to the engine, pushes engine events back, and plays
// the computer side on a timer.
type Agent struct {
	mu      sync.Mutex
	conn    Sender
	match   config.Match
	engine  *game.Engine
	bot     *Bot
	botSide game.Side
	hasBot  bool

	Client string
	viewer *game.Side

	timer        *time.Timer
	repositioned uint64 // epoch of the last bot turn that moved ships
	closed       bool
}

// New builds the fleets and engine for m. Scheduling starts right away,
// so a computer side that places first does so without waiting for the
// client.
func New(conn Sender, m config.Match) (*Agent, error) {
	f1, f2, err := m.BuildFleets()
	if err != nil {
		return nil, fmt.Errorf("build fleets: %w", err)
	}
	a := &Agent{conn: conn, match: m}
	a.engine, err = game.NewEngine(f1, f2, game.WithListener(a.push))
	if err != nil {
		return nil, err
	}
	if side, ok := m.Bot(); ok {
		a.bot, err = NewBot(m.GridSize, NewRand(m.RandSeed()))
		if err != nil {
			return nil, err
		}
		a.botSide, a.hasBot = side, true
	}
	slog.Info("match created", "match", a.engine.ID(), "mode", m.Mode, "grid", m.GridSize, "ships", len(m.Fleet))

	a.mu.Lock()
	a.scheduleLocked()
	a.mu.Unlock()
	return a, nil
}

// Phase returns the current match phase.
func (a *Agent) Phase() game.Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Phase()
}

// Inspect runs fn with the engine while no command or bot step can run.
func (a *Agent) Inspect(fn func(*game.Engine)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.engine)
}

// Close cancels any pending bot step.
func (a *Agent) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
}

func (a *Agent) push(ev game.Event) {
	if a.conn == nil {
		return
	}
	if err := a.conn.Send(ipc.TypeEvent, ev); err != nil {
		slog.Error("failed to push event", "kind", ev.Kind, "error", err)
	}
}

// scheduleLocked arms the timer for whatever the computer has to do in
// the current phase. The callback carries the engine epoch and is
// dropped if the phase has moved on by the time it runs.
func (a *Agent) scheduleLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.closed {
		return
	}
	phase := a.engine.Phase()
	var (
		delay time.Duration
		step  func()
	)
	switch phase.Kind {
	case game.Transition:
		// Hot-seat play waits for the client so the screen can be handed
		// over; against the computer there is nothing to hide.
		if !a.hasBot {
			return
		}
		delay, step = a.match.Pacing.TransitionDelay, a.continueLocked
	case game.Setup:
		if !a.isBot(phase.Side) {
			return
		}
		delay, step = a.match.Pacing.BotDelay, a.botSetupLocked
	case game.Turn:
		if !a.isBot(phase.Side) {
			return
		}
		delay, step = a.match.Pacing.BotDelay, a.botTurnLocked
	default:
		return
	}

	epoch := a.engine.Epoch()
	a.timer = time.AfterFunc(delay, func() { a.runStep(epoch, step) })
}

// runStep executes a scheduled step unless the phase it was planned for
// is gone.
func (a *Agent) runStep(epoch uint64, step func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.engine.Epoch() != epoch {
		slog.Debug("stale callback dropped", "epoch", epoch, "now", a.engine.Epoch())
		return
	}
	step()
	a.scheduleLocked()
}

func (a *Agent) isBot(side game.Side) bool { return a.hasBot && side == a.botSide }

func (a *Agent) continueLocked() {
	if err := a.engine.Continue(); err != nil {
		slog.Warn("auto continue failed", "error", err)
	}
}

func (a *Agent) botSetupLocked() {
	if err := a.engine.Deploy(a.botSide, a.bot.PlaceFleet); err != nil {
		slog.Error("bot placement failed", "side", a.botSide, "error", err)
	}
}

// botTurnLocked takes one shot. The fleet is repositioned once, before
// the first shot of each turn.
func (a *Agent) botTurnLocked() {
	if a.repositioned != a.engine.Epoch() {
		a.repositioned = a.engine.Epoch()
		moved := a.bot.RepositionFleet(a.engine.Fleet(a.botSide))
		slog.Debug("bot repositioned", "side", a.botSide, "moved", moved)
	}

	opponent := a.engine.Fleet(a.botSide.Other())
	c, ok := a.bot.SelectShot(opponent)
	if !ok {
		a.bot.Refill()
		c, ok = a.bot.SelectShot(opponent)
	}
	if !ok {
		if err := a.engine.EndTurn(a.botSide); err != nil {
			slog.Warn("bot end turn failed", "error", err)
		}
		return
	}
	shot, err := a.engine.Fire(a.botSide, c)
	if errors.Is(err, game.ErrAlreadyShot) {
		return
	}
	if err != nil {
		slog.Warn("bot shot rejected", "cell", c, "error", err)
		if err := a.engine.EndTurn(a.botSide); err != nil {
			slog.Warn("bot end turn failed", "error", err)
		}
		return
	}
	a.bot.ProcessResult(c, shot.Hit)
}

// command runs fn under the lock for a side the client may control and
// reschedules afterwards.
func (a *Agent) command(sideName string, fn func(game.Side) (any, error)) (*ipc.Envelope, error) {
	side, err := game.ParseSide(sideName)
	if err != nil {
		return ack(nil, err)
	}
	if a.isBot(side) {
		return ack(nil, fmt.Errorf("%w: %s", ErrBotControlled, side))
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	result, err := fn(side)
	if err != nil {
		slog.Warn("command rejected", "side", side, "phase", a.engine.Phase(), "error", err)
	}
	a.scheduleLocked()
	return ack(result, err)
}

func ack(result any, err error) (*ipc.Envelope, error) {
	msg := ipc.AckMessage{Status: "ok", Result: result}
	if err != nil {
		msg.Status = "error"
		msg.Error = err.Error()
	}
	env, err := ipc.NewEnvelope(ipc.TypeAck, msg)
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// HandleHello completes the handshake and replies with a snapshot.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.Client = hello.Client
	a.viewer = nil
	if hello.Viewer != "" {
		side, err := game.ParseSide(hello.Viewer)
		if err != nil {
			return ack(nil, err)
		}
		a.viewer = &side
	}
	slog.Info("client identified", "client", a.Client, "viewer", hello.Viewer)

	snap, err := ipc.NewEnvelope(ipc.TypeSnapshot, a.snapshotLocked())
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// HandleSnapshot replies with the current visible state.
func (a *Agent) HandleSnapshot(ipc.Envelope) (*ipc.Envelope, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	snap, err := ipc.NewEnvelope(ipc.TypeSnapshot, a.snapshotLocked())
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (a *Agent) HandlePlace(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.PlaceCommand
	if err := env.Decode(&cmd); err != nil {
		return ack(nil, err)
	}
	o, err := model.ParseOrientation(cmd.Orientation)
	if err != nil {
		return ack(nil, err)
	}
	return a.command(cmd.Side, func(side game.Side) (any, error) {
		return a.engine.PlaceShip(side, cmd.Ship, model.Cell{X: cmd.X, Y: cmd.Y}, o)
	})
}

func (a *Agent) HandleManeuver(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.ManeuverCommand
	if err := env.Decode(&cmd); err != nil {
		return ack(nil, err)
	}
	m, err := model.ParseManeuver(cmd.Action)
	if err != nil {
		return ack(nil, err)
	}
	return a.command(cmd.Side, func(side game.Side) (any, error) {
		return a.engine.Maneuver(side, cmd.Ship, m)
	})
}

func (a *Agent) HandleFire(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.FireCommand
	if err := env.Decode(&cmd); err != nil {
		return ack(nil, err)
	}
	return a.command(cmd.Side, func(side game.Side) (any, error) {
		shot, err := a.engine.Fire(side, model.Cell{X: cmd.X, Y: cmd.Y})
		if err != nil {
			return nil, err
		}
		return shot, nil
	})
}

func (a *Agent) HandleEndTurn(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.EndTurnCommand
	if err := env.Decode(&cmd); err != nil {
		return ack(nil, err)
	}
	return a.command(cmd.Side, func(side game.Side) (any, error) {
		return nil, a.engine.EndTurn(side)
	})
}

// HandleContinue leaves a transition. It is not tied to a side.
func (a *Agent) HandleContinue(ipc.Envelope) (*ipc.Envelope, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.engine.Continue()
	if err != nil {
		slog.Warn("continue rejected", "phase", a.engine.Phase(), "error", err)
	}
	a.scheduleLocked()
	return ack(nil, err)
}

// Register installs every handler on c.
func (a *Agent) Register(c *ipc.Connection) {
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeSnapshot, a.HandleSnapshot)
	c.RegisterHandler(ipc.TypePlace, a.HandlePlace)
	c.RegisterHandler(ipc.TypeManeuver, a.HandleManeuver)
	c.RegisterHandler(ipc.TypeFire, a.HandleFire)
	c.RegisterHandler(ipc.TypeEndTurn, a.HandleEndTurn)
	c.RegisterHandler(ipc.TypeContinue, a.HandleContinue)
}
