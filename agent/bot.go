package agent

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/DrekFretson/Final-Battleship/model"
	"github.com/DrekFretson/Final-Battleship/rules"
)

// placementAttempts bounds the random poses tried per ship.
const placementAttempts = 100

var ErrPlacement = errors.New("no legal placement found")

// NewRand returns a seeded source. Seed 0 is mapped to 1 so that a zero
// value still gives a reproducible stream.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

// Bot is the computer opponent. It remembers which cells it has fired at
// and the last hit it scored; everything else it learns from the opposing
// fleet at decision time.
type Bot struct {
	size      int
	rng       *rand.Rand
	doctrine  rules.Doctrine
	targeting *rules.Engine[rules.TargetEnv]
	maneuver  *rules.Engine[rules.ManeuverEnv]

	available *model.CellPool
	lastHit   model.Cell
	hasHit    bool
	hunting   bool
}

type BotOption func(*Bot)

// WithDoctrine replaces the default tuning.
func WithDoctrine(d rules.Doctrine) BotOption {
	return func(b *Bot) { b.doctrine = d }
}

// NewBot creates a bot for a size x size opponent grid. A nil rng is
// replaced by NewRand(1).
func NewBot(size int, rng *rand.Rand, opts ...BotOption) (*Bot, error) {
	if size <= 0 {
		size = model.DefaultGridSize
	}
	if rng == nil {
		rng = NewRand(1)
	}
	b := &Bot{
		size:      size,
		rng:       rng,
		doctrine:  rules.DefaultDoctrine(),
		available: model.FullPool(size),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.doctrine.Validate()

	var err error
	if b.targeting, err = rules.NewEngine(rules.CompileTargeting()); err != nil {
		return nil, fmt.Errorf("targeting rules: %w", err)
	}
	if b.maneuver, err = rules.NewEngine(rules.CompileManeuver(b.doctrine)); err != nil {
		return nil, fmt.Errorf("maneuver rules: %w", err)
	}
	return b, nil
}

func (b *Bot) Hunting() bool { return b.hunting }

// LastHit returns the most recent hit, if any.
func (b *Bot) LastHit() (model.Cell, bool) { return b.lastHit, b.hasHit }

// Remaining is the number of cells the bot has not yet chosen.
func (b *Bot) Remaining() int { return b.available.Len() }

// ForbiddenCells is every cell on or around an opposing ship known to be
// sunk. It is rebuilt on each call from the fleet's current state.
func (b *Bot) ForbiddenCells(opponent *model.Fleet) *model.CellSet {
	set := model.NewCellSet(b.size)
	if opponent == nil {
		return set
	}
	for _, s := range opponent.Ships() {
		if !s.IsSunk() {
			continue
		}
		for _, c := range s.OccupiedCells() {
			for _, n := range c.Neighbors8(b.size) {
				set.Add(n)
			}
		}
	}
	return set
}

// SelectShot picks the next cell to fire at and removes it from the
// bot's pool. It reports false only when every cell has been used.
func (b *Bot) SelectShot(opponent *model.Fleet) (model.Cell, bool) {
	var pick model.Cell
	env := rules.TargetEnv{
		Hunting:   b.hunting,
		Attempts:  b.doctrine.RandomAttempts,
		Pool:      b.available,
		Forbidden: b.ForbiddenCells(opponent),
		Rng:       b.rng,
		Pick:      &pick,
	}
	if b.hasHit {
		last := b.lastHit
		env.LastHit = &last
	}

	fired := b.targeting.Evaluate(env)
	if len(fired) == 0 {
		return model.Cell{}, false
	}
	b.available.Remove(pick)
	slog.Debug("bot selected shot", "cell", pick, "rule", fired[0], "remaining", b.available.Len())
	return pick, true
}

// ProcessResult feeds back the outcome of the last shot. A hit becomes
// the new hunting anchor; a miss ends the hunt but keeps the anchor.
func (b *Bot) ProcessResult(c model.Cell, hit bool) {
	if hit {
		b.lastHit = c
		b.hasHit = true
		b.hunting = true
		return
	}
	b.hunting = false
}

// RepositionFleet gives every ship of own one chance to move or turn,
// and returns how many actually changed pose.
func (b *Bot) RepositionFleet(own *model.Fleet) int {
	if own == nil {
		return 0
	}
	moved := 0
	for _, s := range own.Ships() {
		var out rules.ManeuverOutcome
		b.maneuver.Evaluate(rules.ManeuverEnv{
			Ship:     s,
			Others:   own.Others(s),
			Roll:     b.rng.Float64(),
			KindRoll: b.rng.Float64(),
			DirRoll:  b.rng.Float64(),
			Outcome:  &out,
		})
		if out.Moved {
			moved++
		}
	}
	return moved
}

// PlaceFleet deploys every unplaced ship of own at a random legal pose.
func (b *Bot) PlaceFleet(own *model.Fleet) error {
	if own == nil {
		return model.ErrEmptyFleet
	}
	size := own.Grid().Size()
	for i, s := range own.Ships() {
		if s.IsPlaced() {
			continue
		}
		placed := false
		for attempt := 0; attempt < placementAttempts; attempt++ {
			nose := model.Cell{X: b.rng.Intn(size), Y: b.rng.Intn(size)}
			o := model.Orientation(b.rng.Intn(4))
			if own.Place(i, nose, o) {
				placed = true
				break
			}
		}
		if !placed {
			return fmt.Errorf("ship %q after %d attempts: %w", s.Name(), placementAttempts, ErrPlacement)
		}
	}
	slog.Debug("bot fleet placed", "owner", own.Owner(), "ships", own.Len())
	return nil
}

// Refill makes every cell available again while keeping the hunting
// memory.
func (b *Bot) Refill() {
	b.available = model.FullPool(b.size)
}

// Reset forgets all targeting state for a new match.
func (b *Bot) Reset() {
	b.available = model.FullPool(b.size)
	b.lastHit = model.Cell{}
	b.hasHit = false
	b.hunting = false
}
