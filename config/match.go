package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DrekFretson/Final-Battleship/game"
	"github.com/DrekFretson/Final-Battleship/model"
)

const (
	MinGridSize = 2
	MaxGridSize = 26
)

var ErrInvalid = errors.New("invalid match config")

type Mode string

const (
	ModePvP Mode = "pvp"
	ModeBot Mode = "bot"
)

// Pacing holds cosmetic delays for the bridge. They have no effect on
// the rules.
type Pacing struct {
	BotDelay        time.Duration `yaml:"bot_delay"`
	TransitionDelay time.Duration `yaml:"transition_delay"`
}

// Match describes one game.
type Match struct {
	GridSize int              `yaml:"grid_size"`
	Fleet    []model.ShipSpec `yaml:"fleet"`
	Mode     Mode             `yaml:"mode"`
	BotSide  string           `yaml:"bot_side"`
	Seed     int64            `yaml:"seed"`
	Pacing   Pacing           `yaml:"pacing"`
}

func Default() Match {
	return Match{
		GridSize: model.DefaultGridSize,
		Fleet:    model.DefaultComposition(),
		Mode:     ModeBot,
		BotSide:  "side2",
		Pacing: Pacing{
			BotDelay:        600 * time.Millisecond,
			TransitionDelay: time.Second,
		},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Match, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Match{}, err
	}
	m, err := Parse(b)
	if err != nil {
		return Match{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes YAML on top of Default and validates the result.
// Keys left out keep their default values.
func Parse(b []byte) (Match, error) {
	m := Default()
	if err := yaml.Unmarshal(b, &m); err != nil {
		return Match{}, err
	}
	m.Mode = Mode(strings.ToLower(strings.TrimSpace(string(m.Mode))))
	for i := range m.Fleet {
		if m.Fleet[i].Name == "" {
			m.Fleet[i].Name = fmt.Sprintf("ship %d", i+1)
		}
	}
	if err := m.Validate(); err != nil {
		return Match{}, err
	}
	return m, nil
}

func (m Match) Validate() error {
	if m.GridSize < MinGridSize || m.GridSize > MaxGridSize {
		return fmt.Errorf("%w: grid_size %d outside [%d,%d]", ErrInvalid, m.GridSize, MinGridSize, MaxGridSize)
	}
	if len(m.Fleet) == 0 {
		return fmt.Errorf("%w: fleet is empty", ErrInvalid)
	}
	// Each ship with its one-cell halo covers a (length+1) x 2 block of
	// the grid grown by one row and column; the blocks cannot overlap.
	area := 0
	for _, s := range m.Fleet {
		if s.Length < model.MinShipLength || s.Length > model.MaxShipLength {
			return fmt.Errorf("%w: ship %q length %d outside [%d,%d]", ErrInvalid, s.Name, s.Length, model.MinShipLength, model.MaxShipLength)
		}
		if s.Length > m.GridSize {
			return fmt.Errorf("%w: ship %q longer than the grid", ErrInvalid, s.Name)
		}
		area += (s.Length + 1) * 2
	}
	if room := (m.GridSize + 1) * (m.GridSize + 1); area > room {
		return fmt.Errorf("%w: fleet needs %d cells of room, grid offers %d", ErrInvalid, area, room)
	}
	switch m.Mode {
	case ModePvP:
	case ModeBot:
		if _, err := game.ParseSide(m.BotSide); err != nil {
			return fmt.Errorf("%w: bot_side: %v", ErrInvalid, err)
		}
	default:
		return fmt.Errorf("%w: mode %q (want pvp or bot)", ErrInvalid, m.Mode)
	}
	if m.Pacing.BotDelay < 0 || m.Pacing.TransitionDelay < 0 {
		return fmt.Errorf("%w: negative pacing delay", ErrInvalid)
	}
	return nil
}

// Bot reports which side the computer plays, if any.
func (m Match) Bot() (game.Side, bool) {
	if m.Mode != ModeBot {
		return 0, false
	}
	s, err := game.ParseSide(m.BotSide)
	if err != nil {
		return 0, false
	}
	return s, true
}

// RandSeed returns Seed, or a time-based seed when Seed is zero.
func (m Match) RandSeed() int64 {
	if m.Seed != 0 {
		return m.Seed
	}
	return time.Now().UnixNano()
}

// BuildFleets creates the two unplaced fleets, each on its own grid.
func (m Match) BuildFleets() (*model.Fleet, *model.Fleet, error) {
	f1, err := model.NewFleetFromSpecs(game.Side1.String(), model.NewGrid(m.GridSize), m.Fleet)
	if err != nil {
		return nil, nil, err
	}
	f2, err := model.NewFleetFromSpecs(game.Side2.String(), model.NewGrid(m.GridSize), m.Fleet)
	if err != nil {
		return nil, nil, err
	}
	return f1, f2, nil
}
