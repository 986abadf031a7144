package rules

// Doctrine holds the numbers the AI rules are compiled from. The default
// values are the game's fixed behaviour; the compiler interpolates them
// into rule conditions.
type Doctrine struct {
	Name           string  `json:"name" yaml:"name"`
	RandomAttempts int     `json:"random_attempts" yaml:"random_attempts"`
	ManeuverChance float64 `json:"maneuver_chance" yaml:"maneuver_chance"`
	MoveShare      float64 `json:"move_share" yaml:"move_share"`
	ForwardShare   float64 `json:"forward_share" yaml:"forward_share"`
	LeftShare      float64 `json:"left_share" yaml:"left_share"`
}

// DefaultDoctrine returns the standard bot behaviour.
func DefaultDoctrine() Doctrine {
	return Doctrine{
		Name:           "Standard",
		RandomAttempts: 100,
		ManeuverChance: 0.80,
		MoveShare:      0.5,
		ForwardShare:   0.5,
		LeftShare:      0.5,
	}
}

// Validate clamps all weights to their valid ranges.
func (d *Doctrine) Validate() {
	d.RandomAttempts = clampInt(d.RandomAttempts, 1, 10000)
	d.ManeuverChance = clamp(d.ManeuverChance, 0, 1)
	d.MoveShare = clamp(d.MoveShare, 0, 1)
	d.ForwardShare = clamp(d.ForwardShare, 0, 1)
	d.LeftShare = clamp(d.LeftShare, 0, 1)
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
