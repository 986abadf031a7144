package rules

import (
	"log/slog"

	"github.com/DrekFretson/Final-Battleship/model"
)

// ActionHunt fires at a random valid neighbour of the last hit.
func ActionHunt(env TargetEnv) bool {
	cands := env.HuntCandidates()
	if len(cands) == 0 || env.Rng == nil {
		return false
	}
	c := cands[env.Rng.Intn(len(cands))]
	slog.Debug("hunting", "last_hit", *env.LastHit, "cell", c, "candidates", len(cands))
	return env.choose(c)
}

// ActionRandomOpen samples the pool up to Attempts times for a cell that
// is not forbidden. It gives up without a pick when every draw lands next
// to a wreck.
func ActionRandomOpen(env TargetEnv) bool {
	n := env.Available()
	if n == 0 || env.Rng == nil {
		return false
	}
	for i := 0; i < env.Attempts; i++ {
		c := env.Pool.At(env.Rng.Intn(n))
		if !env.forbidden(c) {
			return env.choose(c)
		}
	}
	slog.Debug("random search exhausted", "attempts", env.Attempts, "available", n)
	return false
}

// ActionRandomAny picks any remaining cell.
func ActionRandomAny(env TargetEnv) bool {
	n := env.Available()
	if n == 0 || env.Rng == nil {
		return false
	}
	return env.choose(env.Pool.At(env.Rng.Intn(n)))
}

// ActionHold leaves the ship where it is.
func ActionHold(env ManeuverEnv) bool {
	if env.Outcome != nil {
		env.Outcome.Attempted = false
	}
	return true
}

// maneuverAction attempts m once. An illegal pose simply means the ship
// stays put this turn, which still counts as the decision for the ship.
func maneuverAction(m model.Maneuver) ActionFunc[ManeuverEnv] {
	return func(env ManeuverEnv) bool {
		if env.Ship == nil {
			return false
		}
		ok := model.ApplyManeuver(env.Ship, m, env.Others)
		slog.Debug("repositioning", "ship", env.Ship.Name(), "maneuver", m, "ok", ok)
		if env.Outcome != nil {
			*env.Outcome = ManeuverOutcome{Attempted: true, Maneuver: m, Moved: ok}
		}
		return true
	}
}
