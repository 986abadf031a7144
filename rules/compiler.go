package rules

import (
	"fmt"

	"github.com/DrekFretson/Final-Battleship/model"
)

const (
	categoryTarget   = "target"
	categoryManeuver = "maneuver"
)

// CompileTargeting generates the shot-selection rules. Exactly one of them
// picks a cell whenever any cell is left: hunting first, then a bounded
// random search that avoids wrecks, then any remaining cell. The search
// budget travels in TargetEnv.Attempts.
func CompileTargeting() []*Rule[TargetEnv] {
	return []*Rule[TargetEnv]{
		{
			Name:         "hunt",
			Priority:     300,
			Category:     categoryTarget,
			Exclusive:    true,
			ConditionSrc: `Hunting && HasLastHit() && len(HuntCandidates()) > 0`,
			Action:       ActionHunt,
		},
		{
			Name:         "random-open",
			Priority:     200,
			Category:     categoryTarget,
			Exclusive:    true,
			ConditionSrc: `Available() > 0 && Open() > 0`,
			Action:       ActionRandomOpen,
		},
		{
			Name:         "random-any",
			Priority:     100,
			Category:     categoryTarget,
			Exclusive:    true,
			ConditionSrc: `Available() > 0`,
			Action:       ActionRandomAny,
		},
	}
}

// CompileManeuver generates the self-repositioning rules evaluated once per
// ship. The hold rule absorbs ships that are out of play, have already
// acted, or lose the maneuver roll; the rest split the remaining
// probability between the four maneuvers.
func CompileManeuver(d Doctrine) []*Rule[ManeuverEnv] {
	d.Validate()
	move := fmt.Sprintf("KindRoll < %g", d.MoveShare)
	turn := fmt.Sprintf("KindRoll >= %g", d.MoveShare)

	return []*Rule[ManeuverEnv]{
		{
			Name:         "hold",
			Priority:     300,
			Category:     categoryManeuver,
			Exclusive:    true,
			ConditionSrc: fmt.Sprintf(`!Eligible() || Acted() || Roll >= %g`, d.ManeuverChance),
			Action:       ActionHold,
		},
		{
			Name:         "move-forward",
			Priority:     200,
			Category:     categoryManeuver,
			Exclusive:    true,
			ConditionSrc: fmt.Sprintf(`%s && DirRoll < %g`, move, d.ForwardShare),
			Action:       maneuverAction(model.Forward),
		},
		{
			Name:         "move-backward",
			Priority:     200,
			Category:     categoryManeuver,
			Exclusive:    true,
			ConditionSrc: fmt.Sprintf(`%s && DirRoll >= %g`, move, d.ForwardShare),
			Action:       maneuverAction(model.Backward),
		},
		{
			Name:         "rotate-left",
			Priority:     200,
			Category:     categoryManeuver,
			Exclusive:    true,
			ConditionSrc: fmt.Sprintf(`%s && DirRoll < %g`, turn, d.LeftShare),
			Action:       maneuverAction(model.TurnLeft),
		},
		{
			Name:         "rotate-right",
			Priority:     200,
			Category:     categoryManeuver,
			Exclusive:    true,
			ConditionSrc: fmt.Sprintf(`%s && DirRoll >= %g`, turn, d.LeftShare),
			Action:       maneuverAction(model.TurnRight),
		},
	}
}
