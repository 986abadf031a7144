package rules

import "github.com/expr-lang/expr/vm"

// ActionFunc carries out a rule once its condition holds. It reports
// whether it actually did something; an exclusive rule only claims its
// category when the action succeeds, so a hunting rule with nothing left
// to shoot at hands over to the random rules below it.
type ActionFunc[E any] func(env E) bool

// Rule is the atomic unit of AI behavior: a condition → action pair.
// The engine evaluates rules by priority and uses Category + Exclusive
// so that only one decision is taken per category.
type Rule[E any] struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
	Action       ActionFunc[E]
}
