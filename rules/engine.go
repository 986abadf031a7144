package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine runs compiled rules against an environment of type E.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category once their action succeeds.
type Engine[E any] struct {
	mu    sync.RWMutex
	rules []*Rule[E]
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine[E any](rules []*Rule[E]) (*Engine[E], error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine[E]{rules: compiled}, nil
}

// Evaluate runs all rules against env and returns the names of the rules
// whose actions succeeded, in firing order.
func (e *Engine[E]) Evaluate(env E) []string {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	fired := make(map[string]bool) // category → exclusive rule already fired
	var names []string
	for _, r := range rules {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		if !r.Action(env) {
			slog.Debug("rule action declined", "rule", r.Name, "category", r.Category)
			continue
		}
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category)
		names = append(names, r.Name)

		if r.Exclusive {
			fired[r.Category] = true
		}
	}
	return names
}

// Rules returns the active rule names in evaluation order.
func (e *Engine[E]) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Swap atomically replaces the rule set. Compiles first; if compilation
// fails the old rules remain active.
func (e *Engine[E]) Swap(newRules []*Rule[E]) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	names := make([]string, len(compiled))
	for i, r := range compiled {
		names[i] = r.Name
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("rule set swapped", "count", len(compiled), "rules", names)
	return nil
}

func compileRules[E any](rules []*Rule[E]) ([]*Rule[E], error) {
	var zero E
	for _, r := range rules {
		if r.Action == nil {
			return nil, fmt.Errorf("rule %q has no action", r.Name)
		}
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(zero), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
