package query

import "fmt"

// Validate checks that a query can be evaluated.
//
// Rules:
//  1. At least one pattern
//  2. Every term is either a constant or a variable, never both or neither
//  3. Variables belong to this query (same ID resolves to same name)
//  4. Selected names occur in some pattern, and none is selected twice
//  5. Limit is not negative
//
// Validate is a pure function with no side effects.
func Validate(q *Query) error {
	v := &validator{}
	v.validate(q)
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validate(q *Query) {
	if q == nil {
		v.addProblem("nil query")
		return
	}
	if len(q.Patterns) == 0 {
		v.addProblem("no patterns")
	}
	if q.Limit < 0 {
		v.addProblem("negative limit %d", q.Limit)
	}

	used := make(map[string]bool)
	positions := [3]string{"subject", "predicate", "object"}
	for i, p := range q.Patterns {
		for j, t := range p.Terms() {
			if !t.IsValid() {
				v.addProblem("pattern %d %s: term must be exactly one of constant or variable", i, positions[j])
				continue
			}
			if vr := t.Variable(); vr != nil {
				if int(vr.ID) >= len(q.vars) || q.vars[vr.ID] != vr {
					v.addProblem("pattern %d %s: variable %s does not belong to this query", i, positions[j], vr)
					continue
				}
				used[vr.Name] = true
			}
		}
	}

	selected := make(map[string]bool, len(q.Select))
	for _, name := range q.Select {
		if selected[name] {
			v.addProblem("variable ?%s selected twice", name)
		}
		selected[name] = true
		if !used[name] {
			v.addProblem("selected variable ?%s does not occur in any pattern", name)
		}
	}
}
