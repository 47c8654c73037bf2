package query

import (
	"fmt"
	"strings"

	"github.com/cayleygraph/quad"
)

// VarID identifies a variable within one Query.
type VarID uint32

// Variable is a named query variable with an optional current value.
//
// Identity is the ID, not the pointer: sources detect aliasing by comparing
// IDs.
type Variable struct {
	ID    VarID
	Name  string
	Value quad.Value // nil when unbound
}

// IsBound reports whether the variable currently holds a value.
func (v *Variable) IsBound() bool {
	return v.Value != nil
}

// Set assigns the variable's current value.
func (v *Variable) Set(val quad.Value) {
	v.Value = val
}

// Unset clears the variable's current value.
func (v *Variable) Unset() {
	v.Value = nil
}

// String renders the variable as ?name.
func (v *Variable) String() string {
	return "?" + v.Name
}

// Term is one slot of a pattern: either a constant value or a variable,
// never both. The zero Term is invalid.
type Term struct {
	value    quad.Value
	variable *Variable
}

// V creates a variable term.
func V(v *Variable) Term {
	return Term{variable: v}
}

// C creates a constant term.
func C(val quad.Value) Term {
	return Term{value: val}
}

// IRI creates a constant IRI term.
func IRI(iri string) Term {
	return C(quad.IRI(iri))
}

// Lit creates a constant plain literal term.
func Lit(s string) Term {
	return C(quad.String(s))
}

// LangLit creates a constant language-tagged literal term.
func LangLit(s, lang string) Term {
	return C(quad.LangString{Value: quad.String(s), Lang: lang})
}

// TypedLit creates a constant typed literal term.
func TypedLit(s, datatype string) Term {
	return C(quad.TypedString{Value: quad.String(s), Type: quad.IRI(datatype)})
}

// Blank creates a constant blank node term.
func Blank(id string) Term {
	return C(quad.BNode(id))
}

// IsVariable reports whether the term is a variable slot.
func (t Term) IsVariable() bool {
	return t.variable != nil
}

// Variable returns the variable of a variable term, or nil.
func (t Term) Variable() *Variable {
	return t.variable
}

// Value returns the constant of a constant term, or nil.
func (t Term) Value() quad.Value {
	return t.value
}

// IsValid reports whether exactly one of value and variable is set.
func (t Term) IsValid() bool {
	return (t.value == nil) != (t.variable == nil)
}

// String renders the term for diagnostics.
func (t Term) String() string {
	switch {
	case t.variable != nil:
		return t.variable.String()
	case t.value != nil:
		return t.value.String()
	default:
		return "<invalid>"
	}
}

// Pattern is a triple template: three slots in subject, predicate, object
// order.
type Pattern struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// Terms returns the three slots in order.
func (p Pattern) Terms() [3]Term {
	return [3]Term{p.Subject, p.Predicate, p.Object}
}

// Variables returns the variable in each slot, nil for constant slots.
func (p Pattern) Variables() [3]*Variable {
	return [3]*Variable{p.Subject.variable, p.Predicate.variable, p.Object.variable}
}

// VariableCount returns the number of variable slots (aliased slots count
// separately).
func (p Pattern) VariableCount() int {
	n := 0
	for _, v := range p.Variables() {
		if v != nil {
			n++
		}
	}
	return n
}

// String renders the pattern for diagnostics.
func (p Pattern) String() string {
	return p.Subject.String() + " " + p.Predicate.String() + " " + p.Object.String()
}

// Query is a basic graph pattern with projection.
//
// Build one with New, Var and Where:
//
//	q := query.New()
//	x := q.Var("x")
//	q.Where(query.V(x), query.IRI("http://example/P"), query.V(x))
type Query struct {
	// Select lists the variable names to project. Empty selects every
	// variable in order of first appearance.
	Select []string

	// Patterns are joined in order.
	Patterns []Pattern

	// Limit caps the number of rows (0 = unlimited).
	Limit int

	// Distinct removes duplicate rows.
	Distinct bool

	vars   []*Variable
	byName map[string]*Variable
}

// New creates an empty query.
func New() *Query {
	return &Query{byName: make(map[string]*Variable)}
}

// Var returns the variable with the given name, creating it on first use.
// The same name always yields the same VarID.
func (q *Query) Var(name string) *Variable {
	if v, ok := q.byName[name]; ok {
		return v
	}
	if q.byName == nil {
		q.byName = make(map[string]*Variable)
	}
	v := &Variable{ID: VarID(len(q.vars)), Name: name}
	q.vars = append(q.vars, v)
	q.byName[name] = v
	return v
}

// Lookup returns the named variable, or nil.
func (q *Query) Lookup(name string) *Variable {
	return q.byName[name]
}

// Variables returns every variable in creation order.
func (q *Query) Variables() []*Variable {
	return q.vars
}

// Where appends a pattern and returns the query for chaining.
func (q *Query) Where(s, p, o Term) *Query {
	q.Patterns = append(q.Patterns, Pattern{Subject: s, Predicate: p, Object: o})
	return q
}

// projection returns the variable names to output.
func (q *Query) projection() []string {
	if len(q.Select) > 0 {
		return q.Select
	}
	names := make([]string, 0, len(q.vars))
	seen := make(map[VarID]bool, len(q.vars))
	for _, p := range q.Patterns {
		for _, v := range p.Variables() {
			if v != nil && !seen[v.ID] {
				seen[v.ID] = true
				names = append(names, v.Name)
			}
		}
	}
	return names
}

// reset clears every variable value.
func (q *Query) reset() {
	for _, v := range q.vars {
		v.Unset()
	}
}

// String renders the query in a SPARQL-like form for logs.
func (q *Query) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if q.Distinct {
		b.WriteString("DISTINCT ")
	}
	names := q.projection()
	for i, n := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("?" + n)
	}
	b.WriteString(" WHERE {")
	for _, p := range q.Patterns {
		b.WriteString(" " + p.String() + " .")
	}
	b.WriteString(" }")
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String()
}
