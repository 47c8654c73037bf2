package bridge

import (
	"fmt"
	"log/slog"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfq/internal/query"
	"github.com/roach88/rdfq/internal/rdf"
)

// Match walks the candidates of one pattern lookup.
//
// It records, per slot, the variable occupying it and the node the lookup
// was made with (nil for a wildcard). Triples read from the stream are
// never modified.
type Match struct {
	source  *Source
	pattern query.Pattern
	stream  rdf.Stream

	slots    [3]*query.Variable
	fixed    [3]rdf.Node
	preBound [3]bool

	exhausted bool
	closed    bool
}

var _ query.TriplesMatch = (*Match)(nil)

// Slots returns the variable in each position, nil for constants.
func (m *Match) Slots() [3]*query.Variable {
	return m.slots
}

// IsEnd reports whether there is no current candidate.
func (m *Match) IsEnd() bool {
	return m.closed || m.exhausted || m.stream.End()
}

// Next advances to the following candidate. At the end it does nothing.
// A store error ends the match and is returned.
func (m *Match) Next() error {
	if m.closed || m.exhausted {
		return nil
	}
	if err := m.stream.Next(); err != nil {
		m.exhausted = true
		return fmt.Errorf("advance %s: %w", m.pattern, err)
	}
	if m.stream.End() {
		m.exhausted = true
	}
	return nil
}

// Bind checks the current candidate against the pattern and, if it fits,
// assigns the variables.
//
// Positions are visited subject, predicate, object. The first position a
// variable appears in supplies its value; every later position naming the
// same VarID must hold an equal node. Positions fixed at lookup time must
// still equal the node the lookup used. When any check fails Bind returns
// false and leaves every variable untouched.
//
// Variables that already had a value when the match was opened keep it.
//
// Calling Bind at the end is an INVALID_USAGE error.
func (m *Match) Bind(vars [3]*query.Variable) (bool, error) {
	if m.IsEnd() {
		return false, invalidUsage("bind called on a match at its end")
	}

	nodes := m.stream.Triple().Nodes()

	type first struct {
		id   query.VarID
		slot int
	}
	var seen [3]first
	nseen := 0

	for i, n := range nodes {
		if m.fixed[i] != nil && !rdf.Equal(m.fixed[i], n) {
			return false, nil
		}

		v := vars[i]
		if v == nil {
			continue
		}
		repeat := false
		for _, f := range seen[:nseen] {
			if f.id == v.ID {
				if !rdf.Equal(nodes[f.slot], n) {
					return false, nil
				}
				repeat = true
				break
			}
		}
		if !repeat {
			seen[nseen] = first{id: v.ID, slot: i}
			nseen++
		}
	}

	// Convert everything before assigning anything.
	var values [3]quad.Value
	for _, f := range seen[:nseen] {
		val, err := ToQueryLiteral(nodes[f.slot])
		if err != nil {
			return false, atSlot(err, f.slot)
		}
		values[f.slot] = val
	}
	for _, f := range seen[:nseen] {
		if m.preBound[f.slot] {
			continue
		}
		vars[f.slot].Set(values[f.slot])
	}
	return true, nil
}

// Close releases the stream. Further calls do nothing.
func (m *Match) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	delete(m.source.open, m)

	slog.Debug("match closed", "pattern", m.pattern.String())
	if err := m.stream.Close(); err != nil {
		return fmt.Errorf("close stream for %s: %w", m.pattern, err)
	}
	return nil
}
