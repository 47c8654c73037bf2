package query

import "context"

// TriplesSource resolves patterns against a store for one evaluation.
type TriplesSource interface {
	// NewMatch starts an iteration over candidates for a pattern with at
	// least one variable slot. Slots whose variable is already bound are
	// searched with that value.
	NewMatch(p Pattern) (TriplesMatch, error)

	// TriplePresent reports whether a pattern with no variable slots is in
	// the store.
	TriplePresent(p Pattern) (bool, error)

	// Close releases the source at the end of the evaluation.
	Close() error
}

// TriplesMatch is one live iteration over the candidates of a pattern.
//
// Protocol:
//
//	for !m.IsEnd() {
//	    ok, err := m.Bind(m.Slots())
//	    ...
//	    err = m.Next()
//	}
//	m.Close()
type TriplesMatch interface {
	// Slots returns the variable occupying each position, nil for
	// constants.
	Slots() [3]*Variable

	// Bind checks the current candidate against the slot variables and, if
	// it is consistent, assigns them. A rejected candidate returns false
	// with a nil error. Calling Bind at the end is an error.
	Bind(vars [3]*Variable) (bool, error)

	// Next advances to the following candidate. No-op at the end.
	Next() error

	// IsEnd reports whether there is no current candidate.
	IsEnd() bool

	// Close releases the iteration. Safe to call more than once.
	Close() error
}

// SourceFactory creates the triples source for one evaluation of q.
type SourceFactory func(ctx context.Context, q *Query) (TriplesSource, error)
