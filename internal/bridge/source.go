package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfq/internal/query"
	"github.com/roach88/rdfq/internal/rdf"
)

// GraphStore is the part of a graph store the bridge needs. Nil nodes in a
// FindTriples pattern are wildcards. ContainsTriple must not allocate a
// stream.
type GraphStore interface {
	FindTriples(ctx context.Context, pattern rdf.Triple) (rdf.Stream, error)
	ContainsTriple(ctx context.Context, t rdf.Triple) (bool, error)
}

// Source is the query.TriplesSource for one evaluation against a
// GraphStore.
//
// Thread-safety: a Source and its matches belong to the evaluating
// goroutine.
type Source struct {
	ctx    context.Context
	store  GraphStore
	open   map[*Match]struct{}
	closed bool
}

var _ query.TriplesSource = (*Source)(nil)

// NewSource creates a source whose store calls use ctx.
func NewSource(ctx context.Context, store GraphStore) *Source {
	return &Source{
		ctx:   ctx,
		store: store,
		open:  make(map[*Match]struct{}),
	}
}

// TriplePresent reports whether the store holds the triple named by a
// pattern of three constants. Patterns with a variable slot belong to
// NewMatch.
func (s *Source) TriplePresent(p query.Pattern) (bool, error) {
	if s.closed {
		return false, invalidUsage("source is closed")
	}
	if n := p.VariableCount(); n != 0 {
		return false, invalidUsage("pattern %s has %d variable slots, use NewMatch", p, n)
	}

	var vals [3]quad.Value
	for i, t := range p.Terms() {
		if !t.IsValid() {
			return false, atSlot(invalidUsage("malformed pattern term"), i)
		}
		vals[i] = t.Value()
	}
	t, err := toStoreTriple(vals)
	if err != nil {
		return false, err
	}

	present, err := s.store.ContainsTriple(s.ctx, t)
	if err != nil {
		return false, fmt.Errorf("contains %s: %w", t, err)
	}
	return present, nil
}

// NewMatch starts a lookup for a pattern with at least one variable slot.
//
// Each slot becomes the variable's current value if it has one, the
// constant for a constant slot, or a wildcard for an unbound variable.
// The returned Match owns a store stream until it is closed.
func (s *Source) NewMatch(p query.Pattern) (query.TriplesMatch, error) {
	if s.closed {
		return nil, invalidUsage("source is closed")
	}
	if p.VariableCount() == 0 {
		return nil, invalidUsage("pattern %s has no variable slots, use TriplePresent", p)
	}

	m := &Match{source: s, pattern: p, slots: p.Variables()}

	var vals [3]quad.Value
	for i, t := range p.Terms() {
		switch {
		case !t.IsValid():
			return nil, atSlot(invalidUsage("malformed pattern term"), i)
		case t.IsVariable():
			if v := t.Variable(); v.IsBound() {
				vals[i] = v.Value
				m.preBound[i] = true
			}
		default:
			vals[i] = t.Value()
		}
	}
	lookup, err := toStoreTriple(vals)
	if err != nil {
		return nil, err
	}
	m.fixed = lookup.Nodes()

	stream, err := s.store.FindTriples(s.ctx, lookup)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", lookup, err)
	}
	m.stream = stream
	s.open[m] = struct{}{}

	slog.Debug("match opened",
		"pattern", p.String(),
		"lookup", lookup.String(),
		"at_end", stream.End(),
	)
	return m, nil
}

// Close closes any match still open and marks the source unusable.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for m := range s.open {
		slog.Warn("closing abandoned match", "pattern", m.pattern.String())
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenMatches returns the number of matches not yet closed.
func (s *Source) OpenMatches() int {
	return len(s.open)
}
