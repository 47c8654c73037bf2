package query

import (
	"context"
	"errors"

	"github.com/cayleygraph/quad"
)

// sliceSource is an in-memory TriplesSource over a fixed list of triples.
type sliceSource struct {
	triples [][3]quad.Value
	opened  int
	closed  int
	failAt  int // fail Next on this candidate index, -1 never
	srcDone bool
}

func newSliceSource(triples ...[3]quad.Value) *sliceSource {
	return &sliceSource{triples: triples, failAt: -1}
}

func (s *sliceSource) factory() SourceFactory {
	return func(ctx context.Context, q *Query) (TriplesSource, error) {
		return s, nil
	}
}

func (s *sliceSource) TriplePresent(p Pattern) (bool, error) {
	terms := p.Terms()
	for _, t := range s.triples {
		if t[0] == terms[0].Value() && t[1] == terms[1].Value() && t[2] == terms[2].Value() {
			return true, nil
		}
	}
	return false, nil
}

func (s *sliceSource) NewMatch(p Pattern) (TriplesMatch, error) {
	s.opened++
	m := &sliceMatch{src: s, slots: p.Variables()}
	for i, t := range p.Terms() {
		switch {
		case t.Variable() != nil && t.Variable().IsBound():
			m.fixed[i] = t.Variable().Value
		case t.Variable() == nil:
			m.fixed[i] = t.Value()
		}
	}
	m.skip()
	return m, nil
}

func (s *sliceSource) Close() error {
	s.srcDone = true
	return nil
}

type sliceMatch struct {
	src    *sliceSource
	slots  [3]*Variable
	fixed  [3]quad.Value
	pos    int
	closed bool
}

// skip moves pos to the next triple agreeing with the fixed slots.
func (m *sliceMatch) skip() {
	for ; m.pos < len(m.src.triples); m.pos++ {
		t := m.src.triples[m.pos]
		ok := true
		for i, f := range m.fixed {
			if f != nil && f != t[i] {
				ok = false
			}
		}
		if ok {
			return
		}
	}
}

func (m *sliceMatch) Slots() [3]*Variable { return m.slots }

func (m *sliceMatch) IsEnd() bool { return m.closed || m.pos >= len(m.src.triples) }

func (m *sliceMatch) Next() error {
	if m.IsEnd() {
		return nil
	}
	if m.pos == m.src.failAt {
		return errors.New("store failure")
	}
	m.pos++
	m.skip()
	return nil
}

func (m *sliceMatch) Bind(vars [3]*Variable) (bool, error) {
	if m.IsEnd() {
		return false, errors.New("bind at end")
	}
	t := m.src.triples[m.pos]
	first := map[VarID]quad.Value{}
	for i, v := range vars {
		if v == nil {
			continue
		}
		if prev, ok := first[v.ID]; ok {
			if prev != t[i] {
				return false, nil
			}
			continue
		}
		first[v.ID] = t[i]
	}
	for i, v := range vars {
		if v != nil {
			v.Set(t[i])
		}
	}
	return true, nil
}

func (m *sliceMatch) Close() error {
	if !m.closed {
		m.closed = true
		m.src.closed++
	}
	return nil
}

func tr(s, p, o quad.Value) [3]quad.Value {
	return [3]quad.Value{s, p, o}
}
