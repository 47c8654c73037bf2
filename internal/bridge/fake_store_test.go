package bridge

import (
	"context"

	"github.com/roach88/rdfq/internal/rdf"
)

// fakeStore is an in-memory GraphStore that records every stream it hands
// out.
type fakeStore struct {
	triples  []rdf.Triple
	sloppy   bool // ignore the lookup pattern and return everything
	nextErr  error
	finds    int
	contains int
	streams  []*fakeStream
	lookups  []rdf.Triple
}

func newFakeStore(triples ...rdf.Triple) *fakeStore {
	return &fakeStore{triples: triples}
}

func (f *fakeStore) FindTriples(ctx context.Context, pattern rdf.Triple) (rdf.Stream, error) {
	f.finds++
	f.lookups = append(f.lookups, pattern)

	var items []rdf.Triple
	for _, t := range f.triples {
		if f.sloppy || matches(pattern, t) {
			items = append(items, t)
		}
	}
	st := &fakeStream{items: items, nextErr: f.nextErr}
	f.streams = append(f.streams, st)
	return st, nil
}

func (f *fakeStore) ContainsTriple(ctx context.Context, t rdf.Triple) (bool, error) {
	f.contains++
	for _, s := range f.triples {
		if s.Equal(t) {
			return true, nil
		}
	}
	return false, nil
}

func matches(pattern, t rdf.Triple) bool {
	p, n := pattern.Nodes(), t.Nodes()
	for i := range p {
		if p[i] != nil && !rdf.Equal(p[i], n[i]) {
			return false
		}
	}
	return true
}

type fakeStream struct {
	items   []rdf.Triple
	pos     int
	closes  int
	nextErr error
}

func (s *fakeStream) End() bool { return s.pos >= len(s.items) }

func (s *fakeStream) Triple() rdf.Triple { return s.items[s.pos] }

func (s *fakeStream) Next() error {
	if s.End() {
		return nil
	}
	if s.nextErr != nil {
		return s.nextErr
	}
	s.pos++
	return nil
}

func (s *fakeStream) Close() error {
	s.closes++
	return nil
}
