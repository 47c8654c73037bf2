package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/rdfq/internal/rdf"
)

const (
	exA = "http://example/A"
	exB = "http://example/B"
	exC = "http://example/C"
	exP = "http://example/P"
	exQ = "http://example/Q"
	exG = "http://example/G"

	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// res is shorthand for a resource node.
func res(uri string) rdf.Node {
	return rdf.NewResource(uri)
}

// mustAdd stores triples in the default graph.
func mustAdd(t *testing.T, s *Store, triples ...rdf.Triple) {
	t.Helper()
	for _, tr := range triples {
		if err := s.Add(context.Background(), tr, nil); err != nil {
			t.Fatalf("Add(%s) failed: %v", tr, err)
		}
	}
}

// collect drains a stream and closes it.
func collect(t *testing.T, st rdf.Stream) []rdf.Triple {
	t.Helper()
	defer st.Close()

	var out []rdf.Triple
	for !st.End() {
		out = append(out, st.Triple())
		if err := st.Next(); err != nil {
			t.Fatalf("Next() failed: %v", err)
		}
	}
	return out
}

// triple builds an all-resource triple.
func triple(s, p, o string) rdf.Triple {
	return rdf.NewTriple(res(s), res(p), res(o))
}
