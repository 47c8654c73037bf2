package rdf

import "strings"

// Triple is a (subject, predicate, object) statement.
//
// When used as a store lookup pattern, a nil position is a wildcard that
// matches any node. Triples read back from the store are always concrete.
type Triple struct {
	Subject   Node
	Predicate Node
	Object    Node
}

// NewTriple creates a triple from three nodes.
func NewTriple(s, p, o Node) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// Nodes returns the three positions in subject, predicate, object order.
func (t Triple) Nodes() [3]Node {
	return [3]Node{t.Subject, t.Predicate, t.Object}
}

// IsConcrete reports whether no position is a wildcard.
func (t Triple) IsConcrete() bool {
	return t.Subject != nil && t.Predicate != nil && t.Object != nil
}

// Equal reports whether both triples hold structurally equal nodes.
func (t Triple) Equal(o Triple) bool {
	return Equal(t.Subject, o.Subject) &&
		Equal(t.Predicate, o.Predicate) &&
		Equal(t.Object, o.Object)
}

// String renders the triple as an N-Triples line without the trailing dot.
// Wildcards render as "*".
func (t Triple) String() string {
	parts := make([]string, 0, 3)
	for _, n := range t.Nodes() {
		if n == nil {
			parts = append(parts, "*")
			continue
		}
		parts = append(parts, n.String())
	}
	return strings.Join(parts, " ")
}

// Quad is a triple stored within an optional context (named graph).
// A nil Context means the default graph.
type Quad struct {
	Triple
	Context Node
}
