// Package tree extracts the statements reachable from a node.
//
// Starting at a root, every statement with the root as subject is copied to
// a sink. Objects that are resources or blank nodes are then explored the
// same way, one level shallower, unless the sink already describes them.
// Level 0 copies only the root's own statements.
package tree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/rdfq/internal/bridge"
	"github.com/roach88/rdfq/internal/query"
	"github.com/roach88/rdfq/internal/rdf"
)

// Sink receives extracted statements.
type Sink interface {
	FindTriples(ctx context.Context, pattern rdf.Triple) (rdf.Stream, error)
	ContainsTriple(ctx context.Context, t rdf.Triple) (bool, error)
	Add(ctx context.Context, t rdf.Triple) error
}

// Extractor copies subgraphs from a registered source into a sink.
type Extractor struct {
	engine *query.Engine
	source string
	sink   Sink
	added  int
}

// NewExtractor creates an extractor reading through eng's source.
func NewExtractor(eng *query.Engine, source string, sink Sink) *Extractor {
	return &Extractor{engine: eng, source: source, sink: sink}
}

// Added returns the number of statements written to the sink so far.
func (x *Extractor) Added() int {
	return x.added
}

// Extract copies the statements about root, recursing up to level.
func (x *Extractor) Extract(ctx context.Context, root rdf.Node, level int) error {
	if root == nil || root.Kind() == rdf.KindLiteral {
		return fmt.Errorf("tree root must be a resource or blank node, got %v", root)
	}

	rootVal, err := bridge.ToQueryLiteral(root)
	if err != nil {
		return err
	}

	q := query.New()
	p, o := q.Var("p"), q.Var("o")
	q.Where(query.C(rootVal), query.V(p), query.V(o))

	res, err := x.engine.Execute(ctx, x.source, q)
	if err != nil {
		return fmt.Errorf("statements about %s: %w", root, err)
	}
	slog.Debug("tree node", "node", root.String(), "level", level, "statements", res.Len())

	for _, row := range res.Rows {
		pred, err := bridge.ToStoreNode(row[0])
		if err != nil {
			return err
		}
		obj, err := bridge.ToStoreNode(row[1])
		if err != nil {
			return err
		}
		t := rdf.NewTriple(root, pred, obj)

		seen, err := x.sink.ContainsTriple(ctx, t)
		if err != nil {
			return err
		}
		if seen {
			continue
		}
		if err := x.sink.Add(ctx, t); err != nil {
			return err
		}
		x.added++

		if level <= 0 || obj.Kind() == rdf.KindLiteral {
			continue
		}
		described, err := x.describes(ctx, obj)
		if err != nil {
			return err
		}
		if described {
			continue
		}
		if err := x.Extract(ctx, obj, level-1); err != nil {
			return err
		}
	}
	return nil
}

// describes reports whether the sink holds any statement about n.
func (x *Extractor) describes(ctx context.Context, n rdf.Node) (bool, error) {
	st, err := x.sink.FindTriples(ctx, rdf.NewTriple(n, nil, nil))
	if err != nil {
		return false, err
	}
	defer st.Close()
	return !st.End(), nil
}

// Extract is shorthand for NewExtractor(eng, source, sink).Extract(ctx,
// root, level).
func Extract(ctx context.Context, eng *query.Engine, source string, root rdf.Node, level int, sink Sink) error {
	return NewExtractor(eng, source, sink).Extract(ctx, root, level)
}
