package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/roach88/rdfq/internal/rdf"
)

// Graph is a view of the store restricted to one context (named graph).
// A Graph with a nil context covers the default graph only.
type Graph struct {
	store   *Store
	context rdf.Node
}

// InContext returns a view of the statements stored in the given context.
func (s *Store) InContext(graph rdf.Node) *Graph {
	return &Graph{store: s, context: graph}
}

// Context returns the context node of the view (nil for the default graph).
func (g *Graph) Context() rdf.Node {
	return g.context
}

// FindTriples returns a stream over the statements in this context that
// match the pattern. Nil positions are wildcards.
func (g *Graph) FindTriples(ctx context.Context, pattern rdf.Triple) (rdf.Stream, error) {
	return g.store.find(ctx, pattern, true, g.context)
}

// ContainsTriple reports whether the concrete triple is stored in this
// context.
func (g *Graph) ContainsTriple(ctx context.Context, t rdf.Triple) (bool, error) {
	return g.store.contains(ctx, t, true, g.context)
}

// Add stores a triple in this context.
func (g *Graph) Add(ctx context.Context, t rdf.Triple) error {
	return g.store.Add(ctx, t, g.context)
}

// FindTriples returns a stream over the statements matching the pattern in
// any context. Nil positions are wildcards. A triple held in several
// contexts is returned once.
//
// The stream holds a pooled connection until it is closed.
func (s *Store) FindTriples(ctx context.Context, pattern rdf.Triple) (rdf.Stream, error) {
	return s.find(ctx, pattern, false, nil)
}

// ContainsTriple reports whether the concrete triple is stored in any
// context. It allocates no stream.
func (s *Store) ContainsTriple(ctx context.Context, t rdf.Triple) (bool, error) {
	return s.contains(ctx, t, false, nil)
}

// resolve maps a pattern to term ids. ok is false when some concrete node
// was never stored, in which case nothing can match.
func (s *Store) resolve(ctx context.Context, pattern rdf.Triple, scoped bool, graph rdf.Node) (l lookup, ok bool, err error) {
	l.scoped = scoped
	for i, n := range pattern.Nodes() {
		if n == nil {
			continue
		}
		id, found, err := s.lookupTerm(ctx, s.db, n)
		if err != nil || !found {
			return l, false, err
		}
		l.ids[i] = id
	}
	if scoped && graph != nil {
		id, found, err := s.lookupTerm(ctx, s.db, graph)
		if err != nil || !found {
			return l, false, err
		}
		l.context = id
	}
	return l, true, nil
}

func (s *Store) find(ctx context.Context, pattern rdf.Triple, scoped bool, graph rdf.Node) (rdf.Stream, error) {
	l, ok, err := s.resolve(ctx, pattern, scoped, graph)
	if err != nil {
		return nil, fmt.Errorf("find triples %s: %w", pattern, err)
	}
	if !ok {
		slog.Debug("find triples: unknown term, empty result", "pattern", pattern.String())
		return s.newStream(nil)
	}

	query, params := l.findSQL()
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("find triples %s: %w", pattern, err)
	}

	st, err := s.newStream(rows)
	if err != nil {
		return nil, fmt.Errorf("find triples %s: %w", pattern, err)
	}
	return st, nil
}

func (s *Store) contains(ctx context.Context, t rdf.Triple, scoped bool, graph rdf.Node) (bool, error) {
	if !t.IsConcrete() {
		return false, fmt.Errorf("contains triple: wildcard in %s", t)
	}

	l, ok, err := s.resolve(ctx, t, scoped, graph)
	if err != nil {
		return false, fmt.Errorf("contains triple %s: %w", t, err)
	}
	if !ok {
		return false, nil
	}

	query, params := l.existsSQL()
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&exists); err != nil {
		return false, fmt.Errorf("contains triple %s: %w", t, err)
	}
	return exists, nil
}

// Size returns the number of stored statements across all contexts.
func (s *Store) Size(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count statements: %w", err)
	}
	return n, nil
}

// Contexts returns every named graph holding at least one statement,
// ordered by first insertion.
//
// Returns an empty slice (not nil) if there are none.
func (s *Store) Contexts(ctx context.Context) ([]rdf.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.kind, t.value, t.language, t.datatype
		FROM terms t
		WHERE t.id IN (SELECT DISTINCT context FROM quads WHERE context != 0)
		ORDER BY t.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query contexts: %w", err)
	}
	defer rows.Close()

	contexts := []rdf.Node{}
	for rows.Next() {
		var (
			kind           int
			value          string
			lang, datatype sql.NullString
		)
		if err := rows.Scan(&kind, &value, &lang, &datatype); err != nil {
			return nil, fmt.Errorf("scan context: %w", err)
		}
		n, err := decodeTerm(kind, value, lang, datatype)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contexts: %w", err)
	}
	return contexts, nil
}
