package store

import (
	"context"
	"fmt"

	"github.com/roach88/rdfq/internal/rdf"
)

// Add stores a single triple in the given context (nil = default graph).
// Adding a statement that already exists is a no-op.
func (s *Store) Add(ctx context.Context, t rdf.Triple, graph rdf.Node) error {
	return s.AddQuads(ctx, []rdf.Quad{{Triple: t, Context: graph}})
}

// AddQuads stores statements in a single transaction.
// Uses ON CONFLICT DO NOTHING for idempotency - duplicate statements are
// silently ignored. Every statement is validated first; if any is invalid
// nothing is written.
func (s *Store) AddQuads(ctx context.Context, quads []rdf.Quad) error {
	for i, q := range quads {
		if err := rdf.ValidateTriple(q.Triple); err != nil {
			return fmt.Errorf("add statement %d: %w", i, err)
		}
		if q.Context != nil {
			if err := rdf.Validate(q.Context); err != nil {
				return fmt.Errorf("add statement %d: context: %w", i, err)
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add statements: begin: %w", err)
	}
	defer tx.Rollback()

	fresh := make(map[string]int64)
	for i, q := range quads {
		var ids [4]int64
		for j, n := range q.Nodes() {
			id, err := s.internTerm(ctx, tx, n, fresh)
			if err != nil {
				return fmt.Errorf("add statement %d: %w", i, err)
			}
			ids[j] = id
		}
		if q.Context != nil {
			id, err := s.internTerm(ctx, tx, q.Context, fresh)
			if err != nil {
				return fmt.Errorf("add statement %d: %w", i, err)
			}
			ids[3] = id
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO quads (subject, predicate, object, context)
			VALUES (?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, ids[0], ids[1], ids[2], ids[3]); err != nil {
			return fmt.Errorf("add statement %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("add statements: commit: %w", err)
	}

	for key, id := range fresh {
		s.terms.Add(key, id)
	}
	return nil
}

// Remove deletes a statement from the given context (nil = default graph).
// Returns false if the statement was not present. Terms stay interned.
func (s *Store) Remove(ctx context.Context, t rdf.Triple, graph rdf.Node) (bool, error) {
	if !t.IsConcrete() {
		return false, fmt.Errorf("remove statement: wildcard in %s", t)
	}

	var ids [4]int64
	for i, n := range t.Nodes() {
		id, ok, err := s.lookupTerm(ctx, s.db, n)
		if err != nil {
			return false, fmt.Errorf("remove statement: %w", err)
		}
		if !ok {
			return false, nil
		}
		ids[i] = id
	}
	if graph != nil {
		id, ok, err := s.lookupTerm(ctx, s.db, graph)
		if err != nil {
			return false, fmt.Errorf("remove statement: %w", err)
		}
		if !ok {
			return false, nil
		}
		ids[3] = id
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM quads
		WHERE subject = ? AND predicate = ? AND object = ? AND context = ?
	`, ids[0], ids[1], ids[2], ids[3])
	if err != nil {
		return false, fmt.Errorf("remove statement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove statement: %w", err)
	}
	return n > 0, nil
}
