package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/rdfq/internal/rdf"
)

// queryer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	queryer
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// lookupTerm returns the id of an already interned node.
// ok is false when the node has never been stored; such a node cannot match
// any statement.
func (s *Store) lookupTerm(ctx context.Context, q queryer, n rdf.Node) (id int64, ok bool, err error) {
	key := rdf.Key(n)
	if id, ok := s.terms.Get(key); ok {
		return id, true, nil
	}

	err = q.QueryRowContext(ctx, `SELECT id FROM terms WHERE key = ?`, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup term %s: %w", n, err)
	}

	s.terms.Add(key, id)
	return id, true, nil
}

// internTerm returns the id for a node, inserting it into the dictionary if
// needed. Uses ON CONFLICT(key) DO NOTHING for idempotency.
//
// Newly assigned ids are reported through fresh instead of being cached
// directly: the enclosing transaction may still roll back.
func (s *Store) internTerm(ctx context.Context, tx execer, n rdf.Node, fresh map[string]int64) (int64, error) {
	key := rdf.Key(n)
	if id, ok := fresh[key]; ok {
		return id, nil
	}
	if id, ok := s.terms.Get(key); ok {
		return id, nil
	}

	kind, value, lang, datatype := termColumns(n)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO terms (key, kind, value, language, datatype)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`, key, int(kind), value, lang, datatype); err != nil {
		return 0, fmt.Errorf("intern term %s: %w", n, err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM terms WHERE key = ?`, key).Scan(&id); err != nil {
		return 0, fmt.Errorf("intern term %s: %w", n, err)
	}
	fresh[key] = id
	return id, nil
}

// termColumns splits a node into its terms-table columns.
// Absent language and datatype become NULL.
func termColumns(n rdf.Node) (kind rdf.Kind, value string, lang, datatype sql.NullString) {
	switch v := n.(type) {
	case rdf.Resource:
		return rdf.KindResource, v.URI, lang, datatype
	case rdf.Blank:
		return rdf.KindBlank, v.ID, lang, datatype
	case rdf.Literal:
		if v.Language != "" {
			lang = sql.NullString{String: v.Language, Valid: true}
		}
		if v.Datatype != "" {
			datatype = sql.NullString{String: v.Datatype, Valid: true}
		}
		return rdf.KindLiteral, v.Value, lang, datatype
	}
	return 0, "", lang, datatype
}

// decodeTerm rebuilds a node from its terms-table columns.
func decodeTerm(kind int, value string, lang, datatype sql.NullString) (rdf.Node, error) {
	switch rdf.Kind(kind) {
	case rdf.KindResource:
		return rdf.Resource{URI: value}, nil
	case rdf.KindBlank:
		return rdf.Blank{ID: value}, nil
	case rdf.KindLiteral:
		return rdf.Literal{Value: value, Language: lang.String, Datatype: datatype.String}, nil
	default:
		return nil, fmt.Errorf("corrupt term: unknown kind %d", kind)
	}
}
