package store

import (
	"database/sql"
	"fmt"

	"github.com/roach88/rdfq/internal/rdf"
)

// rowStream is an rdf.Stream over the rows of a find query.
//
// The cursor reads one row ahead: after construction and after every Next,
// cur holds the current triple or end is true. The rows are closed as soon
// as the end is reached; Close releases them on early abandonment.
type rowStream struct {
	store  *Store
	rows   *sql.Rows
	cur    rdf.Triple
	end    bool
	closed bool
}

// newStream wraps rows (nil for an empty result) and positions the stream on
// its first triple. On error the rows are already released.
func (s *Store) newStream(rows *sql.Rows) (*rowStream, error) {
	st := &rowStream{store: s, rows: rows}
	s.openStreams.Add(1)
	if rows == nil {
		st.end = true
		return st, nil
	}
	if err := st.Next(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// End implements rdf.Stream.
func (st *rowStream) End() bool {
	return st.end
}

// Triple implements rdf.Stream.
func (st *rowStream) Triple() rdf.Triple {
	return st.cur
}

// Next implements rdf.Stream.
func (st *rowStream) Next() error {
	if st.end {
		return nil
	}

	if !st.rows.Next() {
		st.end = true
		st.cur = rdf.Triple{}
		err := st.rows.Err()
		if cerr := st.rows.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("iterate triples: %w", err)
		}
		return nil
	}

	t, err := scanTriple(st.rows)
	if err != nil {
		st.end = true
		st.cur = rdf.Triple{}
		st.rows.Close()
		return err
	}
	st.cur = t
	return nil
}

// Close implements rdf.Stream. Only the first call releases anything.
func (st *rowStream) Close() error {
	if st.closed {
		return nil
	}
	st.closed = true
	st.end = true
	st.cur = rdf.Triple{}
	st.store.openStreams.Add(-1)
	if st.rows == nil {
		return nil
	}
	return st.rows.Close()
}

// scanTriple decodes one row produced by lookup.findSQL.
func scanTriple(rows *sql.Rows) (rdf.Triple, error) {
	var (
		ids    [3]int64
		kinds  [3]int
		values [3]string
		langs  [3]sql.NullString
		dts    [3]sql.NullString
	)
	if err := rows.Scan(
		&ids[0], &ids[1], &ids[2],
		&kinds[0], &values[0], &langs[0], &dts[0],
		&kinds[1], &values[1], &langs[1], &dts[1],
		&kinds[2], &values[2], &langs[2], &dts[2],
	); err != nil {
		return rdf.Triple{}, fmt.Errorf("scan triple: %w", err)
	}

	var nodes [3]rdf.Node
	for i := range nodes {
		n, err := decodeTerm(kinds[i], values[i], langs[i], dts[i])
		if err != nil {
			return rdf.Triple{}, fmt.Errorf("scan triple: term %d: %w", ids[i], err)
		}
		nodes[i] = n
	}
	return rdf.NewTriple(nodes[0], nodes[1], nodes[2]), nil
}
