// Package rdfio reads and writes N-Quads using the cayley quad codecs,
// converting through the bridge so that files and queries share one value
// mapping.
package rdfio

import (
	"errors"
	"fmt"
	"io"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"

	"github.com/roach88/rdfq/internal/bridge"
	"github.com/roach88/rdfq/internal/rdf"
)

// ReadQuads parses N-Quads (or N-Triples) from r. Statements without a
// graph label get graph; pass nil to keep them in the default graph. A
// non-nil graph also overrides explicit labels.
func ReadQuads(r io.Reader, graph rdf.Node) ([]rdf.Quad, error) {
	qr := nquads.NewReader(r, true)
	defer qr.Close()

	var out []rdf.Quad
	for line := 1; ; line++ {
		q, err := qr.ReadQuad()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", line, err)
		}

		rq, err := fromQuad(q)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", line, err)
		}
		if graph != nil {
			rq.Context = graph
		}
		out = append(out, rq)
	}
}

func fromQuad(q quad.Quad) (rdf.Quad, error) {
	var nodes [4]rdf.Node
	for i, v := range []quad.Value{q.Subject, q.Predicate, q.Object, q.Label} {
		n, err := bridge.ToStoreNode(v)
		if err != nil {
			return rdf.Quad{}, err
		}
		nodes[i] = n
	}
	rq := rdf.Quad{
		Triple:  rdf.NewTriple(nodes[0], nodes[1], nodes[2]),
		Context: nodes[3],
	}
	if err := rdf.ValidateTriple(rq.Triple); err != nil {
		return rdf.Quad{}, err
	}
	return rq, nil
}

// Writer serializes statements as N-Quads.
type Writer struct {
	w     *nquads.Writer
	count int
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: nquads.NewWriter(w)}
}

// WriteQuad writes one statement. A nil context writes a triple line.
func (w *Writer) WriteQuad(q rdf.Quad) error {
	var vals [4]quad.Value
	for i, n := range []rdf.Node{q.Subject, q.Predicate, q.Object, q.Context} {
		v, err := bridge.ToQueryLiteral(n)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	if err := w.w.WriteQuad(quad.Quad{Subject: vals[0], Predicate: vals[1], Object: vals[2], Label: vals[3]}); err != nil {
		return fmt.Errorf("write %s: %w", q.Triple, err)
	}
	w.count++
	return nil
}

// WriteStream drains st, writing every triple in graph, and closes it.
func (w *Writer) WriteStream(st rdf.Stream, graph rdf.Node) error {
	defer st.Close()
	for !st.End() {
		if err := w.WriteQuad(rdf.Quad{Triple: st.Triple(), Context: graph}); err != nil {
			return err
		}
		if err := st.Next(); err != nil {
			return err
		}
	}
	return st.Close()
}

// Count returns the number of statements written.
func (w *Writer) Count() int {
	return w.count
}

// Close flushes the underlying writer.
func (w *Writer) Close() error {
	return w.w.Close()
}
