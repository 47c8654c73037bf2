package rdf

// Stream is a lazy, forward-only sequence of triples.
//
// A new Stream is positioned on its first triple (or already at its end).
// Usage:
//
//	for !st.End() {
//	    t := st.Triple()
//	    ...
//	    if err := st.Next(); err != nil {
//	        ...
//	    }
//	}
//	st.Close()
//
// The holder owns the stream and must Close it on every path, including
// abandoning it before the end. Close is idempotent.
type Stream interface {
	// End reports whether the stream has no current triple.
	End() bool

	// Triple returns the current triple. Only valid while End is false.
	Triple() Triple

	// Next moves to the following triple. After the last one End becomes
	// true. Calling Next at the end is a no-op.
	Next() error

	// Close releases the stream's resources.
	Close() error
}
