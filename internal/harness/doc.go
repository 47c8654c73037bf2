// Package harness runs YAML query scenarios against a fresh store.
//
// # Scenario Format
//
//	name: repeated_variable
//	description: "?x knows ?x only matches self-loops"
//	data: |
//	  <http://example/a> <http://example/knows> <http://example/a> .
//	  <http://example/a> <http://example/knows> <http://example/b> .
//	queries:
//	  - name: self_loops
//	    query:
//	      where:
//	        - [{var: x}, {iri: "http://example/knows"}, {var: x}]
//	    expect:
//	      rows:
//	        - ["<http://example/a>"]
//	assertions:
//	  - type: store_size
//	    count: 2
//	  - type: contains
//	    statement: "<http://example/a> <http://example/knows> <http://example/b> ."
//	  - type: tree
//	    root: "http://example/a"
//	    level: 1
//	    count: 2
//
// Rows are written in N-Quads term syntax; an empty string stands for an
// unbound variable. Row order is ignored unless the query sets ordered: true.
// A query may instead expect an error code (INVALID_USAGE, PROTOCOL_ERROR,
// INVALID_QUERY).
//
// # Assertion Types
//
//   - store_size: the store holds exactly count statements
//   - contains: the store holds the given N-Triples statement
//   - tree: extracting from root to level yields count statements
//
// # Deterministic Output
//
// Every scenario runs in its own in-memory SQLite database with evaluation
// IDs from a fixed generator, so repeated runs produce byte-identical
// snapshots for golden comparison.
package harness
