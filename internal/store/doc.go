// Package store provides SQLite-backed persistent storage for RDF statements.
//
// The store keeps two tables:
//   - terms: a dictionary interning every node once (kind, lexical value,
//     optional language tag, optional datatype) under a unique key
//   - quads: statements as (subject, predicate, object, context) term ids
//
// The store implements the graph lookups the query bridge needs:
// FindTriples returns a lazy, forward-only Stream over a *sql.Rows cursor and
// ContainsTriple is an EXISTS probe that allocates no stream. InContext
// returns a Graph restricted to one named graph.
//
// # Critical Patterns
//
// Deterministic results:
//   - Every lookup orders by (subject, predicate, object) term id
//   - Term ids are assigned in insertion order, so reloading the same
//     N-Quads file reproduces the same scan order
//
// Absent vs empty:
//   - A missing language tag or datatype is stored as NULL, never ''
//
// Streams own a connection:
//   - Each open Stream pins one pooled connection until Close
//   - Nested-loop evaluation holds one Stream per pattern; the pool is
//     uncapped so any join depth can proceed (WithIdleConns only sizes the
//     set of connections kept between lookups)
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes (file databases)
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
