// Package query provides a small basic-graph-pattern evaluator that matches
// triple patterns through a pluggable triples source.
//
// ARCHITECTURE:
//
// The evaluator owns variables, patterns and the join; it never touches a
// store. Storage is reached only through a TriplesSource obtained from a
// SourceFactory that the host registers explicitly on an Engine:
//
//	[Query] → [Engine.Execute] → [TriplesSource] → [store]
//	                               NewMatch / TriplePresent
//
// There is no package-level registry: every Engine starts empty and the
// host calls RegisterSource once per source it wants to expose.
//
// VARIABLES:
//
// A Variable is identified by its VarID, a small integer handle assigned by
// the Query. Two pattern slots naming the same VarID are aliased (?x P ?x).
// Sources must compare variables by ID, never by pointer.
//
// A Variable may hold a current value (quad.Value). Values are assigned by
// TriplesMatch.Bind when a candidate is accepted and cleared by the
// evaluator when the pattern that bound them is exhausted.
//
// EVALUATION:
//
// Patterns are joined with a nested loop in declaration order (no
// reordering). For each pattern:
//   - no variable slots: TriplePresent decides whether to continue
//   - otherwise: NewMatch, then repeatedly Bind/Next until IsEnd
//
// Every match is closed on every exit path, including Limit cut-offs and
// errors. An error from a source aborts the current evaluation only and is
// returned as an *EvalError.
//
// QUERY FILES:
//
// Queries can be written as YAML (see Spec). Terms are structured maps, not
// text syntax:
//
//	select: [x]
//	where:
//	  - [{var: x}, {iri: "http://example/P"}, {var: x}]
package query
