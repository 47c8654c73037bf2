// Package rdf provides the graph store's node and triple types.
//
// This package contains value types only. The store, the bridge and the CLI
// all import rdf; rdf imports nothing internal.
//
// Key design constraints:
//   - Node is sealed: Resource, Literal and Blank are the only kinds
//   - Nodes are immutable values, compared structurally with Equal
//   - An empty Literal.Language or Literal.Datatype means "absent"
//   - A nil Node inside a Triple is a wildcard (store lookups only)
package rdf
