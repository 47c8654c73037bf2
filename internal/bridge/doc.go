// Package bridge connects the query evaluator to a graph store.
//
// The evaluator speaks in patterns of variables and quad.Value constants;
// the store speaks in rdf.Node triples with nil wildcards. A Source turns
// each pattern into a store lookup and hands back a Match, which walks the
// resulting stream one candidate at a time and decides, per candidate,
// whether the pattern's variables can be bound consistently.
//
// Consistency matters when a pattern names the same variable more than
// once. For ?x <p> ?x, a candidate is accepted only when its subject and
// object are the same node. Repeats are always compared with the first
// occurrence of the variable in the pattern, so ?x ?x ?x requires all three
// positions to agree. Slots whose value was fixed when the lookup was made
// (a constant or a variable already bound by an outer pattern) are checked
// again against every candidate.
//
// Hosts register a store with an engine explicitly:
//
//	eng := query.NewEngine()
//	if err := bridge.Register(eng, "main", st); err != nil {
//	    ...
//	}
//	res, err := eng.Execute(ctx, "main", q)
//
// Value conversion in both directions goes through ToQueryLiteral and
// ToStoreNode.
package bridge
