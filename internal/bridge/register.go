package bridge

import (
	"context"

	"github.com/roach88/rdfq/internal/query"
)

// Register makes store available to eng under name. Each evaluation gets
// its own Source bound to the evaluation's context.
func Register(eng *query.Engine, name string, store GraphStore) error {
	return eng.RegisterSource(name, func(ctx context.Context, q *query.Query) (query.TriplesSource, error) {
		return NewSource(ctx, store), nil
	})
}
