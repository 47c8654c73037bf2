package query

import (
	"github.com/cayleygraph/quad"
)

// Results holds the rows of one evaluation.
type Results struct {
	// EvalID identifies the evaluation that produced the rows.
	EvalID string

	// Vars are the projected variable names, in column order.
	Vars []string

	// Rows hold one value per column; nil for a variable left unbound.
	Rows [][]quad.Value
}

func newResults(id string, q *Query) *Results {
	return &Results{
		EvalID: id,
		Vars:   append([]string(nil), q.projection()...),
		Rows:   [][]quad.Value{},
	}
}

// Len returns the number of rows.
func (r *Results) Len() int {
	return len(r.Rows)
}

// Get returns the value of the named column in row i, or nil.
func (r *Results) Get(i int, name string) quad.Value {
	if i < 0 || i >= len(r.Rows) {
		return nil
	}
	for j, n := range r.Vars {
		if n == name {
			return r.Rows[i][j]
		}
	}
	return nil
}

// Strings renders every row with FormatValue.
func (r *Results) Strings() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = FormatValue(v)
		}
	}
	return out
}

// FormatValue renders a value in N-Quads term syntax, or "" for nil.
func FormatValue(v quad.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
