package store

import (
	"strings"
)

// lookup is a triple pattern resolved to term ids.
//
// CRITICAL: ALL lookups ORDER BY (subject, predicate, object) for
// deterministic scans.
// CRITICAL: All ids are parameterized (never interpolated).
type lookup struct {
	ids     [3]int64 // 0 = wildcard
	context int64    // 0 = default graph; only used when scoped
	scoped  bool     // restrict to one context
}

var positionColumns = [3]string{"q.subject", "q.predicate", "q.object"}

// where builds the WHERE clause and its parameters.
func (l lookup) where() (string, []any) {
	var conds []string
	var params []any
	for i, id := range l.ids {
		if id == 0 {
			continue
		}
		conds = append(conds, positionColumns[i]+" = ?")
		params = append(params, id)
	}
	if l.scoped {
		conds = append(conds, "q.context = ?")
		params = append(params, l.context)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), params
}

// findSQL compiles the lookup to a query returning every matching triple
// with its three terms decoded in the same row.
//
// Unscoped lookups span all contexts, so the same triple stored in two
// graphs is returned once (DISTINCT).
func (l lookup) findSQL() (string, []any) {
	where, params := l.where()

	var b strings.Builder
	b.WriteString("SELECT ")
	if !l.scoped {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(`q.subject, q.predicate, q.object,
		s.kind, s.value, s.language, s.datatype,
		p.kind, p.value, p.language, p.datatype,
		o.kind, o.value, o.language, o.datatype
		FROM quads q
		JOIN terms s ON s.id = q.subject
		JOIN terms p ON p.id = q.predicate
		JOIN terms o ON o.id = q.object`)
	b.WriteString(where)
	b.WriteString(" ORDER BY q.subject ASC, q.predicate ASC, q.object ASC")
	return b.String(), params
}

// existsSQL compiles the lookup to a single-row EXISTS probe.
func (l lookup) existsSQL() (string, []any) {
	where, params := l.where()
	return "SELECT EXISTS (SELECT 1 FROM quads q" + where + ")", params
}
