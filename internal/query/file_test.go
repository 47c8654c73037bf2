package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `
select: [s, label]
distinct: true
limit: 3
where:
  - [{var: s}, {iri: "http://www.w3.org/2000/01/rdf-schema#label"}, {var: label}]
  - [{var: s}, {iri: "http://example.org/lang"}, {literal: "chat", lang: fr}]
  - [{var: s}, {iri: "http://example.org/age"}, {literal: "7", datatype: "http://www.w3.org/2001/XMLSchema#integer"}]
  - [{blank: b1}, {iri: "http://example.org/n"}, {int: 42}]
  - [{var: s}, {iri: "http://example.org/ok"}, {bool: true}]
`
	q, err := Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"s", "label"}, q.Select)
	assert.True(t, q.Distinct)
	assert.Equal(t, 3, q.Limit)
	require.Len(t, q.Patterns, 5)

	s := q.Lookup("s")
	require.NotNil(t, s)
	assert.Same(t, s, q.Patterns[1].Subject.Variable())

	assert.Equal(t, quad.LangString{Value: "chat", Lang: "fr"}, q.Patterns[1].Object.Value())
	assert.Equal(t, quad.TypedString{Value: "7", Type: "http://www.w3.org/2001/XMLSchema#integer"}, q.Patterns[2].Object.Value())
	assert.Equal(t, quad.BNode("b1"), q.Patterns[3].Subject.Value())
	assert.Equal(t, quad.Int(42), q.Patterns[3].Object.Value())
	assert.Equal(t, quad.Bool(true), q.Patterns[4].Object.Value())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"two terms", `where: [[{var: s}, {iri: "http://p"}]]`, "expected 3 terms"},
		{"two kinds", `where: [[{var: s, iri: "http://x"}, {iri: "http://p"}, {var: o}]]`, "exactly one of"},
		{"no kind", `where: [[{}, {iri: "http://p"}, {var: o}]]`, "exactly one of"},
		{"lang on iri", `where: [[{var: s}, {iri: "http://p", lang: en}, {var: o}]]`, "literal only"},
		{"lang and datatype", `where: [[{var: s}, {iri: "http://p"}, {literal: x, lang: en, datatype: "http://t"}]]`, "both lang and datatype"},
		{"empty var", `where: [[{var: ""}, {iri: "http://p"}, {var: o}]]`, "empty variable"},
		{"unknown key", `where: [[{variable: s}, {iri: "http://p"}, {var: o}]]`, "parse query"},
		{"no patterns", `select: [s]`, "no patterns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`where: [[{var: s}, {iri: "http://p"}, {var: o}]]`), 0o644))

	q, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, q.Patterns, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
