package query

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/cayleygraph/quad"
	"gopkg.in/yaml.v3"
)

// FileSpec is the YAML form of a query.
//
//	select: [s, name]
//	distinct: true
//	limit: 10
//	where:
//	  - [{var: s}, {iri: "http://xmlns.com/foaf/0.1/name"}, {var: name}]
type FileSpec struct {
	Select   []string     `yaml:"select,omitempty"`
	Distinct bool         `yaml:"distinct,omitempty"`
	Limit    int          `yaml:"limit,omitempty"`
	Where    [][]TermSpec `yaml:"where"`
}

// TermSpec is one pattern slot. Exactly one of the kind keys must be set;
// lang and datatype qualify literal.
type TermSpec struct {
	Var      *string `yaml:"var,omitempty"`
	IRI      *string `yaml:"iri,omitempty"`
	Literal  *string `yaml:"literal,omitempty"`
	Lang     *string `yaml:"lang,omitempty"`
	Datatype *string `yaml:"datatype,omitempty"`
	Blank    *string `yaml:"blank,omitempty"`
	Int      *int64  `yaml:"int,omitempty"`
	Bool     *bool   `yaml:"bool,omitempty"`
}

// LoadFile reads and builds a query from a YAML file.
func LoadFile(path string) (*Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query file: %w", err)
	}
	q, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// Parse builds a query from YAML. Unknown keys are rejected.
func Parse(data []byte) (*Query, error) {
	var spec FileSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return spec.Build()
}

// Build converts the spec into a validated Query.
func (s FileSpec) Build() (*Query, error) {
	q := New()
	q.Select = s.Select
	q.Distinct = s.Distinct
	q.Limit = s.Limit

	for i, row := range s.Where {
		if len(row) != 3 {
			return nil, fmt.Errorf("pattern %d: expected 3 terms, got %d", i, len(row))
		}
		var terms [3]Term
		for j, ts := range row {
			t, err := ts.build(q)
			if err != nil {
				return nil, fmt.Errorf("pattern %d term %d: %w", i, j, err)
			}
			terms[j] = t
		}
		q.Where(terms[0], terms[1], terms[2])
	}

	if err := Validate(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (ts TermSpec) build(q *Query) (Term, error) {
	kinds := 0
	for _, set := range []bool{ts.Var != nil, ts.IRI != nil, ts.Literal != nil, ts.Blank != nil, ts.Int != nil, ts.Bool != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return Term{}, errors.New("exactly one of var, iri, literal, blank, int, bool is required")
	}
	if ts.Literal == nil && (ts.Lang != nil || ts.Datatype != nil) {
		return Term{}, errors.New("lang and datatype apply to literal only")
	}

	switch {
	case ts.Var != nil:
		if *ts.Var == "" {
			return Term{}, errors.New("empty variable name")
		}
		return V(q.Var(*ts.Var)), nil
	case ts.IRI != nil:
		return IRI(*ts.IRI), nil
	case ts.Blank != nil:
		return Blank(*ts.Blank), nil
	case ts.Int != nil:
		return C(quad.Int(*ts.Int)), nil
	case ts.Bool != nil:
		return C(quad.Bool(*ts.Bool)), nil
	}

	switch {
	case ts.Lang != nil && ts.Datatype != nil:
		return Term{}, errors.New("literal cannot have both lang and datatype")
	case ts.Lang != nil:
		return LangLit(*ts.Literal, *ts.Lang), nil
	case ts.Datatype != nil:
		return TypedLit(*ts.Literal, *ts.Datatype), nil
	default:
		return Lit(*ts.Literal), nil
	}
}
