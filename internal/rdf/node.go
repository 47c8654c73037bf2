package rdf

import (
	"strconv"
	"strings"
)

// Kind identifies one of the three node kinds.
// The numeric values are persisted by the store and must not change.
type Kind int

const (
	KindResource Kind = 1
	KindLiteral  Kind = 2
	KindBlank    Kind = 3
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindLiteral:
		return "literal"
	case KindBlank:
		return "blank"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is a sealed interface over the store's node kinds.
// Only Resource, Literal and Blank implement it.
type Node interface {
	Kind() Kind
	String() string
	rdfNode() // Sealed
}

// Resource is a node named by a URI.
type Resource struct {
	URI string
}

func (Resource) rdfNode() {}

// Kind implements Node.
func (Resource) Kind() Kind { return KindResource }

// String renders the resource in N-Triples form.
func (r Resource) String() string { return "<" + r.URI + ">" }

// Literal is a lexical value with an optional language tag or datatype URI.
//
// Empty Language and Datatype mean absent. RDF forbids a literal carrying
// both (a language-tagged string is implicitly rdf:langString); Validate
// rejects that combination.
type Literal struct {
	Value    string
	Language string
	Datatype string
}

func (Literal) rdfNode() {}

// Kind implements Node.
func (Literal) Kind() Kind { return KindLiteral }

// String renders the literal in N-Triples form.
func (l Literal) String() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(l.Value))
	if l.Language != "" {
		b.WriteByte('@')
		b.WriteString(l.Language)
	}
	if l.Datatype != "" {
		b.WriteString("^^<")
		b.WriteString(l.Datatype)
		b.WriteByte('>')
	}
	return b.String()
}

// Blank is an anonymous node with a store-local identifier.
type Blank struct {
	ID string
}

func (Blank) rdfNode() {}

// Kind implements Node.
func (Blank) Kind() Kind { return KindBlank }

// String renders the blank node in N-Triples form.
func (b Blank) String() string { return "_:" + b.ID }

// NewResource creates a Resource node.
func NewResource(uri string) Resource {
	return Resource{URI: uri}
}

// NewLiteral creates a plain literal with neither language nor datatype.
func NewLiteral(value string) Literal {
	return Literal{Value: value}
}

// NewLangLiteral creates a language-tagged literal.
func NewLangLiteral(value, lang string) Literal {
	return Literal{Value: value, Language: lang}
}

// NewTypedLiteral creates a literal with a datatype URI.
func NewTypedLiteral(value, datatype string) Literal {
	return Literal{Value: value, Datatype: datatype}
}

// NewBlank creates a blank node.
func NewBlank(id string) Blank {
	return Blank{ID: id}
}

// Equal reports whether two nodes are structurally identical: same kind and
// same URI, identifier, or lexical value, language tag and datatype.
// Two nil nodes are equal; nil never equals a non-nil node.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Resource:
		y, ok := b.(Resource)
		return ok && x.URI == y.URI
	case Literal:
		y, ok := b.(Literal)
		return ok && x == y
	case Blank:
		y, ok := b.(Blank)
		return ok && x.ID == y.ID
	default:
		return false
	}
}

// Key returns a string that identifies the node uniquely and unambiguously.
// The store uses it as the term dictionary key.
//
// Each variable-length field is length-prefixed so that, for example, a
// language tag can never be confused with the start of a lexical value.
func Key(n Node) string {
	switch v := n.(type) {
	case Resource:
		return "U" + v.URI
	case Blank:
		return "B" + v.ID
	case Literal:
		var b strings.Builder
		b.Grow(len(v.Value) + len(v.Language) + len(v.Datatype) + 8)
		b.WriteByte('L')
		b.WriteString(strconv.Itoa(len(v.Language)))
		b.WriteByte(':')
		b.WriteString(v.Language)
		b.WriteString(strconv.Itoa(len(v.Datatype)))
		b.WriteByte(':')
		b.WriteString(v.Datatype)
		b.WriteString(v.Value)
		return b.String()
	default:
		return ""
	}
}
