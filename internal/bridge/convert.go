package bridge

import (
	"strconv"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfq/internal/rdf"
)

// XSD datatypes used for the evaluator's native numeric and boolean values.
const (
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDouble  = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
)

// ToQueryLiteral converts a store node into the evaluator's value.
//
//	Resource          -> quad.IRI
//	Literal           -> quad.String
//	Literal + lang    -> quad.LangString
//	Literal + type    -> quad.TypedString
//	Blank             -> quad.BNode
//
// A nil node converts to nil. A literal carrying both a language tag and a
// datatype is a protocol error.
func ToQueryLiteral(n rdf.Node) (quad.Value, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil
	case rdf.Resource:
		return quad.IRI(n.URI), nil
	case rdf.Blank:
		return quad.BNode(n.ID), nil
	case rdf.Literal:
		switch {
		case n.Language != "" && n.Datatype != "":
			return nil, protocolError("literal %q has both language %q and datatype <%s>", n.Value, n.Language, n.Datatype)
		case n.Language != "":
			return quad.LangString{Value: quad.String(n.Value), Lang: n.Language}, nil
		case n.Datatype != "":
			return quad.TypedString{Value: quad.String(n.Value), Type: quad.IRI(n.Datatype)}, nil
		default:
			return quad.String(n.Value), nil
		}
	default:
		return nil, protocolError("unknown node type %T", n)
	}
}

// ToStoreNode converts an evaluator value into a store node. Every string is
// copied, so the node shares no memory with v.
//
// quad.Int, quad.Float and quad.Bool become literals typed xsd:integer,
// xsd:double and xsd:boolean. Any other value kind, and a language tag or
// datatype that is present but empty, is a protocol error.
func ToStoreNode(v quad.Value) (rdf.Node, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case quad.IRI:
		return rdf.NewResource(strings.Clone(string(v))), nil
	case quad.BNode:
		return rdf.NewBlank(strings.Clone(string(v))), nil
	case quad.String:
		return rdf.NewLiteral(strings.Clone(string(v))), nil
	case quad.LangString:
		if v.Lang == "" {
			return nil, protocolError("language-tagged literal %q has an empty tag", string(v.Value))
		}
		return rdf.NewLangLiteral(strings.Clone(string(v.Value)), strings.Clone(v.Lang)), nil
	case quad.TypedString:
		if v.Type == "" {
			return nil, protocolError("typed literal %q has an empty datatype", string(v.Value))
		}
		return rdf.NewTypedLiteral(strings.Clone(string(v.Value)), strings.Clone(string(v.Type))), nil
	case quad.Int:
		return rdf.NewTypedLiteral(strconv.FormatInt(int64(v), 10), XSDInteger), nil
	case quad.Float:
		return rdf.NewTypedLiteral(strconv.FormatFloat(float64(v), 'E', -1, 64), XSDDouble), nil
	case quad.Bool:
		return rdf.NewTypedLiteral(strconv.FormatBool(bool(v)), XSDBoolean), nil
	default:
		return nil, protocolError("unsupported literal kind %T", v)
	}
}

// toStoreTriple converts the fixed value of each slot. Nil entries stay nil
// and act as wildcards.
func toStoreTriple(vals [3]quad.Value) (rdf.Triple, error) {
	var nodes [3]rdf.Node
	for i, v := range vals {
		n, err := ToStoreNode(v)
		if err != nil {
			return rdf.Triple{}, atSlot(err, i)
		}
		nodes[i] = n
	}
	return rdf.NewTriple(nodes[0], nodes[1], nodes[2]), nil
}
