package rdf

import (
	"fmt"

	"golang.org/x/text/language"
)

// ValidationError reports a node or triple that the store cannot hold.
type ValidationError struct {
	Position string // "subject", "predicate", "object", "context" or "" for a bare node
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Position != "" {
		return fmt.Sprintf("invalid %s: %s", e.Position, e.Message)
	}
	return "invalid node: " + e.Message
}

// Validate checks that a node is well formed.
//
// Rules:
//   - Resource URIs and blank identifiers are non-empty
//   - A literal has at most one of language tag and datatype
//   - A language tag is well-formed BCP 47
func Validate(n Node) error {
	return validateNode("", n)
}

// ValidateTriple checks a concrete triple for storage: every position is
// present and valid, the subject is a resource or blank node, and the
// predicate is a resource.
func ValidateTriple(t Triple) error {
	if err := validateNode("subject", t.Subject); err != nil {
		return err
	}
	if t.Subject.Kind() == KindLiteral {
		return &ValidationError{Position: "subject", Message: "literal not allowed"}
	}
	if err := validateNode("predicate", t.Predicate); err != nil {
		return err
	}
	if t.Predicate.Kind() != KindResource {
		return &ValidationError{Position: "predicate", Message: "must be a resource"}
	}
	return validateNode("object", t.Object)
}

func validateNode(pos string, n Node) error {
	switch v := n.(type) {
	case nil:
		return &ValidationError{Position: pos, Message: "missing node"}
	case Resource:
		if v.URI == "" {
			return &ValidationError{Position: pos, Message: "empty resource URI"}
		}
	case Blank:
		if v.ID == "" {
			return &ValidationError{Position: pos, Message: "empty blank node identifier"}
		}
	case Literal:
		if v.Language != "" && v.Datatype != "" {
			return &ValidationError{Position: pos, Message: "literal has both language tag and datatype"}
		}
		if v.Language != "" {
			if _, err := language.Parse(v.Language); err != nil {
				return &ValidationError{Position: pos, Message: fmt.Sprintf("language tag %q: %v", v.Language, err)}
			}
		}
	default:
		return &ValidationError{Position: pos, Message: fmt.Sprintf("unknown node type %T", n)}
	}
	return nil
}
