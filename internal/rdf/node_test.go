package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"

func TestNodeSealed(t *testing.T) {
	var _ Node = Resource{}
	var _ Node = Literal{}
	var _ Node = Blank{}
}

func TestNodeKinds(t *testing.T) {
	assert.Equal(t, KindResource, NewResource("http://example/").Kind())
	assert.Equal(t, KindLiteral, NewLiteral("hi").Kind())
	assert.Equal(t, KindBlank, NewBlank("b0").Kind())
	assert.Equal(t, "literal", KindLiteral.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Node
		want bool
	}{
		{"same resource", NewResource("http://a"), NewResource("http://a"), true},
		{"different resource", NewResource("http://a"), NewResource("http://b"), false},
		{"same plain literal", NewLiteral("x"), NewLiteral("x"), true},
		{"language differs", NewLangLiteral("x", "en"), NewLangLiteral("x", "fr"), false},
		{"language vs plain", NewLangLiteral("x", "en"), NewLiteral("x"), false},
		{"datatype differs", NewTypedLiteral("5", xsdInteger), NewLiteral("5"), false},
		{"same blank", NewBlank("b0"), NewBlank("b0"), true},
		{"blank vs resource with same text", NewBlank("a"), NewResource("a"), false},
		{"resource vs literal with same text", NewResource("x"), NewLiteral("x"), false},
		{"both nil", nil, nil, true},
		{"nil vs node", nil, NewBlank("b0"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestKeyUnambiguous(t *testing.T) {
	nodes := []Node{
		NewResource("x"),
		NewBlank("x"),
		NewLiteral("x"),
		NewLangLiteral("x", "en"),
		NewTypedLiteral("x", "en"),
		NewLiteral("2:enx"),
		NewLangLiteral("", "en"),
		NewTypedLiteral("0:x", "y"),
	}

	seen := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		k := Key(n)
		if prev, dup := seen[k]; dup {
			t.Fatalf("Key collision between %v and %v: %q", prev, n, k)
		}
		seen[k] = n
	}
}

func TestKeyStable(t *testing.T) {
	assert.Equal(t, Key(NewLangLiteral("hi", "en")), Key(Literal{Value: "hi", Language: "en"}))
	assert.Equal(t, "Uhttp://a", Key(NewResource("http://a")))
}

func TestString(t *testing.T) {
	assert.Equal(t, "<http://a>", NewResource("http://a").String())
	assert.Equal(t, `"hi"@en`, NewLangLiteral("hi", "en").String())
	assert.Equal(t, `"5"^^<`+xsdInteger+`>`, NewTypedLiteral("5", xsdInteger).String())
	assert.Equal(t, "_:b0", NewBlank("b0").String())

	tr := NewTriple(NewResource("http://a"), nil, NewLiteral("x"))
	assert.Equal(t, `<http://a> * "x"`, tr.String())
}

func TestTripleIsConcrete(t *testing.T) {
	a := NewResource("http://a")
	assert.True(t, NewTriple(a, a, a).IsConcrete())
	assert.False(t, NewTriple(a, nil, a).IsConcrete())
	assert.True(t, NewTriple(a, a, a).Equal(NewTriple(a, a, a)))
	assert.False(t, NewTriple(a, a, a).Equal(NewTriple(a, a, NewBlank("a"))))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(NewResource("http://a")))
	require.NoError(t, Validate(NewLangLiteral("hi", "en-GB")))
	require.NoError(t, Validate(NewTypedLiteral("5", xsdInteger)))
	require.NoError(t, Validate(NewLiteral("")))

	tests := []struct {
		name string
		node Node
		msg  string
	}{
		{"nil", nil, "missing node"},
		{"empty uri", NewResource(""), "empty resource URI"},
		{"empty blank", NewBlank(""), "empty blank node identifier"},
		{"lang and datatype", Literal{Value: "x", Language: "en", Datatype: xsdInteger}, "both language tag and datatype"},
		{"malformed language", NewLangLiteral("x", "not a tag"), "language tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.node)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)

			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestValidateTriple(t *testing.T) {
	a := NewResource("http://a")
	lit := NewLiteral("x")

	require.NoError(t, ValidateTriple(NewTriple(a, a, lit)))
	require.NoError(t, ValidateTriple(NewTriple(NewBlank("b"), a, NewBlank("c"))))

	err := ValidateTriple(NewTriple(lit, a, a))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid subject")

	err = ValidateTriple(NewTriple(a, NewBlank("p"), a))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid predicate")

	err = ValidateTriple(NewTriple(a, a, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid object")
}
