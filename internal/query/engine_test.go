package query

import (
	"context"
	"errors"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = quad.IRI("http://example.org/alice")
	bob   = quad.IRI("http://example.org/bob")
	carol = quad.IRI("http://example.org/carol")
	knows = quad.IRI("http://xmlns.com/foaf/0.1/knows")
	name  = quad.IRI("http://xmlns.com/foaf/0.1/name")
)

func socialSource() *sliceSource {
	return newSliceSource(
		tr(alice, knows, bob),
		tr(alice, knows, carol),
		tr(bob, knows, carol),
		tr(carol, knows, carol),
		tr(alice, name, quad.String("Alice")),
		tr(bob, name, quad.String("Bob")),
	)
}

func newTestEngine(t *testing.T, src *sliceSource) *Engine {
	t.Helper()
	e := NewEngine(WithIDGenerator(NewSequenceGenerator("test")))
	require.NoError(t, e.RegisterSource("mem", src.factory()))
	return e
}

func TestRegisterSource_Duplicate(t *testing.T) {
	e := NewEngine()
	src := socialSource()

	require.NoError(t, e.RegisterSource("mem", src.factory()))
	err := e.RegisterSource("mem", src.factory())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterSource_Invalid(t *testing.T) {
	e := NewEngine()
	assert.Error(t, e.RegisterSource("", socialSource().factory()))
	assert.Error(t, e.RegisterSource("x", nil))
}

func TestSources_Sorted(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.RegisterSource("zeta", socialSource().factory()))
	require.NoError(t, e.RegisterSource("alpha", socialSource().factory()))

	assert.Equal(t, []string{"alpha", "zeta"}, e.Sources())
}

func TestExecute_UnknownSource(t *testing.T) {
	e := NewEngine()
	q := New()
	q.Where(V(q.Var("s")), C(knows), V(q.Var("o")))

	_, err := e.Execute(context.Background(), "missing", q)
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestExecute_SinglePattern(t *testing.T) {
	src := socialSource()
	e := newTestEngine(t, src)

	q := New()
	q.Where(C(alice), C(knows), V(q.Var("who")))

	res, err := e.Execute(context.Background(), "mem", q)
	require.NoError(t, err)

	assert.Equal(t, "test-1", res.EvalID)
	assert.Equal(t, []string{"who"}, res.Vars)
	assert.Equal(t, [][]quad.Value{{bob}, {carol}}, res.Rows)
	assert.Equal(t, src.opened, src.closed, "every match closed")
	assert.True(t, src.srcDone)
}

func TestExecute_Join(t *testing.T) {
	src := socialSource()
	e := newTestEngine(t, src)

	q := New()
	x, y, n := q.Var("x"), q.Var("y"), q.Var("n")
	q.Where(V(x), C(knows), V(y))
	q.Where(V(y), C(name), V(n))
	q.Select = []string{"x", "n"}

	res, err := e.Execute(context.Background(), "mem", q)
	require.NoError(t, err)

	assert.Equal(t, [][]quad.Value{{alice, quad.String("Bob")}}, res.Rows)
	assert.Equal(t, src.opened, src.closed)
}

func TestExecute_RepeatedVariable(t *testing.T) {
	e := newTestEngine(t, socialSource())

	q := New()
	x := q.Var("x")
	q.Where(V(x), C(knows), V(x))

	res, err := e.Execute(context.Background(), "mem", q)
	require.NoError(t, err)
	assert.Equal(t, [][]quad.Value{{carol}}, res.Rows)
}

func TestExecute_ZeroVariablePattern(t *testing.T) {
	e := newTestEngine(t, socialSource())

	present := New()
	s := present.Var("s")
	present.Where(C(alice), C(knows), C(bob))
	present.Where(V(s), C(name), Lit("Bob"))

	res, err := e.Execute(context.Background(), "mem", present)
	require.NoError(t, err)
	assert.Equal(t, [][]quad.Value{{bob}}, res.Rows)

	absent := New()
	s = absent.Var("s")
	absent.Where(C(bob), C(knows), C(alice))
	absent.Where(V(s), C(name), Lit("Bob"))

	res, err = e.Execute(context.Background(), "mem", absent)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestExecute_Limit(t *testing.T) {
	src := socialSource()
	e := newTestEngine(t, src)

	q := New()
	q.Where(V(q.Var("s")), C(knows), V(q.Var("o")))
	q.Limit = 2

	res, err := e.Execute(context.Background(), "mem", q)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, src.opened, src.closed, "limit closes the open match")
}

func TestExecute_Distinct(t *testing.T) {
	e := newTestEngine(t, socialSource())

	q := New()
	q.Where(V(q.Var("s")), C(knows), V(q.Var("o")))
	q.Select = []string{"o"}
	q.Distinct = true

	res, err := e.Execute(context.Background(), "mem", q)
	require.NoError(t, err)
	assert.Equal(t, [][]quad.Value{{bob}, {carol}}, res.Rows)
}

func TestExecute_ClearsVariables(t *testing.T) {
	e := newTestEngine(t, socialSource())

	q := New()
	o := q.Var("o")
	q.Where(C(alice), C(knows), V(o))

	_, err := e.Execute(context.Background(), "mem", q)
	require.NoError(t, err)
	assert.False(t, o.IsBound())

	// A second run sees the same rows.
	res, err := e.Execute(context.Background(), "mem", q)
	require.NoError(t, err)
	assert.Equal(t, "test-2", res.EvalID)
	assert.Len(t, res.Rows, 2)
}

func TestExecute_SourceError(t *testing.T) {
	src := socialSource()
	src.failAt = 0
	e := newTestEngine(t, src)

	q := New()
	q.Where(V(q.Var("s")), C(knows), V(q.Var("o")))

	_, err := e.Execute(context.Background(), "mem", q)
	require.Error(t, err)

	var ee *EvalError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "test-1", ee.EvalID)
	assert.Equal(t, 0, ee.Pattern)
	assert.Equal(t, src.opened, src.closed)
}

func TestExecute_FactoryError(t *testing.T) {
	e := NewEngine()
	boom := errors.New("boom")
	require.NoError(t, e.RegisterSource("bad", func(ctx context.Context, q *Query) (TriplesSource, error) {
		return nil, boom
	}))

	q := New()
	q.Where(V(q.Var("s")), C(knows), V(q.Var("o")))

	_, err := e.Execute(context.Background(), "bad", q)
	assert.ErrorIs(t, err, boom)
	assert.True(t, IsEvalError(err))
}

func TestExecute_Cancelled(t *testing.T) {
	e := newTestEngine(t, socialSource())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := New()
	q.Where(V(q.Var("s")), C(knows), V(q.Var("o")))

	_, err := e.Execute(ctx, "mem", q)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_InvalidQuery(t *testing.T) {
	e := newTestEngine(t, socialSource())

	_, err := e.Execute(context.Background(), "mem", New())
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestResults_Get(t *testing.T) {
	r := &Results{Vars: []string{"a", "b"}, Rows: [][]quad.Value{{alice, nil}}}

	assert.Equal(t, alice, r.Get(0, "a"))
	assert.Nil(t, r.Get(0, "b"))
	assert.Nil(t, r.Get(0, "c"))
	assert.Nil(t, r.Get(3, "a"))
	assert.Equal(t, [][]string{{"<http://example.org/alice>", ""}}, r.Strings())
}
