package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfq/internal/rdf"
)

func TestFindTriples_Patterns(t *testing.T) {
	s := createTestStore(t)
	mustAdd(t, s,
		triple(exA, exP, exA),
		triple(exA, exP, exB),
		triple(exB, exQ, exC),
	)

	tests := []struct {
		name    string
		pattern rdf.Triple
		want    []rdf.Triple
	}{
		{"all wildcards", rdf.Triple{}, []rdf.Triple{triple(exA, exP, exA), triple(exA, exP, exB), triple(exB, exQ, exC)}},
		{"subject bound", rdf.NewTriple(res(exA), nil, nil), []rdf.Triple{triple(exA, exP, exA), triple(exA, exP, exB)}},
		{"predicate bound", rdf.NewTriple(nil, res(exQ), nil), []rdf.Triple{triple(exB, exQ, exC)}},
		{"object bound", rdf.NewTriple(nil, nil, res(exB)), []rdf.Triple{triple(exA, exP, exB)}},
		{"fully bound", triple(exA, exP, exB), []rdf.Triple{triple(exA, exP, exB)}},
		{"no match", rdf.NewTriple(res(exC), nil, nil), nil},
		{"unknown term", rdf.NewTriple(res("http://example/unknown"), nil, nil), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, mustFind(t, s, tt.pattern))
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.True(t, tt.want[i].Equal(got[i]), "row %d: got %s want %s", i, got[i], tt.want[i])
			}
		})
	}

	assert.Zero(t, s.OpenStreams(), "collect closes every stream")
}

func TestFindTriples_DistinctAcrossContexts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, triple(exA, exP, exB), nil))
	require.NoError(t, s.Add(ctx, triple(exA, exP, exB), res(exG)))

	got := collect(t, mustFind(t, s, rdf.Triple{}))
	assert.Len(t, got, 1)
}

func TestFindTriples_EmptyStreamIsAtEnd(t *testing.T) {
	s := createTestStore(t)

	st := mustFind(t, s, rdf.Triple{})
	assert.True(t, st.End())
	require.NoError(t, st.Next(), "Next at end is a no-op")
	assert.True(t, st.End())
	require.NoError(t, st.Close())
	assert.Zero(t, s.OpenStreams())
}

func TestStream_CloseIdempotent(t *testing.T) {
	s := createTestStore(t)
	mustAdd(t, s, triple(exA, exP, exB), triple(exA, exP, exC))

	st := mustFind(t, s, rdf.Triple{})
	require.False(t, st.End())
	assert.Equal(t, int64(1), s.OpenStreams())

	require.NoError(t, st.Close())
	require.NoError(t, st.Close())
	assert.Zero(t, s.OpenStreams(), "second Close must not release again")
	assert.True(t, st.End())
}

func TestStream_EarlyAbandonReleasesConnection(t *testing.T) {
	s := createTestStore(t, WithIdleConns(1))
	ctx := context.Background()
	mustAdd(t, s, triple(exA, exP, exB), triple(exA, exP, exC))

	st := mustFind(t, s, rdf.Triple{})
	require.False(t, st.End())
	require.NoError(t, st.Close())

	assert.Zero(t, s.OpenStreams())
	ok, err := s.ContainsTriple(ctx, triple(exA, exP, exB))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStream_NestedScans(t *testing.T) {
	s := createTestStore(t)
	mustAdd(t, s, triple(exA, exP, exB), triple(exB, exP, exC))

	outer := mustFind(t, s, rdf.NewTriple(nil, res(exP), nil))
	defer outer.Close()

	var joined []string
	for !outer.End() {
		inner := mustFind(t, s, rdf.NewTriple(outer.Triple().Object, res(exP), nil))
		for _, tr := range collect(t, inner) {
			joined = append(joined, tr.String())
		}
		require.NoError(t, outer.Next())
	}

	assert.Equal(t, []string{"<http://example/B> <http://example/P> <http://example/C>"}, joined)
}

func TestStream_OpenStreamsExceedIdlePool(t *testing.T) {
	tests := []struct {
		name string
		open func(t *testing.T) *Store
	}{
		{"file", func(t *testing.T) *Store { return createTestStore(t, WithIdleConns(2)) }},
		{"memory", func(t *testing.T) *Store {
			s, err := Open(MemoryPath, WithIdleConns(2))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.open(t)
			mustAdd(t, s, triple(exA, exP, exB))

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			const depth = 12
			streams := make([]rdf.Stream, 0, depth)
			defer func() {
				for _, st := range streams {
					st.Close()
				}
			}()
			for i := 0; i < depth; i++ {
				st, err := s.FindTriples(ctx, rdf.Triple{})
				require.NoError(t, err, "stream %d", i)
				require.False(t, st.End())
				streams = append(streams, st)
			}
			assert.Equal(t, int64(depth), s.OpenStreams())
		})
	}
}

func TestContainsTriple(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustAdd(t, s, triple(exA, exP, exB))

	ok, err := s.ContainsTriple(ctx, triple(exA, exP, exB))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ContainsTriple(ctx, triple(exB, exP, exA))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.ContainsTriple(ctx, triple(exA, exP, "http://example/never"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.ContainsTriple(ctx, rdf.NewTriple(res(exA), nil, res(exB)))
	require.Error(t, err)
	assert.Zero(t, s.OpenStreams(), "existence checks allocate no stream")
}

func TestInContext(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, triple(exA, exP, exB), res(exG)))
	require.NoError(t, s.Add(ctx, triple(exA, exP, exC), nil))

	g := s.InContext(res(exG))
	assert.True(t, rdf.Equal(res(exG), g.Context()))

	got := collect(t, mustFindIn(t, g, rdf.Triple{}))
	require.Len(t, got, 1)
	assert.True(t, triple(exA, exP, exB).Equal(got[0]))

	ok, err := g.ContainsTriple(ctx, triple(exA, exP, exC))
	require.NoError(t, err)
	assert.False(t, ok, "default-graph statement is outside the context")

	def := s.InContext(nil)
	got = collect(t, mustFindIn(t, def, rdf.Triple{}))
	require.Len(t, got, 1)
	assert.True(t, triple(exA, exP, exC).Equal(got[0]))

	unknown := s.InContext(res("http://example/nowhere"))
	assert.Empty(t, collect(t, mustFindIn(t, unknown, rdf.Triple{})))

	require.NoError(t, g.Add(ctx, triple(exB, exQ, exC)))
	ok, err = g.ContainsTriple(ctx, triple(exB, exQ, exC))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContexts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	contexts, err := s.Contexts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, contexts)
	assert.Empty(t, contexts)

	require.NoError(t, s.Add(ctx, triple(exA, exP, exB), res(exG)))
	require.NoError(t, s.Add(ctx, triple(exA, exP, exB), rdf.NewBlank("g2")))
	require.NoError(t, s.Add(ctx, triple(exA, exP, exC), nil))

	contexts, err = s.Contexts(ctx)
	require.NoError(t, err)
	require.Len(t, contexts, 2)
	assert.True(t, rdf.Equal(res(exG), contexts[0]))
	assert.True(t, rdf.Equal(rdf.NewBlank("g2"), contexts[1]))
}

func TestLookupSQL(t *testing.T) {
	l := lookup{ids: [3]int64{7, 0, 9}}
	query, params := l.findSQL()
	assert.Contains(t, query, "SELECT DISTINCT")
	assert.Contains(t, query, "WHERE q.subject = ? AND q.object = ?")
	assert.Contains(t, query, "ORDER BY q.subject ASC, q.predicate ASC, q.object ASC")
	assert.Equal(t, []any{int64(7), int64(9)}, params)

	scoped := lookup{scoped: true, context: 3}
	query, params = scoped.findSQL()
	assert.NotContains(t, query, "DISTINCT")
	assert.Contains(t, query, "WHERE q.context = ?")
	assert.Equal(t, []any{int64(3)}, params)

	query, params = lookup{}.existsSQL()
	assert.Equal(t, "SELECT EXISTS (SELECT 1 FROM quads q)", query)
	assert.Empty(t, params)
}

func mustFindIn(t *testing.T, g *Graph, pattern rdf.Triple) rdf.Stream {
	t.Helper()
	st, err := g.FindTriples(context.Background(), pattern)
	require.NoError(t, err)
	return st
}
