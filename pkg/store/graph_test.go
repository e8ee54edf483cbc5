package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitegraph/kite/internal/storage"
	"github.com/kitegraph/kite/pkg/rdf"
	"github.com/kitegraph/kite/pkg/store"
)

func newTestGraph(t *testing.T) *store.Graph {
	t.Helper()
	s, err := storage.NewMemoryStorage()
	require.NoError(t, err)
	g := store.NewGraph(s)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func ex(local string) *rdf.IRI {
	return rdf.NewIRI("http://example.org/" + local)
}

func TestGraph_InsertIsIdempotent(t *testing.T) {
	g := newTestGraph(t)
	triple := rdf.NewTriple(ex("s"), ex("p"), ex("o"))

	added, err := g.Insert(triple)
	require.NoError(t, err)
	assert.True(t, added, "first insert should report new")

	added, err = g.Insert(triple)
	require.NoError(t, err)
	assert.False(t, added, "second insert should report duplicate")

	size, err := g.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)
}

func TestGraph_InsertAllCountsNewOnly(t *testing.T) {
	g := newTestGraph(t)

	_, err := g.Insert(rdf.NewTriple(ex("s"), ex("p"), ex("o1")))
	require.NoError(t, err)

	added, err := g.InsertAll([]*rdf.Triple{
		rdf.NewTriple(ex("s"), ex("p"), ex("o1")), // already present
		rdf.NewTriple(ex("s"), ex("p"), ex("o2")),
		rdf.NewTriple(ex("s"), ex("p"), ex("o2")), // duplicate in batch
		rdf.NewTriple(ex("s"), ex("p"), ex("o3")),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	size, err := g.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
}

func TestGraph_Contains(t *testing.T) {
	g := newTestGraph(t)
	triple := rdf.NewTriple(ex("s"), ex("p"), rdf.NewLiteralWithDatatype("5", rdf.XSDInteger))

	_, err := g.Insert(triple)
	require.NoError(t, err)

	present, err := g.Contains(triple)
	require.NoError(t, err)
	assert.True(t, present)

	// A plain "5" is a different term from "5"^^xsd:integer
	present, err = g.Contains(rdf.NewTriple(ex("s"), ex("p"), rdf.NewLiteral("5")))
	require.NoError(t, err)
	assert.False(t, present)
}

func collect(t *testing.T, it store.TripleIterator) []*rdf.Triple {
	t.Helper()
	defer it.Close()
	var result []*rdf.Triple
	for it.Next() {
		triple, err := it.Triple()
		require.NoError(t, err)
		result = append(result, triple)
	}
	return result
}

func TestGraph_MatchAllPatternCombinations(t *testing.T) {
	g := newTestGraph(t)

	data := []*rdf.Triple{
		rdf.NewTriple(ex("alice"), ex("knows"), ex("bob")),
		rdf.NewTriple(ex("alice"), ex("name"), rdf.NewLiteral("Alice")),
		rdf.NewTriple(ex("bob"), ex("knows"), ex("carol")),
		rdf.NewTriple(ex("bob"), ex("name"), rdf.NewLiteral("Bob")),
		rdf.NewTriple(ex("carol"), ex("knows"), ex("bob")),
	}
	_, err := g.InsertAll(data)
	require.NoError(t, err)

	tests := []struct {
		name    string
		pattern *store.Pattern
		want    int
	}{
		{"all wildcards", &store.Pattern{}, 5},
		{"subject bound", &store.Pattern{Subject: ex("alice")}, 2},
		{"predicate bound", &store.Pattern{Predicate: ex("knows")}, 3},
		{"object bound", &store.Pattern{Object: ex("bob")}, 2},
		{"subject+predicate", &store.Pattern{Subject: ex("alice"), Predicate: ex("knows")}, 1},
		{"predicate+object", &store.Pattern{Predicate: ex("knows"), Object: ex("bob")}, 2},
		{"subject+object", &store.Pattern{Subject: ex("alice"), Object: ex("bob")}, 1},
		{"fully ground", &store.Pattern{Subject: ex("alice"), Predicate: ex("knows"), Object: ex("bob")}, 1},
		{"no match", &store.Pattern{Subject: ex("dave")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := g.Match(tt.pattern)
			require.NoError(t, err)
			matches := collect(t, it)
			assert.Len(t, matches, tt.want)

			// Every match satisfies the pattern
			for _, m := range matches {
				if tt.pattern.Subject != nil {
					assert.True(t, m.Subject.Equals(tt.pattern.Subject))
				}
				if tt.pattern.Predicate != nil {
					assert.True(t, m.Predicate.Equals(tt.pattern.Predicate))
				}
				if tt.pattern.Object != nil {
					assert.True(t, m.Object.Equals(tt.pattern.Object))
				}
			}
		})
	}
}

func TestGraph_TermsRoundTripExactly(t *testing.T) {
	g := newTestGraph(t)

	// Lexical forms must come back byte for byte, including ones a numeric
	// normalization would rewrite
	objects := []rdf.Term{
		rdf.NewLiteralWithDatatype("5.50", rdf.XSDDecimal),
		rdf.NewLiteralWithDatatype("0030", rdf.XSDInteger),
		rdf.NewLiteralWithLanguage("user@example.org", "en-GB"),
		rdf.NewLiteral("short"),
		rdf.NewLiteral("a literal long enough to be hashed instead of inlined"),
		rdf.NewBlankNode("node42"),
		rdf.NewBlankNode("b1"),
		ex("object"),
	}

	for i, obj := range objects {
		_, err := g.Insert(rdf.NewTriple(ex("s"), ex(string(rune('a'+i))), obj))
		require.NoError(t, err)
	}

	for i, obj := range objects {
		it, err := g.Match(&store.Pattern{Subject: ex("s"), Predicate: ex(string(rune('a' + i)))})
		require.NoError(t, err)
		matches := collect(t, it)
		require.Len(t, matches, 1)
		assert.True(t, matches[0].Object.Equals(obj),
			"expected %s, got %s", obj, matches[0].Object)
	}
}

func TestGraph_Delete(t *testing.T) {
	g := newTestGraph(t)
	triple := rdf.NewTriple(ex("s"), ex("p"), ex("o"))

	_, err := g.Insert(triple)
	require.NoError(t, err)
	require.NoError(t, g.Delete(triple))

	present, err := g.Contains(triple)
	require.NoError(t, err)
	assert.False(t, present)

	// Gone from every index
	for _, pattern := range []*store.Pattern{
		{Subject: ex("s")},
		{Predicate: ex("p")},
		{Object: ex("o")},
	} {
		it, err := g.Match(pattern)
		require.NoError(t, err)
		assert.Empty(t, collect(t, it))
	}
}

func TestGraph_IterateSnapshotIsolation(t *testing.T) {
	g := newTestGraph(t)

	_, err := g.Insert(rdf.NewTriple(ex("s"), ex("p"), ex("o1")))
	require.NoError(t, err)

	it, err := g.Iterate()
	require.NoError(t, err)
	defer it.Close()

	// Inserted after the iterator's snapshot; must not appear
	_, err = g.Insert(rdf.NewTriple(ex("s"), ex("p"), ex("o2")))
	require.NoError(t, err)

	count := 0
	for it.Next() {
		count++
	}
	assert.Equal(t, 1, count)
}
