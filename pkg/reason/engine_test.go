package reason_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitegraph/kite/internal/storage"
	"github.com/kitegraph/kite/pkg/rdf"
	"github.com/kitegraph/kite/pkg/reason"
	"github.com/kitegraph/kite/pkg/store"
)

func ex(local string) *rdf.IRI {
	return rdf.NewIRI("http://example.org/" + local)
}

func newGraph(t *testing.T, triples []*rdf.Triple) *store.Graph {
	t.Helper()
	s, err := storage.NewMemoryStorage()
	require.NoError(t, err)
	g := store.NewGraph(s)
	t.Cleanup(func() { _ = g.Close() })
	_, err = g.InsertAll(triples)
	require.NoError(t, err)
	return g
}

func contains(t *testing.T, g *store.Graph, triple *rdf.Triple) bool {
	t.Helper()
	present, err := g.Contains(triple)
	require.NoError(t, err)
	return present
}

func TestInfer_TypeInheritance(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Student")),
		rdf.NewTriple(ex("Student"), rdf.RDFSSubClassOf, ex("Person")),
	})

	report, err := reason.Infer(g, reason.DefaultMaxIterations)
	require.NoError(t, err)

	assert.True(t, report.FixpointReached)
	assert.Equal(t, 1, report.TriplesAdded)
	assert.Equal(t, 2, report.RoundsRun, "one productive round plus the empty one")
	assert.True(t, contains(t, g, rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Person"))))
}

func TestInfer_SubClassTransitivityChain(t *testing.T) {
	// A chain of length n needs multiple rounds to close
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("A"), rdf.RDFSSubClassOf, ex("B")),
		rdf.NewTriple(ex("B"), rdf.RDFSSubClassOf, ex("C")),
		rdf.NewTriple(ex("C"), rdf.RDFSSubClassOf, ex("D")),
		rdf.NewTriple(ex("D"), rdf.RDFSSubClassOf, ex("E")),
		rdf.NewTriple(ex("x"), rdf.RDFType, ex("A")),
	})

	report, err := reason.Infer(g, reason.DefaultMaxIterations)
	require.NoError(t, err)
	assert.True(t, report.FixpointReached)

	// Full transitive closure of subClassOf
	for _, super := range []string{"B", "C", "D", "E"} {
		assert.True(t, contains(t, g, rdf.NewTriple(ex("A"), rdf.RDFSSubClassOf, ex(super))),
			"A should be subclass of %s", super)
		assert.True(t, contains(t, g, rdf.NewTriple(ex("x"), rdf.RDFType, ex(super))),
			"x should have type %s", super)
	}
}

func TestInfer_SubPropertyTransitivity(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("p"), rdf.RDFSSubPropertyOf, ex("q")),
		rdf.NewTriple(ex("q"), rdf.RDFSSubPropertyOf, ex("r")),
	})

	_, err := reason.Infer(g, reason.DefaultMaxIterations)
	require.NoError(t, err)
	assert.True(t, contains(t, g, rdf.NewTriple(ex("p"), rdf.RDFSSubPropertyOf, ex("r"))))
}

func TestInfer_DomainAndRange(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("teaches"), rdf.RDFSDomain, ex("Teacher")),
		rdf.NewTriple(ex("teaches"), rdf.RDFSRange, ex("Course")),
		rdf.NewTriple(ex("ada"), ex("teaches"), ex("logic")),
		rdf.NewTriple(ex("ada"), ex("label"), rdf.NewLiteral("Ada")),
		rdf.NewTriple(ex("label"), rdf.RDFSRange, ex("Name")),
	})

	report, err := reason.Infer(g, reason.DefaultMaxIterations)
	require.NoError(t, err)
	assert.True(t, report.FixpointReached)

	assert.True(t, contains(t, g, rdf.NewTriple(ex("ada"), rdf.RDFType, ex("Teacher"))))
	assert.True(t, contains(t, g, rdf.NewTriple(ex("logic"), rdf.RDFType, ex("Course"))))

	// Literal objects derive no type assertions
	it, err := g.Match(&store.Pattern{Predicate: rdf.RDFType, Object: ex("Name")})
	require.NoError(t, err)
	defer it.Close()
	assert.False(t, it.Next(), "range rule must skip literal objects")
}

func TestInfer_Monotone(t *testing.T) {
	data := []*rdf.Triple{
		rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Student")),
		rdf.NewTriple(ex("Student"), rdf.RDFSSubClassOf, ex("Person")),
		rdf.NewTriple(ex("alice"), ex("name"), rdf.NewLiteral("Alice")),
	}
	g := newGraph(t, data)

	before, err := g.Size()
	require.NoError(t, err)

	_, err = reason.Infer(g, reason.DefaultMaxIterations)
	require.NoError(t, err)

	after, err := g.Size()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, after, before, "inference only adds")

	for _, triple := range data {
		assert.True(t, contains(t, g, triple), "original triple must survive: %s", triple)
	}
}

func TestInfer_FixpointIsDeterministic(t *testing.T) {
	build := func() *store.Graph {
		return newGraph(t, []*rdf.Triple{
			rdf.NewTriple(ex("A"), rdf.RDFSSubClassOf, ex("B")),
			rdf.NewTriple(ex("B"), rdf.RDFSSubClassOf, ex("C")),
			rdf.NewTriple(ex("x"), rdf.RDFType, ex("A")),
			rdf.NewTriple(ex("y"), rdf.RDFType, ex("B")),
		})
	}

	g1, g2 := build(), build()
	r1, err := reason.Infer(g1, reason.DefaultMaxIterations)
	require.NoError(t, err)
	r2, err := reason.Infer(g2, reason.DefaultMaxIterations)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)

	s1, err := g1.Size()
	require.NoError(t, err)
	s2, err := g2.Size()
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	// Re-running on a closed graph derives nothing
	again, err := reason.Infer(g1, reason.DefaultMaxIterations)
	require.NoError(t, err)
	assert.Equal(t, 0, again.TriplesAdded)
	assert.Equal(t, 1, again.RoundsRun)
	assert.True(t, again.FixpointReached)
}

func TestInfer_ZeroIterations(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Student")),
		rdf.NewTriple(ex("Student"), rdf.RDFSSubClassOf, ex("Person")),
	})

	report, err := reason.Infer(g, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, report.RoundsRun)
	assert.Equal(t, 0, report.TriplesAdded)
	assert.False(t, report.FixpointReached)
	assert.False(t, contains(t, g, rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Person"))))
}

func TestInfer_IterationCap(t *testing.T) {
	// A long chain cannot close in one round
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("A"), rdf.RDFSSubClassOf, ex("B")),
		rdf.NewTriple(ex("B"), rdf.RDFSSubClassOf, ex("C")),
		rdf.NewTriple(ex("C"), rdf.RDFSSubClassOf, ex("D")),
		rdf.NewTriple(ex("D"), rdf.RDFSSubClassOf, ex("E")),
		rdf.NewTriple(ex("E"), rdf.RDFSSubClassOf, ex("F")),
		rdf.NewTriple(ex("F"), rdf.RDFSSubClassOf, ex("G")),
		rdf.NewTriple(ex("G"), rdf.RDFSSubClassOf, ex("H")),
	})

	report, err := reason.Infer(g, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RoundsRun)
	assert.False(t, report.FixpointReached, "one round cannot close this chain")
	assert.Greater(t, report.TriplesAdded, 0)
}

func TestRules_Inspection(t *testing.T) {
	rules := reason.Rules()
	require.NotEmpty(t, rules)

	names := make(map[string]bool)
	for _, rule := range rules {
		assert.NotEmpty(t, rule.Name)
		assert.NotEmpty(t, rule.Description)
		assert.NotNil(t, rule.Apply)
		names[rule.Name] = true
	}
	for _, expected := range []string{"rdfs2", "rdfs3", "rdfs5", "rdfs9", "rdfs11"} {
		assert.True(t, names[expected], "missing rule %s", expected)
	}
}
