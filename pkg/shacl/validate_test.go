package shacl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitegraph/kite/internal/storage"
	"github.com/kitegraph/kite/pkg/rdf"
	"github.com/kitegraph/kite/pkg/shacl"
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

func intPtr(n int) *int { return &n }

func personShape(props ...shacl.PropertyConstraint) []shacl.Shape {
	return []shacl.Shape{{
		Name:        "PersonShape",
		TargetClass: "http://example.org/Person",
		Properties:  props,
	}}
}

func TestValidate_Conforms(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Person")),
		rdf.NewTriple(ex("alice"), ex("name"), rdf.NewLiteral("Alice")),
	})

	report, err := shacl.Validate(g, personShape(shacl.PropertyConstraint{
		Path:     "http://example.org/name",
		MinCount: intPtr(1),
		MaxCount: intPtr(1),
	}))
	require.NoError(t, err)
	assert.True(t, report.Conforms)
	assert.Empty(t, report.Violations)
}

func TestValidate_MinCountViolation(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Person")),
		rdf.NewTriple(ex("bob"), rdf.RDFType, ex("Person")),
		rdf.NewTriple(ex("bob"), ex("name"), rdf.NewLiteral("Bob")),
	})

	report, err := shacl.Validate(g, personShape(shacl.PropertyConstraint{
		Path:     "http://example.org/name",
		MinCount: intPtr(1),
	}))
	require.NoError(t, err)

	assert.False(t, report.Conforms)
	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, "PersonShape", v.Shape)
	assert.True(t, v.FocusNode.Equals(ex("alice")), "alice has no name")
	assert.Equal(t, "http://example.org/name", v.Path)
}

func TestValidate_MaxCountViolation(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Person")),
		rdf.NewTriple(ex("alice"), ex("name"), rdf.NewLiteral("Alice")),
		rdf.NewTriple(ex("alice"), ex("name"), rdf.NewLiteral("Alicia")),
	})

	report, err := shacl.Validate(g, personShape(shacl.PropertyConstraint{
		Path:     "http://example.org/name",
		MaxCount: intPtr(1),
	}))
	require.NoError(t, err)
	assert.False(t, report.Conforms)
	require.Len(t, report.Violations, 1)
}

func TestValidate_DatatypeConstraint(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Person")),
		rdf.NewTriple(ex("alice"), ex("age"), rdf.NewLiteralWithDatatype("30", rdf.XSDInteger)),
		rdf.NewTriple(ex("bob"), rdf.RDFType, ex("Person")),
		rdf.NewTriple(ex("bob"), ex("age"), rdf.NewLiteral("thirty")),
	})

	report, err := shacl.Validate(g, personShape(shacl.PropertyConstraint{
		Path:     "http://example.org/age",
		Datatype: rdf.XSDInteger.Value,
	}))
	require.NoError(t, err)

	assert.False(t, report.Conforms)
	require.Len(t, report.Violations, 1)
	assert.True(t, report.Violations[0].FocusNode.Equals(ex("bob")))
}

func TestValidate_NodeKindConstraint(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Person")),
		rdf.NewTriple(ex("alice"), ex("knows"), ex("bob")),
		rdf.NewTriple(ex("alice"), ex("knows"), rdf.NewLiteral("bob the string")),
	})

	report, err := shacl.Validate(g, personShape(shacl.PropertyConstraint{
		Path:     "http://example.org/knows",
		NodeKind: shacl.NodeKindIRI,
	}))
	require.NoError(t, err)
	assert.False(t, report.Conforms)
	require.Len(t, report.Violations, 1)
}

func TestValidate_UnknownNodeKindFailsClosed(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Person")),
		rdf.NewTriple(ex("alice"), ex("knows"), ex("bob")),
	})

	report, err := shacl.Validate(g, personShape(shacl.PropertyConstraint{
		Path:     "http://example.org/knows",
		NodeKind: "Resource", // not a recognized kind
	}))
	require.NoError(t, err)

	assert.False(t, report.Conforms, "unknown node kinds must not silently pass")
	require.Len(t, report.Violations, 1)
	assert.Contains(t, report.Violations[0].Message, "unknown nodeKind")
}

func TestValidate_NoFocusNodes(t *testing.T) {
	g := newGraph(t, []*rdf.Triple{
		rdf.NewTriple(ex("alice"), rdf.RDFType, ex("Robot")),
	})

	report, err := shacl.Validate(g, personShape(shacl.PropertyConstraint{
		Path:     "http://example.org/name",
		MinCount: intPtr(1),
	}))
	require.NoError(t, err)
	assert.True(t, report.Conforms, "shapes without focus nodes trivially conform")
}

func TestLoadShapes(t *testing.T) {
	shapes, err := shacl.LoadShapes(`
shapes:
  - name: PersonShape
    targetClass: http://example.org/Person
    properties:
      - path: http://example.org/name
        minCount: 1
        maxCount: 1
        nodeKind: Literal
      - path: http://example.org/age
        datatype: http://www.w3.org/2001/XMLSchema#integer
`)
	require.NoError(t, err)
	require.Len(t, shapes, 1)

	shape := shapes[0]
	assert.Equal(t, "PersonShape", shape.Name)
	assert.Equal(t, "http://example.org/Person", shape.TargetClass)
	require.Len(t, shape.Properties, 2)
	require.NotNil(t, shape.Properties[0].MinCount)
	assert.Equal(t, 1, *shape.Properties[0].MinCount)
	assert.Equal(t, shacl.NodeKindLiteral, shape.Properties[0].NodeKind)
	assert.Nil(t, shape.Properties[1].MinCount)
}

func TestLoadShapes_Malformed(t *testing.T) {
	cases := map[string]string{
		"not yaml":            `{{{`,
		"empty":               ``,
		"no name":             "shapes:\n  - targetClass: http://example.org/P\n",
		"no target class":     "shapes:\n  - name: S\n",
		"missing path":        "shapes:\n  - name: S\n    targetClass: http://example.org/P\n    properties:\n      - minCount: 1\n",
		"negative minCount":   "shapes:\n  - name: S\n    targetClass: http://example.org/P\n    properties:\n      - path: http://example.org/p\n        minCount: -1\n",
		"min exceeds max":     "shapes:\n  - name: S\n    targetClass: http://example.org/P\n    properties:\n      - path: http://example.org/p\n        minCount: 3\n        maxCount: 1\n",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := shacl.LoadShapes(input)
			require.Error(t, err)
			var shapeErr *shacl.ShapeError
			assert.ErrorAs(t, err, &shapeErr)
		})
	}
}
