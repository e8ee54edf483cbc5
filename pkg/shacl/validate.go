package shacl

import (
	"fmt"

	"github.com/kitegraph/kite/pkg/rdf"
	"github.com/kitegraph/kite/pkg/store"
)

// Violation describes one constraint failure on one focus node
type Violation struct {
	Shape     string
	FocusNode rdf.Term
	Path      string
	Message   string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s %s: %s", v.Shape, v.FocusNode, v.Path, v.Message)
}

// ValidationReport is the outcome of validating a graph against shapes
type ValidationReport struct {
	Conforms   bool
	Violations []Violation
}

// Validate checks every shape against the graph. Focus nodes are the subjects
// typed with the shape's target class. Validation never mutates the graph.
func Validate(graph *store.Graph, shapes []Shape) (ValidationReport, error) {
	report := ValidationReport{Conforms: true}

	for _, shape := range shapes {
		focusNodes, err := focusNodesFor(graph, shape)
		if err != nil {
			return report, err
		}

		for _, focus := range focusNodes {
			for _, prop := range shape.Properties {
				violations, err := checkProperty(graph, shape, focus, prop)
				if err != nil {
					return report, err
				}
				report.Violations = append(report.Violations, violations...)
			}
		}
	}

	report.Conforms = len(report.Violations) == 0
	return report, nil
}

// focusNodesFor collects the subjects with rdf:type targetClass.
func focusNodesFor(graph *store.Graph, shape Shape) ([]rdf.Term, error) {
	it, err := graph.Match(&store.Pattern{
		Predicate: rdf.RDFType,
		Object:    rdf.NewIRI(shape.TargetClass),
	})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var nodes []rdf.Term
	for it.Next() {
		triple, err := it.Triple()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, triple.Subject)
	}
	return nodes, nil
}

func checkProperty(graph *store.Graph, shape Shape, focus rdf.Term, prop PropertyConstraint) ([]Violation, error) {
	values, err := propertyValues(graph, focus, prop.Path)
	if err != nil {
		return nil, err
	}

	var violations []Violation
	fail := func(message string) {
		violations = append(violations, Violation{
			Shape:     shape.Name,
			FocusNode: focus,
			Path:      prop.Path,
			Message:   message,
		})
	}

	if prop.MinCount != nil && len(values) < *prop.MinCount {
		fail(fmt.Sprintf("expected at least %d value(s), found %d", *prop.MinCount, len(values)))
	}
	if prop.MaxCount != nil && len(values) > *prop.MaxCount {
		fail(fmt.Sprintf("expected at most %d value(s), found %d", *prop.MaxCount, len(values)))
	}

	for _, value := range values {
		if prop.Datatype != "" {
			lit, ok := value.(*rdf.Literal)
			if !ok || lit.Datatype == nil || lit.Datatype.Value != prop.Datatype {
				fail(fmt.Sprintf("value %s does not have datatype <%s>", value, prop.Datatype))
			}
		}
		if prop.NodeKind != "" {
			ok, err := matchesNodeKind(value, prop.NodeKind)
			if err != nil {
				// Unknown node kinds fail closed: the value is reported as
				// a violation instead of silently passing
				fail(err.Error())
				continue
			}
			if !ok {
				fail(fmt.Sprintf("value %s is not of kind %s", value, prop.NodeKind))
			}
		}
	}

	return violations, nil
}

func propertyValues(graph *store.Graph, focus rdf.Term, path string) ([]rdf.Term, error) {
	it, err := graph.Match(&store.Pattern{
		Subject:   focus,
		Predicate: rdf.NewIRI(path),
	})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var values []rdf.Term
	for it.Next() {
		triple, err := it.Triple()
		if err != nil {
			return nil, err
		}
		values = append(values, triple.Object)
	}
	return values, nil
}

func matchesNodeKind(value rdf.Term, nodeKind string) (bool, error) {
	switch nodeKind {
	case NodeKindIRI:
		_, ok := value.(*rdf.IRI)
		return ok, nil
	case NodeKindBlankNode:
		_, ok := value.(*rdf.BlankNode)
		return ok, nil
	case NodeKindLiteral:
		_, ok := value.(*rdf.Literal)
		return ok, nil
	default:
		return false, fmt.Errorf("unknown nodeKind %q", nodeKind)
	}
}
