// Package shacl implements a small shape-constraint validator: shapes target
// a class, and property constraints check cardinality and value kind on every
// instance of that class. Shape definitions load from YAML.
package shacl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// NodeKind names the admissible kinds for a constrained value
const (
	NodeKindIRI       = "IRI"
	NodeKindBlankNode = "BlankNode"
	NodeKindLiteral   = "Literal"
)

// Shape constrains the instances of a target class
type Shape struct {
	Name        string               `yaml:"name"`
	TargetClass string               `yaml:"targetClass"`
	Properties  []PropertyConstraint `yaml:"properties"`
}

// PropertyConstraint restricts the values a focus node has for one predicate.
// MinCount/MaxCount of nil mean unconstrained; Datatype and NodeKind empty
// mean unconstrained.
type PropertyConstraint struct {
	Path     string `yaml:"path"`
	MinCount *int   `yaml:"minCount"`
	MaxCount *int   `yaml:"maxCount"`
	Datatype string `yaml:"datatype"`
	NodeKind string `yaml:"nodeKind"`
}

// ShapeError reports a malformed shape definition
type ShapeError struct {
	Shape  string
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Shape == "" {
		return fmt.Sprintf("invalid shapes: %s", e.Reason)
	}
	return fmt.Sprintf("invalid shape %q: %s", e.Shape, e.Reason)
}

type shapesDocument struct {
	Shapes []Shape `yaml:"shapes"`
}

// LoadShapes parses a YAML shapes document:
//
//	shapes:
//	  - name: PersonShape
//	    targetClass: http://example.org/Person
//	    properties:
//	      - path: http://example.org/name
//	        minCount: 1
//	        maxCount: 1
//	        nodeKind: Literal
func LoadShapes(yamlText string) ([]Shape, error) {
	var doc shapesDocument
	if err := yaml.Unmarshal([]byte(yamlText), &doc); err != nil {
		return nil, &ShapeError{Reason: err.Error()}
	}
	if len(doc.Shapes) == 0 {
		return nil, &ShapeError{Reason: "no shapes defined"}
	}

	for _, shape := range doc.Shapes {
		if shape.Name == "" {
			return nil, &ShapeError{Reason: "shape without a name"}
		}
		if shape.TargetClass == "" {
			return nil, &ShapeError{Shape: shape.Name, Reason: "missing targetClass"}
		}
		for _, prop := range shape.Properties {
			if prop.Path == "" {
				return nil, &ShapeError{Shape: shape.Name, Reason: "property constraint without a path"}
			}
			if prop.MinCount != nil && *prop.MinCount < 0 {
				return nil, &ShapeError{Shape: shape.Name, Reason: "minCount must be non-negative"}
			}
			if prop.MaxCount != nil && *prop.MaxCount < 0 {
				return nil, &ShapeError{Shape: shape.Name, Reason: "maxCount must be non-negative"}
			}
			if prop.MinCount != nil && prop.MaxCount != nil && *prop.MinCount > *prop.MaxCount {
				return nil, &ShapeError{Shape: shape.Name, Reason: "minCount exceeds maxCount"}
			}
		}
	}

	return doc.Shapes, nil
}
