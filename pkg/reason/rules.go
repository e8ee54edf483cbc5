// Package reason implements forward-chaining RDFS entailment over a triple
// store. A fixed rule set is applied to a snapshot of the store until no rule
// derives a new triple or the iteration cap is reached.
package reason

import (
	"github.com/kitegraph/kite/pkg/rdf"
)

// Rule derives new triples from a snapshot of the store
type Rule struct {
	// Name follows the RDFS entailment rule numbering
	Name        string
	Description string
	Apply       func(s *snapshot) []*rdf.Triple
}

// Rules returns the entailment rules the engine applies, for inspection.
func Rules() []Rule {
	return []Rule{
		{
			Name:        "rdfs2",
			Description: "property domain implies subject type",
			Apply:       applyDomain,
		},
		{
			Name:        "rdfs3",
			Description: "property range implies object type",
			Apply:       applyRange,
		},
		{
			Name:        "rdfs5",
			Description: "subPropertyOf is transitive",
			Apply:       applySubPropertyTransitivity,
		},
		{
			Name:        "rdfs9",
			Description: "instances inherit types through subClassOf",
			Apply:       applyTypeInheritance,
		},
		{
			Name:        "rdfs11",
			Description: "subClassOf is transitive",
			Apply:       applySubClassTransitivity,
		},
	}
}

// snapshot is a read-only view of the store indexed for rule application.
// Keys are canonical term strings; values keep the original terms.
type snapshot struct {
	// predicate string -> triples using it
	byPredicate map[string][]*rdf.Triple
	// subject string -> objects, per schema predicate
	subClassOf    map[string][]rdf.Term
	subPropertyOf map[string][]rdf.Term
	domain        map[string][]rdf.Term
	rang          map[string][]rdf.Term
	// subject string -> subject term (for rebuilding derived triples)
	subjects map[string]rdf.Term
}

func newSnapshot(triples []*rdf.Triple) *snapshot {
	s := &snapshot{
		byPredicate:   make(map[string][]*rdf.Triple),
		subClassOf:    make(map[string][]rdf.Term),
		subPropertyOf: make(map[string][]rdf.Term),
		domain:        make(map[string][]rdf.Term),
		rang:          make(map[string][]rdf.Term),
		subjects:      make(map[string]rdf.Term),
	}

	for _, t := range triples {
		pred, ok := t.Predicate.(*rdf.IRI)
		if !ok {
			continue
		}
		s.byPredicate[pred.Value] = append(s.byPredicate[pred.Value], t)

		subjKey := t.Subject.String()
		s.subjects[subjKey] = t.Subject

		switch pred.Value {
		case rdf.RDFSSubClassOf.Value:
			s.subClassOf[subjKey] = append(s.subClassOf[subjKey], t.Object)
		case rdf.RDFSSubPropertyOf.Value:
			s.subPropertyOf[subjKey] = append(s.subPropertyOf[subjKey], t.Object)
		case rdf.RDFSDomain.Value:
			s.domain[subjKey] = append(s.domain[subjKey], t.Object)
		case rdf.RDFSRange.Value:
			s.rang[subjKey] = append(s.rang[subjKey], t.Object)
		}
	}

	return s
}

// applySubClassTransitivity: (A subClassOf B), (B subClassOf C) -> (A subClassOf C)
func applySubClassTransitivity(s *snapshot) []*rdf.Triple {
	var derived []*rdf.Triple
	for aKey, bs := range s.subClassOf {
		a := s.subjects[aKey]
		for _, b := range bs {
			for _, c := range s.subClassOf[b.String()] {
				derived = append(derived, rdf.NewTriple(a, rdf.RDFSSubClassOf, c))
			}
		}
	}
	return derived
}

// applySubPropertyTransitivity: (P subPropertyOf Q), (Q subPropertyOf R) -> (P subPropertyOf R)
func applySubPropertyTransitivity(s *snapshot) []*rdf.Triple {
	var derived []*rdf.Triple
	for pKey, qs := range s.subPropertyOf {
		p := s.subjects[pKey]
		for _, q := range qs {
			for _, r := range s.subPropertyOf[q.String()] {
				derived = append(derived, rdf.NewTriple(p, rdf.RDFSSubPropertyOf, r))
			}
		}
	}
	return derived
}

// applyTypeInheritance: (X type A), (A subClassOf B) -> (X type B)
func applyTypeInheritance(s *snapshot) []*rdf.Triple {
	var derived []*rdf.Triple
	for _, t := range s.byPredicate[rdf.RDFType.Value] {
		for _, super := range s.subClassOf[t.Object.String()] {
			derived = append(derived, rdf.NewTriple(t.Subject, rdf.RDFType, super))
		}
	}
	return derived
}

// applyDomain: (P domain C), (X P Y) -> (X type C)
func applyDomain(s *snapshot) []*rdf.Triple {
	var derived []*rdf.Triple
	for pKey, classes := range s.domain {
		for _, t := range s.byPredicate[propertyValue(s, pKey)] {
			for _, c := range classes {
				derived = append(derived, rdf.NewTriple(t.Subject, rdf.RDFType, c))
			}
		}
	}
	return derived
}

// applyRange: (P range C), (X P Y) -> (Y type C); literals cannot be subjects,
// so literal objects derive nothing
func applyRange(s *snapshot) []*rdf.Triple {
	var derived []*rdf.Triple
	for pKey, classes := range s.rang {
		for _, t := range s.byPredicate[propertyValue(s, pKey)] {
			if _, isLiteral := t.Object.(*rdf.Literal); isLiteral {
				continue
			}
			for _, c := range classes {
				derived = append(derived, rdf.NewTriple(t.Object, rdf.RDFType, c))
			}
		}
	}
	return derived
}

// propertyValue maps a schema subject key back to the bare IRI value used by
// the byPredicate index.
func propertyValue(s *snapshot, key string) string {
	if iri, ok := s.subjects[key].(*rdf.IRI); ok {
		return iri.Value
	}
	return ""
}
