package rdf

import (
	"fmt"
	"strings"
)

// TermType identifies the concrete variant of a Term.
type TermType byte

const (
	TermTypeIRI TermType = iota + 1
	TermTypeBlankNode
	TermTypeLiteral

	// Literal subtypes used by the store encoding
	TermTypeStringLiteral
	TermTypeLangStringLiteral
	TermTypeTypedLiteral
)

// Term represents an RDF term (IRI, blank node, or literal).
// Terms are immutable values; equality is structural.
type Term interface {
	Type() TermType
	String() string
	Equals(other Term) bool
}

// IRI represents an Internationalized Resource Identifier.
type IRI struct {
	Value string
}

func NewIRI(value string) *IRI {
	return &IRI{Value: value}
}

func (n *IRI) Type() TermType {
	return TermTypeIRI
}

func (n *IRI) String() string {
	return fmt.Sprintf("<%s>", n.Value)
}

func (n *IRI) Equals(other Term) bool {
	if on, ok := other.(*IRI); ok {
		return n.Value == on.Value
	}
	return false
}

// BlankNode represents an anonymous, locally-scoped resource.
type BlankNode struct {
	ID string
}

func NewBlankNode(id string) *BlankNode {
	return &BlankNode{ID: id}
}

func (b *BlankNode) Type() TermType {
	return TermTypeBlankNode
}

func (b *BlankNode) String() string {
	return fmt.Sprintf("_:%s", b.ID)
}

func (b *BlankNode) Equals(other Term) bool {
	if ob, ok := other.(*BlankNode); ok {
		return b.ID == ob.ID
	}
	return false
}

// Literal represents an RDF literal. At most one of Language and Datatype
// may be set; the constructors maintain that invariant and Validate reports
// a violation for hand-built values.
type Literal struct {
	Value    string
	Language string // language-tagged strings
	Datatype *IRI   // typed literals
}

func NewLiteral(value string) *Literal {
	return &Literal{Value: value}
}

func NewLiteralWithLanguage(value, language string) *Literal {
	return &Literal{Value: value, Language: language}
}

func NewLiteralWithDatatype(value string, datatype *IRI) *Literal {
	return &Literal{Value: value, Datatype: datatype}
}

func (l *Literal) Type() TermType {
	return TermTypeLiteral
}

func (l *Literal) String() string {
	result := fmt.Sprintf(`"%s"`, l.Value)
	if l.Language != "" {
		result += "@" + l.Language
	} else if l.Datatype != nil {
		result += "^^" + l.Datatype.String()
	}
	return result
}

func (l *Literal) Equals(other Term) bool {
	ol, ok := other.(*Literal)
	if !ok {
		return false
	}
	if l.Value != ol.Value || l.Language != ol.Language {
		return false
	}
	if l.Datatype == nil && ol.Datatype == nil {
		return true
	}
	if l.Datatype != nil && ol.Datatype != nil {
		return l.Datatype.Equals(ol.Datatype)
	}
	return false
}

// Validate reports whether the literal carries both a language tag and a
// datatype, which the data model forbids.
func (l *Literal) Validate() error {
	if l.Language != "" && l.Datatype != nil {
		return fmt.Errorf("literal %q cannot have both language tag %q and datatype %s",
			l.Value, l.Language, l.Datatype.Value)
	}
	return nil
}

// Triple represents an RDF (subject, predicate, object) fact. A triple is a
// value; the store deduplicates structurally equal triples.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func NewTriple(subject, predicate, object Term) *Triple {
	return &Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

func (t *Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

func (t *Triple) Equals(other *Triple) bool {
	if other == nil {
		return false
	}
	return t.Subject.Equals(other.Subject) &&
		t.Predicate.Equals(other.Predicate) &&
		t.Object.Equals(other.Object)
}

// termClassRank orders term classes for the total ordering:
// IRIs first, then blank nodes, then literals.
func termClassRank(t Term) int {
	switch t.(type) {
	case *IRI:
		return 0
	case *BlankNode:
		return 1
	case *Literal:
		return 2
	default:
		return 3
	}
}

// CompareTerms defines the total ordering used for canonical serialization
// and stable iteration. Terms order by class (IRI < blank node < literal),
// then lexically within a class; literals order by value, then language,
// then datatype IRI.
func CompareTerms(a, b Term) int {
	ra, rb := termClassRank(a), termClassRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ta := a.(type) {
	case *IRI:
		return strings.Compare(ta.Value, b.(*IRI).Value)
	case *BlankNode:
		return strings.Compare(ta.ID, b.(*BlankNode).ID)
	case *Literal:
		tb := b.(*Literal)
		if c := strings.Compare(ta.Value, tb.Value); c != 0 {
			return c
		}
		if c := strings.Compare(ta.Language, tb.Language); c != 0 {
			return c
		}
		var da, db string
		if ta.Datatype != nil {
			da = ta.Datatype.Value
		}
		if tb.Datatype != nil {
			db = tb.Datatype.Value
		}
		return strings.Compare(da, db)
	}
	return 0
}

// CompareTriples orders triples by subject, then predicate, then object.
func CompareTriples(a, b *Triple) int {
	if c := CompareTerms(a.Subject, b.Subject); c != 0 {
		return c
	}
	if c := CompareTerms(a.Predicate, b.Predicate); c != 0 {
		return c
	}
	return CompareTerms(a.Object, b.Object)
}

func NewIntegerLiteral(value int64) *Literal {
	return NewLiteralWithDatatype(fmt.Sprintf("%d", value), XSDInteger)
}

func NewDoubleLiteral(value float64) *Literal {
	return NewLiteralWithDatatype(fmt.Sprintf("%g", value), XSDDouble)
}

func NewBooleanLiteral(value bool) *Literal {
	return NewLiteralWithDatatype(fmt.Sprintf("%t", value), XSDBoolean)
}
