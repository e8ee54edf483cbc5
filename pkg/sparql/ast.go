// Package sparql implements a SPARQL subset: SELECT, ASK, CONSTRUCT and
// DESCRIBE over basic graph patterns, with PREFIX declarations and LIMIT.
package sparql

import (
	"github.com/kitegraph/kite/pkg/rdf"
)

// QueryType identifies the query form
type QueryType int

const (
	QueryTypeSelect QueryType = iota + 1
	QueryTypeAsk
	QueryTypeConstruct
	QueryTypeDescribe
)

func (t QueryType) String() string {
	switch t {
	case QueryTypeSelect:
		return "SELECT"
	case QueryTypeAsk:
		return "ASK"
	case QueryTypeConstruct:
		return "CONSTRUCT"
	case QueryTypeDescribe:
		return "DESCRIBE"
	default:
		return "UNKNOWN"
	}
}

// Query is a parsed query; exactly one form field is set, per QueryType
type Query struct {
	Type      QueryType
	Select    *SelectQuery
	Ask       *AskQuery
	Construct *ConstructQuery
	Describe  *DescribeQuery
}

// SelectQuery projects variable bindings from a graph pattern
type SelectQuery struct {
	Variables []*Variable // nil means SELECT *
	Where     []*TriplePattern
	Limit     *int
}

// AskQuery tests whether the pattern has at least one solution
type AskQuery struct {
	Where []*TriplePattern
}

// ConstructQuery instantiates a template for every WHERE solution
type ConstructQuery struct {
	Template []*TriplePattern
	Where    []*TriplePattern
}

// DescribeQuery returns all triples with the resource as subject
type DescribeQuery struct {
	Resource *rdf.IRI
}

// Variable is a query variable (?name)
type Variable struct {
	Name string
}

func (v *Variable) String() string {
	return "?" + v.Name
}

// TermOrVariable holds either a ground term or a variable, never both
type TermOrVariable struct {
	Term     rdf.Term
	Variable *Variable
}

// IsVariable reports whether the position is unbound
func (tv *TermOrVariable) IsVariable() bool {
	return tv.Variable != nil
}

// TriplePattern is a triple with variables allowed in any position
type TriplePattern struct {
	Subject   TermOrVariable
	Predicate TermOrVariable
	Object    TermOrVariable
}

// Variables returns the distinct variable names in the pattern list, in
// first-appearance order.
func Variables(patterns []*TriplePattern) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(tv TermOrVariable) {
		if tv.Variable != nil && !seen[tv.Variable.Name] {
			seen[tv.Variable.Name] = true
			names = append(names, tv.Variable.Name)
		}
	}
	for _, p := range patterns {
		add(p.Subject)
		add(p.Predicate)
		add(p.Object)
	}
	return names
}
