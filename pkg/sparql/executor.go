package sparql

import (
	"fmt"

	"github.com/kitegraph/kite/pkg/rdf"
	"github.com/kitegraph/kite/pkg/store"
)

// Solution maps variable names to the terms bound for one match
type Solution map[string]rdf.Term

// Result holds the outcome of a query; the fields used depend on Type
type Result struct {
	Type QueryType

	// SELECT
	Variables []string
	Solutions []Solution

	// ASK
	Ok bool

	// CONSTRUCT and DESCRIBE
	Triples []*rdf.Triple
}

// Executor evaluates queries against a triple store.
//
// Evaluation is a nested-loop join: patterns are processed left to right, each
// solution of the prefix is substituted into the next pattern before it is
// matched against the store. Patterns that become fully ground degrade to a
// membership test. There is no query planning or join reordering.
type Executor struct {
	graph *store.Graph
}

// NewExecutor creates an executor over a graph
func NewExecutor(graph *store.Graph) *Executor {
	return &Executor{graph: graph}
}

// Execute runs a parsed query
func (e *Executor) Execute(query *Query) (*Result, error) {
	switch query.Type {
	case QueryTypeSelect:
		return e.executeSelect(query.Select)
	case QueryTypeAsk:
		return e.executeAsk(query.Ask)
	case QueryTypeConstruct:
		return e.executeConstruct(query.Construct)
	case QueryTypeDescribe:
		return e.executeDescribe(query.Describe)
	default:
		return nil, fmt.Errorf("unsupported query type: %v", query.Type)
	}
}

func (e *Executor) executeSelect(query *SelectQuery) (*Result, error) {
	projected := projectionNames(query)

	result := &Result{
		Type:      QueryTypeSelect,
		Variables: projected,
	}

	limit := -1
	if query.Limit != nil {
		limit = *query.Limit
	}
	if limit == 0 {
		return result, nil
	}

	err := e.solve(query.Where, Solution{}, func(solution Solution) bool {
		row := make(Solution, len(projected))
		for _, name := range projected {
			if term, ok := solution[name]; ok {
				row[name] = term
			}
		}
		result.Solutions = append(result.Solutions, row)
		return limit < 0 || len(result.Solutions) < limit
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func projectionNames(query *SelectQuery) []string {
	if query.Variables == nil {
		// SELECT * projects every variable in the pattern
		return Variables(query.Where)
	}
	names := make([]string, len(query.Variables))
	for i, v := range query.Variables {
		names[i] = v.Name
	}
	return names
}

func (e *Executor) executeAsk(query *AskQuery) (*Result, error) {
	result := &Result{Type: QueryTypeAsk}

	// First solution decides; the search stops there
	err := e.solve(query.Where, Solution{}, func(Solution) bool {
		result.Ok = true
		return false
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (e *Executor) executeConstruct(query *ConstructQuery) (*Result, error) {
	result := &Result{Type: QueryTypeConstruct}

	err := e.solve(query.Where, Solution{}, func(solution Solution) bool {
		for _, template := range query.Template {
			triple, ok := instantiate(template, solution)
			if !ok {
				// Template positions left unbound, or a literal landed in
				// subject position: skip this instantiation
				continue
			}
			result.Triples = append(result.Triples, triple)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// instantiate substitutes a solution into a template pattern.
func instantiate(template *TriplePattern, solution Solution) (*rdf.Triple, bool) {
	subject := resolve(template.Subject, solution)
	predicate := resolve(template.Predicate, solution)
	object := resolve(template.Object, solution)

	if subject == nil || predicate == nil || object == nil {
		return nil, false
	}
	if _, ok := subject.(*rdf.Literal); ok {
		return nil, false
	}
	if _, ok := predicate.(*rdf.IRI); !ok {
		return nil, false
	}

	return rdf.NewTriple(subject, predicate, object), true
}

func (e *Executor) executeDescribe(query *DescribeQuery) (*Result, error) {
	result := &Result{Type: QueryTypeDescribe}

	it, err := e.graph.Match(&store.Pattern{Subject: query.Resource})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	for it.Next() {
		triple, err := it.Triple()
		if err != nil {
			return nil, err
		}
		result.Triples = append(result.Triples, triple)
	}

	return result, nil
}

// solve runs the nested-loop join over the pattern list, calling emit for
// every complete solution. emit returning false stops the search.
func (e *Executor) solve(patterns []*TriplePattern, binding Solution, emit func(Solution) bool) error {
	_, err := e.solveRec(patterns, binding, emit)
	return err
}

func (e *Executor) solveRec(patterns []*TriplePattern, binding Solution, emit func(Solution) bool) (bool, error) {
	if len(patterns) == 0 {
		return emit(cloneSolution(binding)), nil
	}

	pattern := patterns[0]
	rest := patterns[1:]

	subject := resolve(pattern.Subject, binding)
	predicate := resolve(pattern.Predicate, binding)
	object := resolve(pattern.Object, binding)

	// Fully ground patterns degrade to a membership test
	if subject != nil && predicate != nil && object != nil {
		present, err := e.graph.Contains(rdf.NewTriple(subject, predicate, object))
		if err != nil {
			return false, err
		}
		if !present {
			return true, nil
		}
		return e.solveRec(rest, binding, emit)
	}

	it, err := e.graph.Match(&store.Pattern{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	})
	if err != nil {
		return false, err
	}
	defer it.Close()

	for it.Next() {
		triple, err := it.Triple()
		if err != nil {
			return false, err
		}

		extended, ok := extend(binding, pattern, triple)
		if !ok {
			// The same variable matched two different terms in this triple
			continue
		}

		more, err := e.solveRec(rest, extended, emit)
		if err != nil {
			return false, err
		}
		if !more {
			return false, nil
		}
	}

	return true, nil
}

// resolve returns the ground term for a pattern position: the term itself, or
// the binding of its variable, or nil when the variable is unbound.
func resolve(tv TermOrVariable, binding Solution) rdf.Term {
	if tv.Term != nil {
		return tv.Term
	}
	if term, ok := binding[tv.Variable.Name]; ok {
		return term
	}
	return nil
}

// extend binds the pattern's unbound variables to the matched triple's terms.
// A variable occurring twice must match the same term both times.
func extend(binding Solution, pattern *TriplePattern, triple *rdf.Triple) (Solution, bool) {
	extended := cloneSolution(binding)

	bind := func(tv TermOrVariable, term rdf.Term) bool {
		if tv.Variable == nil {
			return true
		}
		if existing, ok := extended[tv.Variable.Name]; ok {
			return existing.Equals(term)
		}
		extended[tv.Variable.Name] = term
		return true
	}

	if !bind(pattern.Subject, triple.Subject) {
		return nil, false
	}
	if !bind(pattern.Predicate, triple.Predicate) {
		return nil, false
	}
	if !bind(pattern.Object, triple.Object) {
		return nil, false
	}
	return extended, true
}

func cloneSolution(s Solution) Solution {
	clone := make(Solution, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}
