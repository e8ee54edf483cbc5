package store

import (
	"fmt"

	"github.com/kitegraph/kite/internal/terms"
	"github.com/kitegraph/kite/pkg/rdf"
)

// Pattern is a triple pattern; a nil position matches any term.
type Pattern struct {
	Subject   rdf.Term
	Predicate rdf.Term
	Object    rdf.Term
}

// TripleIterator streams triples matching a pattern. The iterator holds a
// read transaction open; callers must Close it.
type TripleIterator interface {
	Next() bool
	Triple() (*rdf.Triple, error)
	Close() error
}

// Match returns a lazy iterator over all triples matching the pattern. The
// index is chosen so every bound position lands in the scan prefix:
//
//	bound positions      index   prefix
//	S / S,P / S,P,O      SPO     S [P [O]]
//	P / P,O              POS     P [O]
//	O / O,S              OSP     O [S]
//	(none)               SPO     full scan
//
// The iterator reads from a snapshot taken at Match time; concurrent inserts
// are not observed.
func (g *Graph) Match(pattern *Pattern) (TripleIterator, error) {
	txn, err := g.storage.Begin(false)
	if err != nil {
		return nil, err
	}

	table, order := selectIndex(pattern)

	prefix, err := g.buildScanPrefix(pattern, order)
	if err != nil {
		txn.Rollback()
		return nil, err
	}

	it, err := txn.Scan(table, prefix, nil)
	if err != nil {
		txn.Rollback()
		return nil, err
	}

	return &tripleIterator{
		graph: g,
		txn:   txn,
		it:    it,
		order: order,
	}, nil
}

// selectIndex picks the index whose key order puts the pattern's bound
// positions first. order maps key positions back to S=0, P=1, O=2.
func selectIndex(pattern *Pattern) (Table, [3]int) {
	sBound := pattern.Subject != nil
	pBound := pattern.Predicate != nil
	oBound := pattern.Object != nil

	spo := [3]int{0, 1, 2}
	pos := [3]int{1, 2, 0}
	osp := [3]int{2, 0, 1}

	switch {
	case sBound && pBound:
		return TableSPO, spo
	case pBound && oBound:
		return TablePOS, pos
	case oBound && sBound:
		return TableOSP, osp
	case sBound:
		return TableSPO, spo
	case pBound:
		return TablePOS, pos
	case oBound:
		return TableOSP, osp
	default:
		return TableSPO, spo
	}
}

// buildScanPrefix encodes the bound terms in key order, stopping at the first
// unbound position.
func (g *Graph) buildScanPrefix(pattern *Pattern, order [3]int) ([]byte, error) {
	positions := [3]rdf.Term{pattern.Subject, pattern.Predicate, pattern.Object}

	var prefix []byte
	for _, idx := range order {
		term := positions[idx]
		if term == nil {
			break
		}
		encoded, _, err := g.codec.Encode(term)
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, encoded[:]...)
	}
	return prefix, nil
}

type tripleIterator struct {
	graph  *Graph
	txn    Transaction
	it     Iterator
	order  [3]int
	closed bool
}

func (ti *tripleIterator) Next() bool {
	if ti.closed {
		return false
	}
	return ti.it.Next()
}

func (ti *tripleIterator) Triple() (*rdf.Triple, error) {
	if ti.closed {
		return nil, fmt.Errorf("iterator closed")
	}

	key := ti.it.Key()
	if key == nil {
		return nil, fmt.Errorf("no current key")
	}
	if len(key) != 3*terms.EncodedTermSize {
		return nil, fmt.Errorf("invalid index key length: %d", len(key))
	}

	// Map key positions back to subject, predicate, object.
	var positions [3]terms.EncodedTerm
	for i, idx := range ti.order {
		offset := i * terms.EncodedTermSize
		copy(positions[idx][:], key[offset:offset+terms.EncodedTermSize])
	}

	subject, err := ti.graph.decodeTerm(ti.txn, positions[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode subject: %w", err)
	}
	predicate, err := ti.graph.decodeTerm(ti.txn, positions[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode predicate: %w", err)
	}
	object, err := ti.graph.decodeTerm(ti.txn, positions[2])
	if err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}

	return rdf.NewTriple(subject, predicate, object), nil
}

func (ti *tripleIterator) Close() error {
	if ti.closed {
		return nil
	}
	ti.closed = true
	ti.it.Close()
	return ti.txn.Rollback()
}

// decodeTerm rebuilds a term, fetching its dictionary string when the
// encoding is a hash.
func (g *Graph) decodeTerm(txn Transaction, encoded terms.EncodedTerm) (rdf.Term, error) {
	var stringValue *string
	if str, err := txn.Get(TableID2Str, encoded[1:]); err == nil {
		strVal := string(str)
		stringValue = &strVal
	} else if err != ErrNotFound {
		return nil, err
	}

	return g.codec.Decode(encoded, stringValue)
}
