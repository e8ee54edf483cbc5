package store

import (
	"fmt"

	"github.com/kitegraph/kite/internal/terms"
	"github.com/kitegraph/kite/pkg/rdf"
)

// Graph is the indexed triple store. Every triple is written to three index
// permutations (SPO, POS, OSP) so any combination of bound pattern positions
// resolves to a prefix scan on one of them.
type Graph struct {
	storage Storage
	codec   *terms.Codec
}

// NewGraph creates a triple store on top of a key-value storage.
func NewGraph(storage Storage) *Graph {
	return &Graph{
		storage: storage,
		codec:   terms.NewCodec(),
	}
}

// Close closes the underlying storage.
func (g *Graph) Close() error {
	return g.storage.Close()
}

// Insert adds a triple. The returned bool reports whether the triple was new;
// inserting an existing triple is a no-op and reports false.
func (g *Graph) Insert(triple *rdf.Triple) (bool, error) {
	txn, err := g.storage.Begin(true)
	if err != nil {
		return false, err
	}
	defer txn.Rollback()

	added, err := g.insertInTxn(txn, triple)
	if err != nil {
		return false, err
	}

	return added, txn.Commit()
}

// InsertAll adds a batch of triples in one transaction and returns how many
// were new. A failure rolls the whole batch back.
func (g *Graph) InsertAll(triples []*rdf.Triple) (int, error) {
	txn, err := g.storage.Begin(true)
	if err != nil {
		return 0, err
	}
	defer txn.Rollback()

	added := 0
	for _, triple := range triples {
		wasNew, err := g.insertInTxn(txn, triple)
		if err != nil {
			return 0, err
		}
		if wasNew {
			added++
		}
	}

	return added, txn.Commit()
}

func (g *Graph) insertInTxn(txn Transaction, triple *rdf.Triple) (bool, error) {
	subjEnc, subjStr, err := g.codec.Encode(triple.Subject)
	if err != nil {
		return false, fmt.Errorf("failed to encode subject: %w", err)
	}

	predEnc, predStr, err := g.codec.Encode(triple.Predicate)
	if err != nil {
		return false, fmt.Errorf("failed to encode predicate: %w", err)
	}

	objEnc, objStr, err := g.codec.Encode(triple.Object)
	if err != nil {
		return false, fmt.Errorf("failed to encode object: %w", err)
	}

	// Newness is determined on the primary index before writing.
	spoKey := terms.JoinKeys(subjEnc, predEnc, objEnc)
	_, err = txn.Get(TableSPO, spoKey)
	if err == nil {
		return false, nil
	}
	if err != ErrNotFound {
		return false, err
	}

	if err := g.storeString(txn, subjEnc, subjStr); err != nil {
		return false, err
	}
	if err := g.storeString(txn, predEnc, predStr); err != nil {
		return false, err
	}
	if err := g.storeString(txn, objEnc, objStr); err != nil {
		return false, err
	}

	emptyValue := []byte{}
	if err := txn.Set(TableSPO, spoKey, emptyValue); err != nil {
		return false, err
	}
	if err := txn.Set(TablePOS, terms.JoinKeys(predEnc, objEnc, subjEnc), emptyValue); err != nil {
		return false, err
	}
	if err := txn.Set(TableOSP, terms.JoinKeys(objEnc, subjEnc, predEnc), emptyValue); err != nil {
		return false, err
	}

	return true, nil
}

// storeString stores a dictionary entry for a hashed term if one is needed.
func (g *Graph) storeString(txn Transaction, encoded terms.EncodedTerm, str *string) error {
	if str == nil {
		return nil
	}

	// The hash portion of the encoded term is the dictionary key.
	key := encoded[1:]
	_, err := txn.Get(TableID2Str, key)
	if err == nil {
		return nil
	}
	if err != ErrNotFound {
		return err
	}

	return txn.Set(TableID2Str, key, []byte(*str))
}

// Delete removes a triple from all indexes. This is storage plumbing, not
// part of the engine surface: load, query, inference, validation and export
// only ever add triples, and inference counts on the store growing
// monotonically between rounds. Dictionary entries stay; they may be
// referenced by other triples (no garbage collection).
func (g *Graph) Delete(triple *rdf.Triple) error {
	txn, err := g.storage.Begin(true)
	if err != nil {
		return err
	}
	defer txn.Rollback()

	subjEnc, _, err := g.codec.Encode(triple.Subject)
	if err != nil {
		return err
	}
	predEnc, _, err := g.codec.Encode(triple.Predicate)
	if err != nil {
		return err
	}
	objEnc, _, err := g.codec.Encode(triple.Object)
	if err != nil {
		return err
	}

	if err := txn.Delete(TableSPO, terms.JoinKeys(subjEnc, predEnc, objEnc)); err != nil {
		return err
	}
	if err := txn.Delete(TablePOS, terms.JoinKeys(predEnc, objEnc, subjEnc)); err != nil {
		return err
	}
	if err := txn.Delete(TableOSP, terms.JoinKeys(objEnc, subjEnc, predEnc)); err != nil {
		return err
	}

	return txn.Commit()
}

// Contains checks membership of a fully ground triple.
func (g *Graph) Contains(triple *rdf.Triple) (bool, error) {
	txn, err := g.storage.Begin(false)
	if err != nil {
		return false, err
	}
	defer txn.Rollback()

	subjEnc, _, err := g.codec.Encode(triple.Subject)
	if err != nil {
		return false, err
	}
	predEnc, _, err := g.codec.Encode(triple.Predicate)
	if err != nil {
		return false, err
	}
	objEnc, _, err := g.codec.Encode(triple.Object)
	if err != nil {
		return false, err
	}

	_, err = txn.Get(TableSPO, terms.JoinKeys(subjEnc, predEnc, objEnc))
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Size returns the number of triples in the store.
func (g *Graph) Size() (int64, error) {
	txn, err := g.storage.Begin(false)
	if err != nil {
		return 0, err
	}
	defer txn.Rollback()

	it, err := txn.Scan(TableSPO, nil, nil)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	count := int64(0)
	for it.Next() {
		count++
	}
	return count, nil
}

// Iterate returns an iterator over every triple in the store, in SPO index
// order.
func (g *Graph) Iterate() (TripleIterator, error) {
	return g.Match(&Pattern{})
}

// Triples materializes the whole store as a slice.
func (g *Graph) Triples() ([]*rdf.Triple, error) {
	it, err := g.Iterate()
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var result []*rdf.Triple
	for it.Next() {
		triple, err := it.Triple()
		if err != nil {
			return nil, err
		}
		result = append(result, triple)
	}
	return result, nil
}
