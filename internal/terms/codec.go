// Package terms implements the fixed-size term encoding used by the store
// indexes. A term becomes a type byte followed by 16 bytes of payload:
// either the xxh3-128 hash of its lexical key, or the value itself inlined
// when it fits. Hashed terms keep their full lexical key in the dictionary
// table so decoding is exact.
package terms

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/kitegraph/kite/pkg/rdf"
)

const (
	// MaxInlineStringSize is the largest string stored directly in the
	// payload instead of being hashed.
	MaxInlineStringSize = 16

	// EncodedTermSize is one type byte plus 16 payload bytes.
	EncodedTermSize = 17
)

// EncodedTerm is the fixed-size index representation of a term.
type EncodedTerm [EncodedTermSize]byte

// TermType extracts the term type tag.
func (e EncodedTerm) TermType() rdf.TermType {
	return rdf.TermType(e[0])
}

// Codec encodes terms for index keys and decodes them back, given the
// dictionary string where one was stored.
type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

// Hash128 computes the 128-bit xxh3 hash of a lexical key.
func (c *Codec) Hash128(s string) [16]byte {
	hash := xxh3.Hash128([]byte(s))
	var result [16]byte
	binary.BigEndian.PutUint64(result[0:8], hash.Hi)
	binary.BigEndian.PutUint64(result[8:16], hash.Lo)
	return result
}

// Encode returns the fixed-size form of a term and, when the payload is a
// hash, the lexical key that must be stored in the dictionary.
func (c *Codec) Encode(term rdf.Term) (EncodedTerm, *string, error) {
	var encoded EncodedTerm

	switch t := term.(type) {
	case *rdf.IRI:
		encoded[0] = byte(rdf.TermTypeIRI)
		hash := c.Hash128(t.Value)
		copy(encoded[1:], hash[:])
		return encoded, &t.Value, nil

	case *rdf.BlankNode:
		encoded[0] = byte(rdf.TermTypeBlankNode)
		// Numeric labels inline directly; anything else hashes.
		if num, err := strconv.ParseUint(t.ID, 10, 64); err == nil && strconv.FormatUint(num, 10) == t.ID {
			binary.BigEndian.PutUint64(encoded[1:9], num)
			return encoded, nil, nil
		}
		hash := c.Hash128(t.ID)
		copy(encoded[1:], hash[:])
		return encoded, &t.ID, nil

	case *rdf.Literal:
		return c.encodeLiteral(t)

	default:
		return encoded, nil, fmt.Errorf("unknown term type: %T", term)
	}
}

// Literal dictionary keys preserve the exact lexical form so a decoded term
// is structurally identical to the inserted one. Language-tagged strings key
// as value@lang (split at the last '@'; language tags never contain one),
// typed literals as value NUL datatype (datatype IRIs never contain NUL).
func (c *Codec) encodeLiteral(lit *rdf.Literal) (EncodedTerm, *string, error) {
	var encoded EncodedTerm

	if err := lit.Validate(); err != nil {
		return encoded, nil, err
	}

	if lit.Language != "" {
		encoded[0] = byte(rdf.TermTypeLangStringLiteral)
		key := lit.Value + "@" + lit.Language
		hash := c.Hash128(key)
		copy(encoded[1:], hash[:])
		return encoded, &key, nil
	}

	if lit.Datatype != nil {
		encoded[0] = byte(rdf.TermTypeTypedLiteral)
		key := lit.Value + "\x00" + lit.Datatype.Value
		hash := c.Hash128(key)
		copy(encoded[1:], hash[:])
		return encoded, &key, nil
	}

	encoded[0] = byte(rdf.TermTypeStringLiteral)
	if len(lit.Value) <= MaxInlineStringSize && !strings.ContainsRune(lit.Value, 0) {
		copy(encoded[1:], lit.Value)
		return encoded, nil, nil
	}
	hash := c.Hash128(lit.Value)
	copy(encoded[1:], hash[:])
	return encoded, &lit.Value, nil
}

// Decode rebuilds a term from its encoded form. dictValue is the dictionary
// string for hashed payloads and nil for inlined ones.
func (c *Codec) Decode(encoded EncodedTerm, dictValue *string) (rdf.Term, error) {
	switch encoded.TermType() {
	case rdf.TermTypeIRI:
		if dictValue == nil {
			return nil, fmt.Errorf("dictionary value required for IRI")
		}
		return rdf.NewIRI(*dictValue), nil

	case rdf.TermTypeBlankNode:
		if dictValue != nil {
			return rdf.NewBlankNode(*dictValue), nil
		}
		num := binary.BigEndian.Uint64(encoded[1:9])
		return rdf.NewBlankNode(strconv.FormatUint(num, 10)), nil

	case rdf.TermTypeStringLiteral:
		if dictValue != nil {
			return rdf.NewLiteral(*dictValue), nil
		}
		payload := encoded[1:]
		if idx := bytes.IndexByte(payload, 0); idx >= 0 {
			payload = payload[:idx]
		}
		return rdf.NewLiteral(string(payload)), nil

	case rdf.TermTypeLangStringLiteral:
		if dictValue == nil {
			return nil, fmt.Errorf("dictionary value required for language-tagged literal")
		}
		idx := strings.LastIndexByte(*dictValue, '@')
		if idx < 0 {
			return nil, fmt.Errorf("malformed language literal key %q", *dictValue)
		}
		return rdf.NewLiteralWithLanguage((*dictValue)[:idx], (*dictValue)[idx+1:]), nil

	case rdf.TermTypeTypedLiteral:
		if dictValue == nil {
			return nil, fmt.Errorf("dictionary value required for typed literal")
		}
		idx := strings.LastIndexByte(*dictValue, 0)
		if idx < 0 {
			return nil, fmt.Errorf("malformed typed literal key %q", *dictValue)
		}
		return rdf.NewLiteralWithDatatype((*dictValue)[:idx], rdf.NewIRI((*dictValue)[idx+1:])), nil

	default:
		return nil, fmt.Errorf("unknown encoded term type: %d", encoded[0])
	}
}

// JoinKeys concatenates encoded terms into one index key, big-endian so
// lexicographic key order is scan order.
func JoinKeys(terms ...EncodedTerm) []byte {
	result := make([]byte, 0, len(terms)*EncodedTermSize)
	for _, term := range terms {
		result = append(result, term[:]...)
	}
	return result
}
