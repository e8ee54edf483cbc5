package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// EncodeNTriples serializes triples to canonical N-Triples: one fully
// expanded statement per line, sorted by term order. This is the diff-stable
// export form and the left inverse of the N-Triples decoder.
func EncodeNTriples(triples []*Triple) (string, error) {
	sorted := make([]*Triple, len(triples))
	copy(sorted, triples)
	sort.Slice(sorted, func(i, j int) bool {
		return CompareTriples(sorted[i], sorted[j]) < 0
	})

	var sb strings.Builder
	for _, triple := range sorted {
		s, err := encodeTerm(triple.Subject)
		if err != nil {
			return "", err
		}
		p, err := encodeTerm(triple.Predicate)
		if err != nil {
			return "", err
		}
		o, err := encodeTerm(triple.Object)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
		sb.WriteString(" ")
		sb.WriteString(p)
		sb.WriteString(" ")
		sb.WriteString(o)
		sb.WriteString(" .\n")
	}
	return sb.String(), nil
}

// DecodeNTriples parses strict N-Triples text.
func DecodeNTriples(input string) ([]*Triple, error) {
	return NewNTriplesDecoder(input).Decode()
}

// encodeTerm writes one term in N-Triples form.
func encodeTerm(term Term) (string, error) {
	switch t := term.(type) {
	case *IRI:
		return fmt.Sprintf("<%s>", t.Value), nil
	case *BlankNode:
		return fmt.Sprintf("_:%s", t.ID), nil
	case *Literal:
		if err := t.Validate(); err != nil {
			return "", err
		}
		escaped := escapeLiteralValue(t.Value)
		if t.Language != "" {
			return fmt.Sprintf(`"%s"@%s`, escaped, t.Language), nil
		}
		if t.Datatype != nil {
			return fmt.Sprintf(`"%s"^^<%s>`, escaped, t.Datatype.Value), nil
		}
		return fmt.Sprintf(`"%s"`, escaped), nil
	default:
		return "", fmt.Errorf("cannot serialize term of type %T", term)
	}
}

// escapeLiteralValue applies the N-Triples escape rules: named escapes for
// the common control characters, \uXXXX for the rest.
func escapeLiteralValue(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\f':
			sb.WriteString(`\f`)
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7F {
				sb.WriteString(fmt.Sprintf(`\u%04X`, r))
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}
