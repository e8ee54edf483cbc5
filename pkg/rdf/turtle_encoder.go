package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// EncodeTurtle serializes triples as Turtle, grouping statements by subject
// with ';'-separated predicate lists and ','-separated object lists. The
// prefixes map supplies namespace abbreviations; only prefixes actually used
// by the output get an @prefix header line.
func EncodeTurtle(triples []*Triple, prefixes map[string]string) (string, error) {
	sorted := make([]*Triple, len(triples))
	copy(sorted, triples)
	sort.Slice(sorted, func(i, j int) bool {
		return CompareTriples(sorted[i], sorted[j]) < 0
	})

	// Longest namespace wins when one is a prefix of another.
	names := make([]string, 0, len(prefixes))
	for name := range prefixes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(prefixes[names[i]]) != len(prefixes[names[j]]) {
			return len(prefixes[names[i]]) > len(prefixes[names[j]])
		}
		return names[i] < names[j]
	})

	used := make(map[string]bool)
	compact := func(iri string) string {
		for _, name := range names {
			ns := prefixes[name]
			if ns == "" || !strings.HasPrefix(iri, ns) {
				continue
			}
			local := iri[len(ns):]
			if !isSafeLocalName(local) {
				continue
			}
			used[name] = true
			return name + ":" + local
		}
		return "<" + iri + ">"
	}

	writeTerm := func(sb *strings.Builder, term Term) error {
		switch t := term.(type) {
		case *IRI:
			sb.WriteString(compact(t.Value))
			return nil
		case *BlankNode:
			sb.WriteString("_:" + t.ID)
			return nil
		case *Literal:
			if err := t.Validate(); err != nil {
				return err
			}
			sb.WriteString(`"` + escapeLiteralValue(t.Value) + `"`)
			if t.Language != "" {
				sb.WriteString("@" + t.Language)
			} else if t.Datatype != nil {
				sb.WriteString("^^" + compact(t.Datatype.Value))
			}
			return nil
		default:
			return fmt.Errorf("cannot serialize term of type %T", term)
		}
	}

	var body strings.Builder
	for i := 0; i < len(sorted); {
		subject := sorted[i].Subject
		if err := writeTerm(&body, subject); err != nil {
			return "", err
		}
		body.WriteString(" ")

		firstPredicate := true
		for i < len(sorted) && sorted[i].Subject.Equals(subject) {
			predicate := sorted[i].Predicate
			if !firstPredicate {
				body.WriteString(" ;\n    ")
			}
			firstPredicate = false
			// The 'a' shorthand is only valid in predicate position.
			if n, ok := predicate.(*IRI); ok && n.Value == RDFType.Value {
				body.WriteString("a")
			} else if err := writeTerm(&body, predicate); err != nil {
				return "", err
			}
			body.WriteString(" ")

			firstObject := true
			for i < len(sorted) && sorted[i].Subject.Equals(subject) && sorted[i].Predicate.Equals(predicate) {
				if !firstObject {
					body.WriteString(", ")
				}
				firstObject = false
				if err := writeTerm(&body, sorted[i].Object); err != nil {
					return "", err
				}
				i++
			}
		}
		body.WriteString(" .\n")
	}

	var sb strings.Builder
	usedNames := make([]string, 0, len(used))
	for name := range used {
		usedNames = append(usedNames, name)
	}
	sort.Strings(usedNames)
	for _, name := range usedNames {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", name, prefixes[name]))
	}
	if len(usedNames) > 0 && body.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(body.String())
	return sb.String(), nil
}

// isSafeLocalName reports whether a local name can follow a prefix without
// escaping. Conservative: anything odd falls back to the full IRI form.
func isSafeLocalName(local string) bool {
	if local == "" {
		return false
	}
	for _, r := range local {
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

// DecodeTurtle parses Turtle text with the given base namespace table.
func DecodeTurtle(input string, baseNamespaces map[string]string) ([]*Triple, error) {
	return NewTurtleDecoder(input, baseNamespaces).Decode()
}
