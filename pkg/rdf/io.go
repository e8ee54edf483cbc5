package rdf

import (
	"fmt"
	"strings"
)

// Format identifies one of the supported RDF exchange syntaxes.
type Format int

const (
	FormatTurtle Format = iota + 1
	FormatNTriples
	FormatJSONLD
	FormatRDFXML
)

func (f Format) String() string {
	switch f {
	case FormatTurtle:
		return "turtle"
	case FormatNTriples:
		return "ntriples"
	case FormatJSONLD:
		return "jsonld"
	case FormatRDFXML:
		return "rdfxml"
	default:
		return "unknown"
	}
}

// FormatByName resolves a format from its short name (as used by CLI flags
// and file extensions).
func FormatByName(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "turtle", "ttl":
		return FormatTurtle, nil
	case "ntriples", "nt", "n-triples":
		return FormatNTriples, nil
	case "jsonld", "json-ld", "jsonld11":
		return FormatJSONLD, nil
	case "rdfxml", "rdf-xml", "rdf/xml", "xml":
		return FormatRDFXML, nil
	default:
		return 0, fmt.Errorf("unsupported format: %s", name)
	}
}

// FormatByContentType resolves a format from a MIME content type, for
// collaborator layers that speak HTTP.
func FormatByContentType(contentType string) (Format, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}
	switch ct {
	case "text/turtle", "application/x-turtle":
		return FormatTurtle, nil
	case "application/n-triples", "text/plain":
		return FormatNTriples, nil
	case "application/ld+json":
		return FormatJSONLD, nil
	case "application/rdf+xml":
		return FormatRDFXML, nil
	default:
		return 0, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// ContentType returns the canonical MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatTurtle:
		return "text/turtle"
	case FormatNTriples:
		return "application/n-triples"
	case FormatJSONLD:
		return "application/ld+json"
	case FormatRDFXML:
		return "application/rdf+xml"
	default:
		return "application/octet-stream"
	}
}

// DecodeString parses text in the given format. baseNamespaces seeds the
// prefix table for formats with prefix syntax; it is never mutated. A decode
// error yields no triples: partial graphs are discarded.
func DecodeString(format Format, input string, baseNamespaces map[string]string) ([]*Triple, error) {
	switch format {
	case FormatTurtle:
		return NewTurtleDecoder(input, baseNamespaces).Decode()
	case FormatNTriples:
		return DecodeNTriples(input)
	case FormatJSONLD:
		return DecodeJSONLD(input)
	case FormatRDFXML:
		return DecodeRDFXML(input)
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// Encode serializes triples in the given format. Prefixes are used by
// formats that support namespace abbreviation and ignored otherwise.
// Encoding is the left inverse of decoding for every triple set expressible
// in the target format.
func Encode(format Format, triples []*Triple, prefixes map[string]string) (string, error) {
	for _, t := range triples {
		if lit, ok := t.Object.(*Literal); ok {
			if err := lit.Validate(); err != nil {
				return "", err
			}
		}
	}
	switch format {
	case FormatTurtle:
		return EncodeTurtle(triples, prefixes)
	case FormatNTriples:
		return EncodeNTriples(triples)
	case FormatJSONLD:
		return EncodeJSONLD(triples, prefixes)
	case FormatRDFXML:
		return EncodeRDFXML(triples, prefixes)
	default:
		return "", fmt.Errorf("unsupported format: %v", format)
	}
}
